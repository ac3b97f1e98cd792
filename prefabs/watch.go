package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/milk9111/grit/engine"
)

// debounceWindow collapses the bursts of events editors emit per save.
const debounceWindow = 100 * time.Millisecond

// Watcher reloads kind specs as their files change on disk. Changed spec
// files are re-parsed and delivered as typed specs on Specs; changed
// script files are delivered as paths on Scripts for the host to
// recompile. Parse and filesystem failures arrive on Errors. All three
// channels close when the watcher shuts down.
type Watcher struct {
	fs      *fsnotify.Watcher
	Specs   chan *KindSpec
	Scripts chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// Watch starts watching the given directories for spec and script edits.
func Watch(dirs ...string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fs.Add(dir); err != nil {
			_ = fs.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:      fs,
		Specs:   make(chan *KindSpec, 16),
		Scripts: make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher. Safe to call more than once. The delivery
// channels close once the watch loop has drained out.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
	})
	return err
}

// Drain consumes every pending change without blocking. Changed specs
// replace their entry in the registry (which may be nil) and are
// re-applied to live entities of their kind in each given world. It
// returns false once the watcher has shut down.
func (w *Watcher) Drain(specs map[string]*KindSpec, worlds ...*engine.World) bool {
	for {
		select {
		case spec, ok := <-w.Specs:
			if !ok {
				return false
			}
			if specs != nil {
				specs[spec.Name] = spec
			}
			for _, world := range worlds {
				world.Each(func(e *engine.Entity) {
					if e.Kind == spec.Name {
						spec.Apply(e)
					}
				})
			}
		default:
			return true
		}
	}
}

func (w *Watcher) run() {
	defer close(w.Specs)
	defer close(w.Scripts)
	defer close(w.Errors)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			// Only saved versions trigger a reload; a removed file keeps
			// its last-known spec.
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < debounceWindow {
				continue
			}
			last[event.Name] = now

			switch {
			case isSpecFile(event.Name):
				spec, err := LoadSpec(event.Name)
				if err != nil {
					w.deliverErr(err)
					continue
				}
				select {
				case w.Specs <- spec:
				case <-w.closeCh:
					return
				}
			case isScriptFile(event.Name):
				select {
				case w.Scripts <- event.Name:
				case <-w.closeCh:
					return
				}
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.deliverErr(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) deliverErr(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
