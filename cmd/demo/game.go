package main

import (
	_ "embed"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/grit/engine"
	"github.com/milk9111/grit/level"
	"github.com/milk9111/grit/prefabs"
)

const (
	baseWidth  = 640
	baseHeight = 360
	tickRate   = 1.0 / 60
)

//go:embed scene.yaml
var defaultScene []byte

type Game struct {
	world   *engine.World
	watcher *prefabs.Watcher
	specs   map[string]*prefabs.KindSpec
	frames  int
}

func NewGame(scenePath, prefabDir string) (*Game, error) {
	w := engine.NewWorld(engine.Config{Gravity: 800, CellSize: 32})

	if err := registerBehaviors(w); err != nil {
		return nil, err
	}

	g := &Game{world: w, specs: defaultSpecs()}
	if prefabDir != "" {
		specs, err := prefabs.LoadDir(prefabDir)
		if err != nil {
			return nil, err
		}
		g.specs = specs

		watcher, err := prefabs.Watch(prefabDir)
		if err != nil {
			log.Printf("demo: prefab watch disabled: %v", err)
		} else {
			g.watcher = watcher
		}
	}

	lvl, err := loadScene(scenePath)
	if err != nil {
		return nil, err
	}
	lvl.Spawn(w, g.specs)
	return g, nil
}

// defaultSpecs backs the built-in scene when no -prefabs directory is
// given. A spec directory with matching names overrides these.
func defaultSpecs() map[string]*prefabs.KindSpec {
	noGravity := 0.0
	return map[string]*prefabs.KindSpec{
		"wall":   {Name: "wall", Solid: true, Static: true, GravityScale: &noGravity},
		"player": {Name: "player", Width: 14, Height: 22, Solid: true, Group: "player"},
		"coin":   {Name: "coin", Width: 8, Height: 8, GravityScale: &noGravity, Group: "pickup", CheckAgainst: "player"},
		"ball":   {Name: "ball", Width: 12, Height: 12, Solid: true, Restitution: 0.8},
	}
}

func loadScene(path string) (*level.Level, error) {
	if path != "" {
		return level.Load(path)
	}
	var l level.Level
	if err := yaml.Unmarshal(defaultScene, &l); err != nil {
		return nil, fmt.Errorf("demo: built-in scene: %w", err)
	}
	return &l, nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.world.Shutdown()
		os.Exit(0)
	}

	g.drainWatcher()
	g.world.SetInput(pollInput())
	if err := g.world.Step(tickRate); err != nil {
		return err
	}
	g.frames++
	return nil
}

// drainWatcher lands pending prefab edits on the live world before the
// step, so physics tuning changes apply without a restart.
func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	if !g.watcher.Drain(g.specs, g.world) {
		g.watcher = nil
		return
	}
	for {
		select {
		case err, ok := <-g.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("demo: prefab watcher: %v", err)
		default:
			return
		}
	}
}

func pollInput() engine.Input {
	in := engine.Input{
		Pressed:  map[string]bool{},
		Held:     map[string]bool{},
		Released: map[string]bool{},
	}
	keys := map[string]ebiten.Key{
		"left":  ebiten.KeyA,
		"right": ebiten.KeyD,
		"jump":  ebiten.KeySpace,
	}
	for name, key := range keys {
		in.Held[name] = ebiten.IsKeyPressed(key)
		in.Pressed[name] = inpututil.IsKeyJustPressed(key)
		in.Released[name] = inpututil.IsKeyJustReleased(key)
	}
	mx, my := ebiten.CursorPosition()
	in.PointerX = float64(mx)
	in.PointerY = float64(my)
	return in
}

var kindColors = map[string]color.RGBA{
	"player": {R: 0x57, G: 0xa6, B: 0xff, A: 0xff},
	"wall":   {R: 0x6b, G: 0x6b, B: 0x6b, A: 0xff},
	"coin":   {R: 0xff, G: 0xd4, B: 0x3b, A: 0xff},
	"ball":   {R: 0xef, G: 0x5d, B: 0x5d, A: 0xff},
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.world.Each(func(e *engine.Entity) {
		c, ok := kindColors[e.Kind]
		if !ok {
			c = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
		}
		vector.DrawFilledRect(screen,
			float32(e.Pos.X), float32(e.Pos.Y),
			float32(e.Size.X), float32(e.Size.Y),
			c, false)
	})

	score := 0
	if p := findPlayer(g.world); p != nil {
		score = p.Counter
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"entities: %d  events: %d  coins: %d  fps: %.1f",
		g.world.Count(), len(g.world.Events()), score, ebiten.ActualFPS()))
}

func findPlayer(w *engine.World) *engine.Entity {
	var found *engine.Entity
	w.Each(func(e *engine.Entity) {
		if e.Kind == "player" {
			found = e
		}
	})
	return found
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
