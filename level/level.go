// Package level is the loading boundary between external level sources
// and the engine: a decoded level is just a batch of entity seeds, and
// spawning it issues plain Spawn calls. File-format knowledge for real
// level editors stays in their importers; the yaml codec here covers the
// module's own scene files.
package level

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/grit/common"
	"github.com/milk9111/grit/engine"
	"github.com/milk9111/grit/prefabs"
)

// Seed describes one entity to spawn: its kind, placement, and custom
// fields for the behavior's Settings hook.
type Seed struct {
	Kind   string         `yaml:"kind"`
	X      float64        `yaml:"x"`
	Y      float64        `yaml:"y"`
	Width  float64        `yaml:"width"`
	Height float64        `yaml:"height"`
	Fields map[string]any `yaml:"fields"`
}

// Level is a decoded level: a named batch of entity seeds.
type Level struct {
	Name     string `yaml:"name"`
	Entities []Seed `yaml:"entities"`
}

// Load reads a level from a yaml file.
func Load(filename string) (*Level, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("level: load %s: %w", filename, err)
	}
	var l Level
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("level: unmarshal %s: %w", filename, err)
	}
	return &l, nil
}

// Spawn issues one spawn per seed, applying kind defaults from specs
// (which may be nil) before routing each seed's custom fields to the
// Settings hook. Seeds for unknown kinds are skipped with a diagnostic,
// never a failure, so a half-registered world still loads.
func (l *Level) Spawn(w *engine.World, specs map[string]*prefabs.KindSpec) []engine.Handle {
	if l == nil || w == nil {
		return nil
	}
	handles := make([]engine.Handle, 0, len(l.Entities))
	for _, seed := range l.Entities {
		spec := specs[seed.Kind]
		rect := common.NewRect(seed.X, seed.Y, seed.Width, seed.Height)
		if rect.Empty() && spec != nil {
			rect = spec.Rect(seed.X, seed.Y)
		}

		h, err := w.Spawn(seed.Kind, rect)
		if err != nil {
			w.Logger().WithFields(logrus.Fields{
				"level": l.Name,
				"kind":  seed.Kind,
			}).WithError(err).Warn("level: seed skipped")
			continue
		}
		if e, ok := w.Get(h); ok {
			spec.Apply(e)
			// A size declared on the seed wins over the kind default.
			if seed.Width > 0 && seed.Height > 0 {
				e.Size = common.Vec2{X: seed.Width, Y: seed.Height}
			}
		}
		w.Configure(h, seed.Fields)
		handles = append(handles, h)
	}
	return handles
}
