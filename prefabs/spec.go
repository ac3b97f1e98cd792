package prefabs

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/grit/common"
	"github.com/milk9111/grit/engine"
)

// KindSpec carries the default physics tuning for one entity kind,
// loaded from a yaml file. Fields left out of the file keep the zero
// value except Mass and GravityScale, which default to 1.
type KindSpec struct {
	Name         string   `yaml:"name"`
	Width        float64  `yaml:"width"`
	Height       float64  `yaml:"height"`
	Solid        bool     `yaml:"solid"`
	Static       bool     `yaml:"static"`
	Collidable   *bool    `yaml:"collidable"`
	Mass         *float64 `yaml:"mass"`
	GravityScale *float64 `yaml:"gravity_scale"`
	Restitution  float64  `yaml:"restitution"`
	FrictionX    float64  `yaml:"friction_x"`
	FrictionY    float64  `yaml:"friction_y"`
	Group        string   `yaml:"group"`
	CheckAgainst string   `yaml:"check_against"`
	// Script names a tengo file implementing this kind's behavior.
	Script string `yaml:"script"`
	// Fields are free-form settings routed to the behavior's Settings hook.
	Fields map[string]any `yaml:"fields"`
}

var groupNames = map[string]engine.Group{
	"":           engine.GroupNone,
	"none":       engine.GroupNone,
	"player":     engine.GroupPlayer,
	"npc":        engine.GroupNPC,
	"enemy":      engine.GroupEnemy,
	"item":       engine.GroupItem,
	"projectile": engine.GroupProjectile,
	"pickup":     engine.GroupPickup,
}

// LoadSpec reads a single kind spec from a yaml file.
func LoadSpec(filename string) (*KindSpec, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	var spec KindSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	if spec.Name == "" {
		spec.Name = kindFromFilename(filename)
	}
	return &spec, nil
}

// LoadDir reads every yaml spec in a directory into a registry keyed by
// kind name.
func LoadDir(dir string) (map[string]*KindSpec, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("prefabs: read dir %s: %w", dir, err)
	}
	specs := make(map[string]*KindSpec)
	for _, entry := range entries {
		if entry.IsDir() || !isSpecFile(entry.Name()) {
			continue
		}
		spec, err := LoadSpec(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		specs[spec.Name] = spec
	}
	return specs, nil
}

// Apply copies the spec's defaults onto a freshly spawned entity. The
// entity's position is left alone; size is only overridden when the spec
// declares one.
func (spec *KindSpec) Apply(e *engine.Entity) {
	if spec == nil || e == nil {
		return
	}
	if spec.Width > 0 && spec.Height > 0 {
		e.Size = common.Vec2{X: spec.Width, Y: spec.Height}
	}
	e.Solid = spec.Solid
	e.Static = spec.Static
	if spec.Collidable != nil {
		e.Collidable = *spec.Collidable
	}
	if spec.Mass != nil {
		e.Mass = *spec.Mass
	}
	if spec.GravityScale != nil {
		e.GravityScale = *spec.GravityScale
	}
	e.Restitution = spec.Restitution
	e.Friction = common.Vec2{X: spec.FrictionX, Y: spec.FrictionY}
	e.Group = groupNames[spec.Group]
	e.CheckAgainst = groupNames[spec.CheckAgainst]
}

// Rect builds a spawn rect for the spec at a position.
func (spec *KindSpec) Rect(x, y float64) common.Rect {
	return common.NewRect(x, y, spec.Width, spec.Height)
}

func kindFromFilename(filename string) string {
	base := filepath.Base(filename)
	return base[:len(base)-len(filepath.Ext(base))]
}
