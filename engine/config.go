package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultCellSize = 64.0

// Config tunes a world. The zero value is usable: no gravity, default
// broad-phase cell size, unbounded entity count.
type Config struct {
	// Gravity is the downward acceleration applied each step, scaled by
	// each entity's GravityScale.
	Gravity float64 `yaml:"gravity"`
	// CellSize is the broad-phase grid cell size. Too small duplicates
	// multi-cell work, too large degrades toward all-pairs.
	CellSize float64 `yaml:"cell_size"`
	// MaxEntities bounds the arena. Zero means the arena grows freely.
	MaxEntities int `yaml:"max_entities"`
}

// LoadConfig reads a world config from a yaml file.
func LoadConfig(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("engine: load %s: %w", filename, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: unmarshal %s: %w", filename, err)
	}
	return cfg, nil
}
