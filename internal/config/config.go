// Package config handles pathtool configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/midgard-path/internal/engine/path"
	"github.com/Faultbox/midgard-path/internal/engine/query"
	"github.com/Faultbox/midgard-path/internal/engine/terrain"
	"github.com/Faultbox/midgard-path/internal/logger"
	"github.com/Faultbox/midgard-path/pkg/math"
)

// Config holds all tool settings.
type Config struct {
	Path    path.Config   `yaml:"path"`
	Terrain TerrainConfig `yaml:"terrain"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// TerrainConfig places an optional heightmap in world space.
type TerrainConfig struct {
	Heightmap string     `yaml:"heightmap"` // Grayscale image; empty disables terrain
	Origin    [3]float32 `yaml:"origin"`    // Minimum corner
	Size      [3]float32 `yaml:"size"`      // Extent; Y scales heights
}

// OutputConfig holds export settings.
type OutputConfig struct {
	Dir         string  `yaml:"dir"`          // Directory for generated previews
	PreviewSize int     `yaml:"preview_size"` // Longest preview side in pixels
	QueryMode   string  `yaml:"query_mode"`   // catmull-rom, linear or nearest
	GridSpacing float32 `yaml:"grid_spacing"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Path: path.DefaultConfig(),
		Terrain: TerrainConfig{
			Size: [3]float32{100, 10, 100},
		},
		Output: OutputConfig{
			Dir:         "previews",
			PreviewSize: 512,
			QueryMode:   query.CatmullRom.String(),
			GridSpacing: 10,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Path.Validate(); err != nil {
		return fmt.Errorf("path: %w", err)
	}
	if _, err := query.ParseMode(c.Output.QueryMode); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if c.Output.PreviewSize <= 0 {
		return fmt.Errorf("output: preview size must be > 0, got %d", c.Output.PreviewSize)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Mode returns the configured query mode, CatmullRom when unset or invalid.
func (o OutputConfig) Mode() query.Mode {
	m, err := query.ParseMode(o.QueryMode)
	if err != nil {
		return query.CatmullRom
	}
	return m
}

// Surface loads the heightmap and places it in world space.
// It returns nil when no heightmap is configured.
func (t TerrainConfig) Surface() (*terrain.Surface, error) {
	if t.Heightmap == "" {
		return nil, nil
	}
	h, err := terrain.LoadHeightmap(t.Heightmap)
	if err != nil {
		return nil, err
	}
	return terrain.NewSurface(h, vec(t.Origin), vec(t.Size)), nil
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
