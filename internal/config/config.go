package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config holds all configurable render settings.
type Config struct {
	// Render settings
	Width       int `toml:"width"`
	Height      int `toml:"height"`
	Supersample int `toml:"supersample"`

	// Camera settings
	Projection string  `toml:"projection"` // "ORTHO" or "PERSP"
	ClipMargin float64 `toml:"clip_margin"`
	FillRatio  float64 `toml:"fill_ratio"`
	FOV        float64 `toml:"fov"` // degrees, perspective only

	// Heightmap settings
	CellSize      float64 `toml:"cell_size"`
	VerticalScale float64 `toml:"vertical_scale"`
}

// Load reads a TOML config file. Fields not set in the file keep their
// zero values; Resolve fills those with defaults.
func Load(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Width       int
	Height      int
	Supersample int
	Projection  string
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Projection != "" {
		c.Projection = flags.Projection
	}

	// Defaults
	if c.Width <= 0 {
		c.Width = 512
	}
	if c.Height <= 0 {
		c.Height = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Projection == "" {
		c.Projection = "ORTHO"
	}
	if c.ClipMargin <= 0 {
		c.ClipMargin = 0.1
	}
	if c.FillRatio <= 0 || c.FillRatio > 1 {
		c.FillRatio = 0.9
	}
	if c.FOV <= 0 {
		c.FOV = 39.6
	}
	if c.CellSize <= 0 {
		c.CellSize = 1
	}
	if c.VerticalScale <= 0 {
		c.VerticalScale = 10
	}
}
