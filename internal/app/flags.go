// Package app wires a world, its renderer and the input handling into the
// GUI viewer.
package app

import (
	"flag"

	"sandfall/internal/config"
)

// Config represents the command-line parameters for the viewer. Zero values
// leave the settings of the config file untouched.
type Config struct {
	ConfigPath string
	Scale      int
	TPS        int
	Seed       int64
	Scene      string
	Width      int
	Height     int
	Workers    int
	Materials  string
	HUDWidth   int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Scale: 3, TPS: 60, HUDWidth: 240}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "TOML settings file")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset (0 keeps the configured seed)")
	fs.StringVar(&c.Scene, "scene", c.Scene, "initial scene")
	fs.IntVar(&c.Width, "w", c.Width, "world width in cells")
	fs.IntVar(&c.Height, "h", c.Height, "world height in cells")
	fs.IntVar(&c.Workers, "workers", c.Workers, "parallel sweep workers")
	fs.StringVar(&c.Materials, "materials", c.Materials, "YAML table of extra materials")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "side panel width in pixels, 0 hides it")
}

// Settings loads the config file, if any, and applies the flag overrides.
func (c *Config) Settings() (*config.Config, error) {
	cfg := config.Default()
	if c.ConfigPath != "" {
		loaded, err := config.Load(c.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if c.Seed != 0 {
		cfg.World.Seed = c.Seed
	}
	if c.Scene != "" {
		cfg.World.Scene = c.Scene
	}
	if c.Width > 0 {
		cfg.World.Width = c.Width
	}
	if c.Height > 0 {
		cfg.World.Height = c.Height
	}
	if c.Workers > 0 {
		cfg.World.Workers = c.Workers
	}
	if c.Materials != "" {
		cfg.World.Materials = c.Materials
	}
	if c.TPS > 0 {
		cfg.Run.TPS = c.TPS
	}
	return cfg, nil
}
