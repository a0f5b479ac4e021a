// Package config loads runner settings from TOML files.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"sandfall/internal/material"
	"sandfall/internal/sim"
)

type Config struct {
	World   WorldConfig   `toml:"world"`
	Physics PhysicsConfig `toml:"physics"`
	Run     RunConfig     `toml:"run"`
	Logging LoggingConfig `toml:"logging"`
	Metrics MetricsConfig `toml:"metrics"`
}

type WorldConfig struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	ChunkSize  int    `toml:"chunk_size"`
	SleepTicks int    `toml:"sleep_ticks"`
	Workers    int    `toml:"workers"`
	Seed       int64  `toml:"seed"`
	Scene      string `toml:"scene"`
	Materials  string `toml:"materials"` // optional YAML table with extra materials
}

type PhysicsConfig struct {
	FlowBudget    int            `toml:"flow_budget"`
	IgnitionScale float64        `toml:"ignition_scale"`
	ReactionScale float64        `toml:"reaction_scale"`
	QueueCapacity int            `toml:"queue_capacity"`
	Dispersion    map[string]int `toml:"dispersion"` // material name -> cells
}

type RunConfig struct {
	Ticks       int           `toml:"ticks"` // 0 runs until interrupted
	TPS         int           `toml:"tps"`   // 0 runs flat out
	ReportEvery time.Duration `toml:"report_every"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	BindAddress string `toml:"bind_address"`
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the settings used when no file is given.
func Default() *Config {
	def := sim.DefaultConfig()
	return &Config{
		World: WorldConfig{
			Width:      def.Width,
			Height:     def.Height,
			ChunkSize:  def.ChunkSize,
			SleepTicks: def.SleepTicks,
			Workers:    def.Workers,
			Seed:       def.Seed,
			Scene:      def.Scene,
		},
		Physics: PhysicsConfig{
			FlowBudget:    def.Params.FlowBudget,
			IgnitionScale: def.Params.IgnitionScale,
			ReactionScale: def.Params.ReactionScale,
			QueueCapacity: def.Params.QueueCapacity,
		},
		Run: RunConfig{
			TPS:         60,
			ReportEvery: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			BindAddress: "127.0.0.1:9464",
		},
	}
}

// Sim converts the file settings into a world configuration.
func (c *Config) Sim() sim.Config {
	return sim.Config{
		Width:      c.World.Width,
		Height:     c.World.Height,
		ChunkSize:  c.World.ChunkSize,
		SleepTicks: c.World.SleepTicks,
		Workers:    c.World.Workers,
		Seed:       c.World.Seed,
		Scene:      c.World.Scene,
		Params: sim.Params{
			FlowBudget:    c.Physics.FlowBudget,
			IgnitionScale: c.Physics.IgnitionScale,
			ReactionScale: c.Physics.ReactionScale,
			QueueCapacity: c.Physics.QueueCapacity,
			Dispersion:    c.Physics.Dispersion,
		},
	}
}

// Registry builds the default material set extended by the YAML table named
// in World.Materials.
func (c *Config) Registry() (*material.Registry, error) {
	reg := material.Default()
	if c.World.Materials == "" {
		return reg, nil
	}
	if err := material.LoadYAMLFile(c.World.Materials, reg); err != nil {
		return nil, err
	}
	return reg, nil
}
