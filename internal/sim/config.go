package sim

import (
	"fmt"
	"strconv"
	"strings"

	"sandfall/internal/activity"
	"sandfall/internal/mutation"
)

// Params holds the tunables that shape material behaviour.
type Params struct {
	// FlowBudget is the number of flat lateral moves a liquid or gas makes
	// before it has to fall or rise again. Keep it even so a lone cell on a
	// flat floor settles where it started.
	FlowBudget    int
	IgnitionScale float64
	ReactionScale float64
	// Dispersion overrides the lateral spread of materials by name.
	Dispersion    map[string]int
	QueueCapacity int
}

// Config controls the world dimensions and scheduling.
type Config struct {
	Width     int
	Height    int
	ChunkSize int
	// SleepTicks is the number of quiet ticks after which a chunk sleeps.
	SleepTicks int
	// Workers > 1 enables the parallel chunk sweep.
	Workers int

	Seed  int64
	Scene string

	Params Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:      256,
		Height:     192,
		ChunkSize:  64,
		SleepTicks: activity.DefaultThreshold,
		Workers:    1,
		Seed:       1337,
		Scene:      "sandbox",
		Params: Params{
			FlowBudget:    8,
			IgnitionScale: 1,
			ReactionScale: 1,
			QueueCapacity: mutation.DefaultCapacity,
		},
	}
}

// Validate reports configuration values the world cannot run with. margin
// is the neighbourhood radius of the material set in use.
func (c Config) Validate(margin int) error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("world size %dx%d must be positive", c.Width, c.Height)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size %d must be positive", c.ChunkSize)
	}
	if c.Workers > 1 && c.ChunkSize <= 2*margin {
		return fmt.Errorf("parallel sweep needs chunk size above %d, got %d", 2*margin, c.ChunkSize)
	}
	if c.Params.FlowBudget < 0 || c.Params.FlowBudget > 255 {
		return fmt.Errorf("flow budget %d outside [0,255]", c.Params.FlowBudget)
	}
	return nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Dispersion overrides use keys of the form "dispersion.<material>".
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["chunk"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.ChunkSize = parsed
		}
	}
	if v, ok := cfg["sleep_ticks"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.SleepTicks = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["scene"]; ok && v != "" {
		c.Scene = v
	}
	if v, ok := cfg["flow_budget"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 && parsed <= 255 {
			c.Params.FlowBudget = parsed
		}
	}
	if v, ok := cfg["ignition_scale"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.IgnitionScale = parsed
		}
	}
	if v, ok := cfg["reaction_scale"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.ReactionScale = parsed
		}
	}
	if v, ok := cfg["queue_capacity"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.QueueCapacity = parsed
		}
	}
	for k, v := range cfg {
		name, ok := strings.CutPrefix(k, "dispersion.")
		if !ok || name == "" {
			continue
		}
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			if c.Params.Dispersion == nil {
				c.Params.Dispersion = map[string]int{}
			}
			c.Params.Dispersion[name] = parsed
		}
	}
	return c
}
