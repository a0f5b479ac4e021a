package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandfall/internal/sim"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sandfall.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
[world]
width = 320
workers = 4
scene = "hourglass"

[physics]
ignition_scale = 0.25

[physics.dispersion]
water = 7

[run]
ticks = 500
report_every = "2s"

[logging]
format = "json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 320, cfg.World.Width)
	assert.Equal(t, sim.DefaultConfig().Height, cfg.World.Height, "unset keys keep defaults")
	assert.Equal(t, "hourglass", cfg.World.Scene)
	assert.Equal(t, 500, cfg.Run.Ticks)
	assert.Equal(t, 2*time.Second, cfg.Run.ReportEvery)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level)

	sc := cfg.Sim()
	assert.Equal(t, 4, sc.Workers)
	assert.Equal(t, 0.25, sc.Params.IgnitionScale)
	assert.Equal(t, 7, sc.Params.Dispersion["water"])
	assert.Equal(t, sim.DefaultConfig().Params.FlowBudget, sc.Params.FlowBudget)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "[world\nwidth = 1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestDefaultMatchesSimDefaults(t *testing.T) {
	def := sim.DefaultConfig()
	got := Default().Sim()
	assert.Equal(t, def.Width, got.Width)
	assert.Equal(t, def.ChunkSize, got.ChunkSize)
	assert.Equal(t, def.SleepTicks, got.SleepTicks)
	assert.Equal(t, def.Params.QueueCapacity, got.Params.QueueCapacity)
	assert.Equal(t, def.Scene, got.Scene)
}

func TestRegistryWithMaterials(t *testing.T) {
	dir := t.TempDir()
	table := filepath.Join(dir, "extra.yaml")
	require.NoError(t, os.WriteFile(table, []byte(`
materials:
  - name: oil
    state: liquid
    density: 80000
    dispersion: 2
    color: "#303018"
`), 0o644))

	cfg := Default()
	reg, err := cfg.Registry()
	require.NoError(t, err)
	_, err = reg.ByName("oil")
	assert.Error(t, err)

	cfg.World.Materials = table
	reg, err = cfg.Registry()
	require.NoError(t, err)
	_, err = reg.ByName("oil")
	assert.NoError(t, err)

	cfg.World.Materials = filepath.Join(dir, "missing.yaml")
	_, err = cfg.Registry()
	assert.Error(t, err)
}
