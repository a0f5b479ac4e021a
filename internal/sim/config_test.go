package sim

import (
	"errors"
	"slices"
	"testing"

	"sandfall/internal/core"
	"sandfall/internal/material"
)

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{
		"w":                "80",
		"h":                "40",
		"chunk":            "20",
		"workers":          "4",
		"seed":             "-9",
		"scene":            "dunes",
		"flow_budget":      "300",
		"ignition_scale":   "0.5",
		"dispersion.water": "7",
		"dispersion.":      "3",
		"sleep_ticks":      "abc",
		"reaction_scale":   "-1",
		"queue_capacity":   "16",
	})
	if cfg.Width != 80 || cfg.Height != 40 || cfg.ChunkSize != 20 || cfg.Workers != 4 {
		t.Fatalf("unexpected dimensions %+v", cfg)
	}
	if cfg.Seed != -9 || cfg.Scene != "dunes" {
		t.Fatalf("unexpected seed/scene %d %q", cfg.Seed, cfg.Scene)
	}
	def := DefaultConfig()
	if cfg.Params.FlowBudget != def.Params.FlowBudget {
		t.Fatalf("out of range flow budget should be ignored, got %d", cfg.Params.FlowBudget)
	}
	if cfg.SleepTicks != def.SleepTicks || cfg.Params.ReactionScale != def.Params.ReactionScale {
		t.Fatal("invalid values should keep defaults")
	}
	if cfg.Params.IgnitionScale != 0.5 || cfg.Params.QueueCapacity != 16 {
		t.Fatalf("unexpected params %+v", cfg.Params)
	}
	if len(cfg.Params.Dispersion) != 1 || cfg.Params.Dispersion["water"] != 7 {
		t.Fatalf("unexpected dispersion overrides %v", cfg.Params.Dispersion)
	}
	if got := FromMap(nil); got.Width != def.Width || got.Scene != def.Scene {
		t.Fatal("nil map should produce defaults")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(5); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	cfg.Workers = 2
	cfg.ChunkSize = 10
	if err := cfg.Validate(5); err == nil {
		t.Fatal("parallel sweep with chunk size 10 and margin 5 must be rejected")
	}
	cfg = DefaultConfig()
	cfg.Width = 0
	if err := cfg.Validate(1); err == nil {
		t.Fatal("zero width must be rejected")
	}
}

func TestDispersionOverrideWidensMargin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 64, 64
	cfg.Params.Dispersion = map[string]int{material.NameWater: 9, "unobtainium": 40}
	w := NewWithConfig(cfg)
	if w.Grid().Margin() != 9 {
		t.Fatalf("expected margin 9, got %d", w.Grid().Margin())
	}
	p, ok := w.Parameters().Lookup("dispersion." + material.NameWater)
	if !ok || p.Value != "9" {
		t.Fatalf("dispersion not reported: %+v", p)
	}
}

func TestFactoryRegistered(t *testing.T) {
	if !slices.Contains(core.Names(), "sand") {
		t.Fatalf("sand missing from %v", core.Names())
	}
	s, err := core.Build("sand", map[string]string{"w": "32", "h": "24", "scene": "empty"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if s.Size() != (core.Size{W: 32, H: 24}) {
		t.Fatalf("unexpected size %+v", s.Size())
	}
	s.Reset(1)
	s.Step()
	if len(s.Cells()) != 32*24 {
		t.Fatalf("display buffer has %d cells", len(s.Cells()))
	}
	if _, err := core.Build("life", nil); !errors.Is(err, core.ErrUnknownSim) {
		t.Fatalf("expected ErrUnknownSim, got %v", err)
	}
}

func TestParameterSetters(t *testing.T) {
	w := New(16, 16)
	if !w.SetIntParameter("flow_budget", 4) || w.Parameters().Groups[1].Params[0].Value != "4" {
		t.Fatal("flow budget not applied")
	}
	if w.SetIntParameter("flow_budget", 256) || w.SetIntParameter("unknown", 1) {
		t.Fatal("invalid int updates must be refused")
	}
	if !w.SetFloatParameter("ignition_scale", 2.5) {
		t.Fatal("ignition scale not applied")
	}
	if p, _ := w.Parameters().Lookup("ignition_scale"); p.Value != "2.5" {
		t.Fatalf("snapshot shows %q", p.Value)
	}
	if w.SetFloatParameter("reaction_scale", -1) {
		t.Fatal("negative scale must be refused")
	}
	for _, c := range w.ParameterControls() {
		if _, ok := w.Parameters().Lookup(c.Key); !ok {
			t.Fatalf("control %s has no parameter", c.Key)
		}
	}
}
