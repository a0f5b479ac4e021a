package app

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestBindAndSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.toml")
	if err := os.WriteFile(path, []byte("[world]\nwidth = 100\nheight = 50\nscene = \"dunes\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewConfig()
	fs := flag.NewFlagSet("sand", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-config", path, "-h", "80", "-seed", "5", "-scale", "2"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Scale != 2 || cfg.TPS != 60 {
		t.Fatalf("unexpected viewer settings %+v", cfg)
	}

	settings, err := cfg.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if settings.World.Width != 100 || settings.World.Height != 80 {
		t.Fatalf("flags should override the file: %dx%d", settings.World.Width, settings.World.Height)
	}
	if settings.World.Scene != "dunes" || settings.World.Seed != 5 {
		t.Fatalf("unexpected scene/seed %q %d", settings.World.Scene, settings.World.Seed)
	}
}

func TestSettingsMissingFile(t *testing.T) {
	cfg := NewConfig()
	cfg.ConfigPath = filepath.Join(t.TempDir(), "nope.toml")
	if _, err := cfg.Settings(); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
