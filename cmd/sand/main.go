//go:build ebiten

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"sandfall/internal/app"
	"sandfall/internal/logging"
	"sandfall/internal/sim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	log, err := logging.New(settings.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	reg, err := settings.Registry()
	if err != nil {
		return err
	}
	world := sim.NewWithConfig(settings.Sim(), sim.WithRegistry(reg), sim.WithLogger(log))
	world.Reset(settings.World.Seed)
	log.Info("world ready",
		zap.Int("width", settings.World.Width),
		zap.Int("height", settings.World.Height),
		zap.String("scene", settings.World.Scene),
		zap.Int("workers", world.Workers()))

	cfg.TPS = settings.Run.TPS
	game := app.New(world, cfg, world.Seed())
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("sandfall — " + settings.World.Scene)
	ebiten.SetTPS(60)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
