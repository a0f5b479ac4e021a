// Command sandsim runs a world headless, logging progress and optionally
// serving Prometheus metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sandfall/internal/config"
	"sandfall/internal/core"
	"sandfall/internal/logging"
	"sandfall/internal/metrics"
	"sandfall/internal/sim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "TOML settings file")
	ticks := flag.Int("ticks", -1, "ticks to run, 0 runs until interrupted (default from config)")
	tps := flag.Int("tps", -1, "ticks per second, 0 runs flat out (default from config)")
	seed := flag.Int64("seed", 0, "world seed (0 keeps the configured seed)")
	scene := flag.String("scene", "", "initial scene")
	workers := flag.Int("workers", 0, "parallel sweep workers")
	metricsAddr := flag.String("metrics", "", "serve Prometheus metrics on this address")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *ticks >= 0 {
		cfg.Run.Ticks = *ticks
	}
	if *tps >= 0 {
		cfg.Run.TPS = *tps
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}
	if *scene != "" {
		cfg.World.Scene = *scene
	}
	if *workers > 0 {
		cfg.World.Workers = *workers
	}
	if *metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.BindAddress = *metricsAddr
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	world := sim.NewWithConfig(cfg.Sim(), sim.WithRegistry(reg), sim.WithLogger(log))
	if err := cfg.Sim().Validate(world.Grid().Margin()); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	world.Reset(cfg.World.Seed)
	log.Info("world ready",
		zap.Int("width", cfg.World.Width),
		zap.Int("height", cfg.World.Height),
		zap.Int("chunk", cfg.World.ChunkSize),
		zap.String("scene", cfg.World.Scene),
		zap.Int64("seed", world.Seed()),
		zap.Int("workers", world.Workers()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	var exporter *metrics.Exporter
	if cfg.Metrics.Enabled {
		promReg := prometheus.NewRegistry()
		promReg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		exporter, err = metrics.New(promReg)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		g.Go(func() error {
			return metrics.Serve(ctx, cfg.Metrics.BindAddress, promReg, log)
		})
	}
	g.Go(func() error {
		defer cancel()
		return loop(ctx, world, cfg.Run, exporter, log)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	summarize(world, log)
	return nil
}

// loop steps the world until the tick budget is spent or ctx is cancelled.
// Cancellation is only observed between ticks.
func loop(ctx context.Context, world *sim.World, rc config.RunConfig, exporter *metrics.Exporter, log *zap.Logger) error {
	var pace <-chan time.Time
	var clock *core.FixedStep
	if rc.TPS > 0 {
		clock = core.NewFixedStep(rc.TPS)
		t := time.NewTicker(clock.Interval())
		defer t.Stop()
		pace = t.C
	}
	var report <-chan time.Time
	if rc.ReportEvery > 0 {
		t := time.NewTicker(rc.ReportEvery)
		defer t.Stop()
		report = t.C
	}

	done := 0
	for rc.Ticks == 0 || done < rc.Ticks {
		n := 1
		if clock != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-pace:
			}
			n = clock.Due()
		} else if ctx.Err() != nil {
			return nil
		}
		for ; n > 0 && (rc.Ticks == 0 || done < rc.Ticks); n-- {
			world.Step()
			if exporter != nil {
				exporter.Observe(world.Stats(), world.Totals())
			}
			done++
		}

		select {
		case <-report:
			st := world.Stats()
			log.Info("progress",
				zap.Uint64("tick", world.Tick()),
				zap.Int("active_chunks", st.ActiveChunks),
				zap.Int("visited", st.Visited),
				zap.Int("moves", st.Moves),
				zap.Duration("step", st.Duration))
		default:
		}
	}
	return nil
}

func summarize(world *sim.World, log *zap.Logger) {
	t := world.Totals()
	log.Info("run finished",
		zap.Uint64("ticks", t.Ticks),
		zap.Uint64("rule_calls", t.RuleCalls),
		zap.Uint64("moves", t.Moves),
		zap.Uint64("transforms", t.Transforms),
		zap.Uint64("slept", t.Slept),
		zap.Int("sleeping_chunks", world.SleepingChunks()))

	census := world.Grid().Census()
	names := make([]string, 0, len(census))
	counts := make(map[string]int, len(census))
	for id, n := range census {
		name := world.Registry().MustLookup(id).Name
		names = append(names, name)
		counts[name] = n
	}
	sort.Strings(names)
	for _, name := range names {
		log.Info("census", zap.String("material", name), zap.Int("cells", counts[name]))
	}
}
