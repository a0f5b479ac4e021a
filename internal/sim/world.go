// Package sim runs the falling-sand world: it owns the grid, drains edit
// requests at tick boundaries and sweeps the active chunks once per tick.
package sim

import (
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"sandfall/internal/activity"
	"sandfall/internal/core"
	"sandfall/internal/grid"
	"sandfall/internal/material"
	"sandfall/internal/mutation"
	"sandfall/internal/rules"
	"sandfall/internal/scene"
)

// World is the falling-sand simulation.
type World struct {
	cfg Config

	reg     *material.Registry
	grid    *grid.Grid
	tracker *activity.Tracker
	queue   *mutation.Queue
	params  rules.Params
	ctx     *rules.Context
	rng     *core.RNG
	display *core.ByteGrid
	log     *zap.Logger

	tick     uint64
	gen      uint32
	seed     int64
	workers  int
	stats    Stats
	totals   Totals
	rejected atomic.Uint64
}

// Option customises a World at construction.
type Option func(*World)

// WithLogger routes the world's diagnostics to l.
func WithLogger(l *zap.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithRegistry replaces the default material set. The registry is frozen by
// the world.
func WithRegistry(reg *material.Registry) Option {
	return func(w *World) {
		if reg != nil {
			w.reg = reg
		}
	}
}

// New returns a world with the provided dimensions using defaults.
func New(w, h int) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns a world configured from cfg. The world starts empty;
// call Reset to paint the configured scene.
func NewWithConfig(cfg Config, opts ...Option) *World {
	if cfg.Width <= 0 {
		cfg.Width = 1
	}
	if cfg.Height <= 0 {
		cfg.Height = 1
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultConfig().ChunkSize
	}
	w := &World{
		cfg:  cfg,
		log:  zap.NewNop(),
		seed: cfg.Seed,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.reg == nil {
		w.reg = material.Default()
	}
	w.reg.Freeze()

	w.params = buildParams(cfg.Params, w.reg)
	margin := max(1, maxDispersion(w.reg, &w.params))

	w.workers = max(cfg.Workers, 1)
	if w.workers > 1 && cfg.ChunkSize <= 2*margin {
		w.log.Warn("chunk size too small for the parallel sweep, running serially",
			zap.Int("chunk", cfg.ChunkSize), zap.Int("margin", margin))
		w.workers = 1
	}

	w.grid = grid.New(cfg.Width, cfg.Height, cfg.ChunkSize, margin)
	w.tracker = activity.New(w.grid, cfg.SleepTicks)
	w.queue = mutation.NewQueue(cfg.Params.QueueCapacity)
	w.rng = core.NewRNG(cfg.Seed)
	w.ctx = rules.NewContext(w.reg, w.rng, &w.params)
	w.display = core.NewByteGrid(cfg.Width, cfg.Height)
	return w
}

func buildParams(p Params, reg *material.Registry) rules.Params {
	out := rules.DefaultParams()
	out.FlowBudget = uint8(min(max(p.FlowBudget, 0), 255))
	out.IgnitionScale = p.IgnitionScale
	out.ReactionScale = p.ReactionScale
	out.Dispersion = make([]int, reg.Len())
	for name, d := range p.Dispersion {
		if id, err := reg.ByName(name); err == nil {
			out.Dispersion[id] = d
		}
	}
	return out
}

func maxDispersion(reg *material.Registry, p *rules.Params) int {
	out := 0
	all := reg.All()
	for i := range all {
		out = max(out, p.DispersionOf(&all[i]))
	}
	return out
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "sand" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.cfg.Width, H: w.cfg.Height} }

// Config returns the configuration the world was built with.
func (w *World) Config() Config { return w.cfg }

// Registry exposes the frozen material table.
func (w *World) Registry() *material.Registry { return w.reg }

// Grid exposes the cell store. Callers must not write to it while a tick runs.
func (w *World) Grid() *grid.Grid { return w.grid }

// Tick returns the number of completed ticks since the last reset.
func (w *World) Tick() uint64 { return w.tick }

// Seed returns the seed of the last reset.
func (w *World) Seed() int64 { return w.seed }

// Workers returns the effective number of sweep workers.
func (w *World) Workers() int { return w.workers }

// Reset clears the world and paints the configured scene using the provided
// seed, or the configured seed when seed is 0.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.seed = effective
	w.rng.Reseed(effective)
	w.grid.Clear()
	w.queue.Drain()
	w.display.Clear()
	w.tick = 0
	w.gen = 0
	w.stats = Stats{}
	w.totals = Totals{}
	w.rejected.Store(0)

	name := w.cfg.Scene
	if name == "" {
		name = "empty"
	}
	if err := scene.Build(name, canvas{w}, w.reg, effective); err != nil {
		w.log.Error("scene build failed", zap.String("scene", name), zap.Error(err))
	}
	w.log.Debug("world reset",
		zap.Int64("seed", effective),
		zap.String("scene", name),
		zap.Int("active_chunks", w.tracker.ActiveCount()))
}

// Place writes a fresh cell of material id at (x, y) immediately and wakes
// its neighbourhood. It is meant for setup code running between ticks;
// interactive edits go through Paint.
func (w *World) Place(x, y int, id material.ID) error {
	if !w.reg.Valid(id) {
		return fmt.Errorf("place material %d: %w", id, material.ErrUnknownMaterial)
	}
	if err := w.grid.Set(x, y, w.fresh(id, w.rng)); err != nil {
		return err
	}
	w.grid.MarkDirty(x, y)
	return nil
}

// CellAt returns the cell at (x, y).
func (w *World) CellAt(x, y int) (grid.Cell, error) { return w.grid.Get(x, y) }

// View calls fn for every cell of r, clipped to the world.
func (w *World) View(r grid.Rect, fn func(x, y int, c grid.Cell)) { w.grid.View(r, fn) }

// fresh builds a newly created cell of id with its lifetime, flow budget and
// shade drawn from rng.
func (w *World) fresh(id material.ID, rng *core.RNG) grid.Cell {
	if id == material.Empty {
		return grid.Vacancy
	}
	m := w.reg.MustLookup(id)
	c := grid.Cell{Material: id, Flow: w.params.FlowBudget}
	if m.Variants > 1 {
		c.Shade = rng.Uint8n(m.Variants)
	}
	if m.Lifetime.Decays() {
		c.Life = uint16(min(rng.Between(max(m.Lifetime.Min, 1), m.Lifetime.Max), 0xffff))
	}
	return c
}

// canvas adapts the world for scene builders.
type canvas struct{ w *World }

func (c canvas) Size() core.Size { return c.w.Size() }

func (c canvas) Fill(x, y int, id material.ID) {
	if err := c.w.Place(x, y, id); err != nil {
		c.w.log.Debug("scene fill rejected", zap.Int("x", x), zap.Int("y", y), zap.Error(err))
	}
}

func init() {
	core.Register("sand", func(cfg map[string]string) core.Sim {
		c := FromMap(cfg)
		return NewWithConfig(c)
	})
}

// Stats describes one tick.
type Stats struct {
	Tick         uint64
	ActiveChunks int
	Visited      int
	RuleCalls    int
	Moves        int
	Transforms   int
	Decays       int
	Waits        int
	Slept        int
	Mutations    int
	Duration     time.Duration
}

// Totals accumulates Stats since the last reset.
type Totals struct {
	Ticks      uint64
	RuleCalls  uint64
	Moves      uint64
	Transforms uint64
	Decays     uint64
	Waits      uint64
	Slept      uint64
	Mutations  uint64
	Rejected   uint64
}

func (t *Totals) add(s Stats) {
	t.Ticks++
	t.RuleCalls += uint64(s.RuleCalls)
	t.Moves += uint64(s.Moves)
	t.Transforms += uint64(s.Transforms)
	t.Decays += uint64(s.Decays)
	t.Waits += uint64(s.Waits)
	t.Slept += uint64(s.Slept)
	t.Mutations += uint64(s.Mutations)
}

// Stats returns the counters of the last completed tick.
func (w *World) Stats() Stats { return w.stats }

// Totals returns counters accumulated since the last reset.
func (w *World) Totals() Totals {
	t := w.totals
	t.Rejected = w.rejected.Load()
	return t
}

// ActiveChunks returns the number of chunks scheduled for the next tick.
func (w *World) ActiveChunks() int { return w.tracker.ActiveCount() }

// SleepingChunks returns the number of chunks currently asleep.
func (w *World) SleepingChunks() int { return w.tracker.Sleeping() }
