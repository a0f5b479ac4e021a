package sim

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sandfall/internal/core"
	"sandfall/internal/grid"
	"sandfall/internal/material"
	"sandfall/internal/rules"
)

// neighborhood reads cells relative to the one being decided.
type neighborhood struct {
	g    *grid.Grid
	x, y int
	gen  uint32
}

func (n *neighborhood) At(dx, dy int) grid.Cell { return n.g.At(n.x+dx, n.y+dy) }

func (n *neighborhood) Processed(dx, dy int) bool {
	return n.g.At(n.x+dx, n.y+dy).Processed(n.gen)
}

type counts struct {
	visited    int
	calls      int
	moves      int
	transforms int
	decays     int
	waits      int
}

func (c *counts) busy() bool {
	return c.moves+c.transforms+c.decays+c.waits > 0
}

// job is one chunk's share of a tick.
type job struct {
	chunk *grid.Chunk
	rect  grid.Rect
	ctx   *rules.Context
	hood  neighborhood
	counts
}

// Step advances the world by one tick.
func (w *World) Step() {
	start := time.Now()
	st := Stats{Tick: w.tick}
	st.Mutations = w.applyMutations()

	w.gen++
	if w.gen == 0 {
		w.gen = 1
	}
	dir := 1
	if w.tick%2 == 1 {
		dir = -1
	}

	active := w.tracker.Active()
	jobs := make([]*job, len(active))
	for i, c := range active {
		jobs[i] = &job{
			chunk: c,
			rect:  c.TakeDirty(),
			hood:  neighborhood{g: w.grid, gen: w.gen},
		}
	}
	st.ActiveChunks = len(jobs)

	if w.workers > 1 {
		w.sweepParallel(jobs, dir)
	} else {
		w.sweepSerial(jobs, dir)
	}

	for _, j := range jobs {
		st.Visited += j.visited
		st.RuleCalls += j.calls
		st.Moves += j.moves
		st.Transforms += j.transforms
		st.Decays += j.decays
		st.Waits += j.waits
		if w.tracker.Settle(j.chunk, j.busy()) {
			st.Slept++
		}
	}

	w.tick++
	st.Duration = time.Since(start)
	w.stats = st
	w.totals.add(st)
	if st.Slept > 0 {
		w.log.Debug("chunks asleep",
			zap.Uint64("tick", st.Tick),
			zap.Int("slept", st.Slept),
			zap.Int("active", w.tracker.ActiveCount()))
	}
}

// sweepSerial visits rows bottom to top across all scheduled chunks. Jobs
// arrive bottom chunk row first and left to right within a row.
func (w *World) sweepSerial(jobs []*job, dir int) {
	w.ctx.Dir = dir
	for _, j := range jobs {
		j.ctx = w.ctx
	}
	for start := 0; start < len(jobs); {
		cy := jobs[start].chunk.Coord().Y
		end := start
		for end < len(jobs) && jobs[end].chunk.Coord().Y == cy {
			end++
		}
		w.sweepChunkRow(jobs[start:end], dir)
		start = end
	}
}

func (w *World) sweepChunkRow(row []*job, dir int) {
	var span grid.Rect
	for _, j := range row {
		span = span.Union(j.rect)
	}
	for y := span.Y1 - 1; y >= span.Y0; y-- {
		for i := range row {
			j := row[i]
			if dir < 0 {
				j = row[len(row)-1-i]
			}
			if y >= j.rect.Y0 && y < j.rect.Y1 {
				w.sweepLine(j, y, dir)
			}
		}
	}
}

// sweepParallel keeps the serial order between chunk rows, bottom row first,
// and splits each row into its even and odd columns. Chunks of one class are
// at least one chunk apart, so with a chunk size above twice the margin their
// neighbourhoods never overlap and they can run concurrently. Every chunk
// draws from its own generator so the outcome does not depend on the number
// of workers.
func (w *World) sweepParallel(jobs []*job, dir int) {
	margin := w.grid.Margin()
	for _, j := range jobs {
		w.grid.Allocate(j.rect.Inflate(margin))
		cc := j.chunk.Coord()
		seed := core.DeriveSeed(w.seed, int64(w.tick), int64(cc.X), int64(cc.Y))
		j.ctx = &rules.Context{
			Reg:    w.reg,
			RNG:    core.NewRNG(seed),
			Dir:    dir,
			Params: &w.params,
			Fire:   w.ctx.Fire,
		}
	}
	first := 0
	if dir < 0 {
		first = 1
	}
	for start := 0; start < len(jobs); {
		cy := jobs[start].chunk.Coord().Y
		end := start
		for end < len(jobs) && jobs[end].chunk.Coord().Y == cy {
			end++
		}
		for _, parity := range [2]int{first, 1 - first} {
			var g errgroup.Group
			g.SetLimit(w.workers)
			for _, j := range jobs[start:end] {
				if j.chunk.Coord().X&1 != parity {
					continue
				}
				g.Go(func() error {
					for y := j.rect.Y1 - 1; y >= j.rect.Y0; y-- {
						w.sweepLine(j, y, dir)
					}
					return nil
				})
			}
			_ = g.Wait()
		}
		start = end
	}
}

func (w *World) sweepLine(j *job, y, dir int) {
	x, end := j.rect.X0, j.rect.X1
	if dir < 0 {
		x, end = j.rect.X1-1, j.rect.X0-1
	}
	for ; x != end; x += dir {
		cell := w.grid.At(x, y)
		if cell.Empty() || cell.Stamp == w.gen {
			continue
		}
		j.visited++
		j.calls++
		j.hood.x, j.hood.y = x, y
		a := rules.Decide(j.ctx, cell, &j.hood)
		w.apply(j, x, y, cell, a)
	}
}

// apply carries out a rule's action. Every written cell is stamped with the
// current generation and every touched position is marked dirty.
func (w *World) apply(j *job, x, y int, self grid.Cell, a rules.Action) {
	g := w.grid
	switch a.Kind {
	case rules.Move:
		tx, ty := x+a.DX, y+a.DY
		if err := g.Swap(x, y, tx, ty); err != nil {
			return
		}
		self.Stamp = w.gen
		switch {
		case a.DY != 0:
			self.Flow = w.params.FlowBudget
		case a.Spend && self.Flow > 0:
			self.Flow--
		}
		if a.Age && self.Life > 1 {
			self.Life--
		}
		_ = g.Set(tx, ty, self)
		// Both endpoints count as processed, the vacated one included.
		other := g.At(x, y)
		other.Stamp = w.gen
		_ = g.Set(x, y, other)
		g.MarkDirty(x, y)
		g.MarkDirty(tx, ty)
		j.moves++

	case rules.Transform:
		tx, ty := x+a.DX, y+a.DY
		touchesOther := a.Ignite || a.OtherInto != material.Keep
		if touchesOther && !g.InBounds(tx, ty) {
			return
		}
		if a.Into != material.Keep {
			c := w.fresh(a.Into, j.ctx.RNG)
			c.Stamp = w.gen
			_ = g.Set(x, y, c)
		}
		if touchesOther {
			var c grid.Cell
			if a.Ignite {
				c = g.At(tx, ty)
				c.Flags |= grid.FlagBurning
				c.Life = uint16(max(min(w.reg.MustLookup(c.Material).BurnTicks, 0xffff), 1))
			} else {
				c = w.fresh(a.OtherInto, j.ctx.RNG)
			}
			c.Stamp = w.gen
			_ = g.Set(tx, ty, c)
			g.MarkDirty(tx, ty)
		}
		g.MarkDirty(x, y)
		j.transforms++

	case rules.Decay:
		if self.Life <= 1 {
			c := w.fresh(a.Into, j.ctx.RNG)
			c.Stamp = w.gen
			_ = g.Set(x, y, c)
		} else {
			self.Life--
			self.Stamp = w.gen
			_ = g.Set(x, y, self)
		}
		g.MarkDirty(x, y)
		j.decays++

	case rules.Wait:
		g.MarkDirty(x, y)
		j.waits++
	}
}
