package sim

import (
	"go.uber.org/zap"

	"sandfall/internal/grid"
	"sandfall/internal/material"
	"sandfall/internal/mutation"
)

// Paint fills the brush footprint at (x, y) with material id at the next
// tick boundary. It is safe to call from any goroutine.
func (w *World) Paint(b mutation.Brush, x, y int, id material.ID) error {
	return w.Submit(mutation.Request{Kind: mutation.Paint, Brush: b, X: x, Y: y, Material: id})
}

// Erase clears the brush footprint at (x, y) at the next tick boundary.
func (w *World) Erase(b mutation.Brush, x, y int) error {
	return w.Submit(mutation.Request{Kind: mutation.Erase, Brush: b, X: x, Y: y})
}

// Ignite sets the flammable cell at (x, y) burning at the next tick boundary.
func (w *World) Ignite(x, y int) error {
	return w.Submit(mutation.Request{Kind: mutation.Ignite, Brush: mutation.Brush{Shape: mutation.Point}, X: x, Y: y})
}

// Submit validates r and queues it. A rejected request changes nothing.
func (w *World) Submit(r mutation.Request) error {
	err := r.Validate(w.grid.Bounds(), w.reg)
	if err == nil {
		err = w.queue.Push(r)
	}
	if err != nil {
		w.rejected.Add(1)
		w.log.Debug("mutation rejected",
			zap.Stringer("kind", r.Kind),
			zap.Int("x", r.X),
			zap.Int("y", r.Y),
			zap.Error(err))
		return err
	}
	return nil
}

// Pending returns the number of queued requests.
func (w *World) Pending() int { return w.queue.Len() }

func (w *World) applyMutations() int {
	reqs := w.queue.Drain()
	for _, r := range reqs {
		w.applyRequest(r)
	}
	return len(reqs)
}

func (w *World) applyRequest(r mutation.Request) {
	g := w.grid
	r.Brush.Each(r.X, r.Y, func(x, y int) {
		if !g.InBounds(x, y) {
			return
		}
		switch r.Kind {
		case mutation.Paint:
			_ = g.Set(x, y, w.fresh(r.Material, w.rng))
		case mutation.Erase:
			_ = g.Set(x, y, grid.Vacancy)
		case mutation.Ignite:
			c := g.At(x, y)
			if c.Empty() || c.Burning() {
				return
			}
			m := w.reg.MustLookup(c.Material)
			if !m.Flammable() {
				return
			}
			c.Flags |= grid.FlagBurning
			c.Life = uint16(max(min(m.BurnTicks, 0xffff), 1))
			_ = g.Set(x, y, c)
		}
	})
	g.MarkRect(r.Brush.Bounds(r.X, r.Y))
}
