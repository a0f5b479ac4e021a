package rules

import (
	"sandfall/internal/grid"
	"sandfall/internal/material"
)

// burningIgnites is the relative strength with which a burning cell sets its
// neighbours alight, compared to an open flame.
const burningIgnites = 0.5

type mover func(ctx *Context, self grid.Cell, m *material.Material, n Neighborhood) (Action, bool)

// movement is indexed by physical state. Nil entries never move.
var movement = [...]mover{
	material.StateNone:   nil,
	material.StateStatic: nil,
	material.StatePowder: powder,
	material.StateLiquid: liquid,
	material.StateGas:    gas,
	material.StateFire:   nil,
}

// Decide returns the action for self. Reactions are tried first, then
// corrosion, the end of a cell's life, burning and ignition, and finally
// movement. A cell with a lifetime that does not move ages in place.
func Decide(ctx *Context, self grid.Cell, n Neighborhood) Action {
	if self.Empty() || self.Material == material.Boundary {
		return Action{}
	}
	m := ctx.Reg.MustLookup(self.Material)
	pending := false

	if ctx.Reg.Reactive(m.ID) {
		a, ok, p := react(ctx, m, n)
		if ok {
			return a
		}
		pending = pending || p
	}
	if m.Corrosiveness > 0 {
		a, ok, p := corrode(ctx, m, n)
		if ok {
			return a
		}
		pending = pending || p
	}

	burning := self.Burning()
	ageing := burning || m.Lifetime.Decays()
	product := m.DecaysInto
	if burning {
		product = m.BurnsInto
	}
	if ageing && self.Life <= 1 {
		return decay(product)
	}

	if burning {
		if a, ok := burn(ctx, m, n); ok {
			return a
		}
	}
	strength := m.Ignites
	if burning {
		strength = max(strength, burningIgnites)
	}
	if strength > 0 {
		a, ok, p := spreadFire(ctx, strength, n)
		if ok {
			return a
		}
		pending = pending || p
	}

	if int(m.State) < len(movement) && movement[m.State] != nil {
		if a, ok := movement[m.State](ctx, self, m, n); ok {
			a.Age = ageing
			return a
		}
	}
	if ageing {
		return decay(product)
	}
	if pending {
		return Action{Kind: Wait}
	}
	return Action{}
}

// probes lists the four direct neighbours: up, then lateral in scan order,
// then down.
func probes(dir int) [4][2]int {
	return [4][2]int{{0, -1}, {dir, 0}, {-dir, 0}, {0, 1}}
}

func sides(dir int) [2]int { return [2]int{dir, -dir} }

func lookup(ctx *Context, c grid.Cell) *material.Material {
	return ctx.Reg.MustLookup(c.Material)
}

// react fires the first registered reaction whose roll succeeds. pending
// reports a matching reaction that did not fire this time.
func react(ctx *Context, m *material.Material, n Neighborhood) (Action, bool, bool) {
	pending := false
	for _, p := range probes(ctx.Dir) {
		c := n.At(p[0], p[1])
		if c.Material == material.Boundary {
			continue
		}
		rx, ok := ctx.Reg.Reaction(m.ID, c.Material)
		if !ok {
			continue
		}
		if ctx.RNG.Chance(min(1, rx.Chance*ctx.Params.ReactionScale)) {
			return transform(p[0], p[1], rx.Into, rx.OtherInto), true, false
		}
		pending = true
	}
	return Action{}, false, pending
}

// corrode dissolves a neighbour that is not acid proof. The corroding cell is
// used up half of the time.
func corrode(ctx *Context, m *material.Material, n Neighborhood) (Action, bool, bool) {
	pending := false
	for _, p := range probes(ctx.Dir) {
		c := n.At(p[0], p[1])
		if c.Empty() || c.Material == m.ID || c.Material == material.Boundary {
			continue
		}
		if lookup(ctx, c).AcidProof {
			continue
		}
		if ctx.RNG.Chance(m.Corrosiveness) {
			into := material.Keep
			if ctx.RNG.Bool() {
				into = material.Empty
			}
			return transform(p[0], p[1], into, material.Empty), true, false
		}
		pending = true
	}
	return Action{}, false, pending
}

// burn handles a cell that is on fire: quenching liquids put it out, and it
// may throw a flame into an empty neighbour.
func burn(ctx *Context, m *material.Material, n Neighborhood) (Action, bool) {
	for _, p := range probes(ctx.Dir) {
		c := n.At(p[0], p[1])
		if c.Empty() || c.Material == material.Boundary {
			continue
		}
		if lookup(ctx, c).Quenches {
			return transform(p[0], p[1], m.ID, material.Keep), true
		}
	}
	if ctx.Fire == material.Empty || !ctx.RNG.Chance(m.FlameChance) {
		return Action{}, false
	}
	for _, p := range probes(ctx.Dir) {
		if n.At(p[0], p[1]).Empty() {
			return transform(p[0], p[1], material.Keep, ctx.Fire), true
		}
	}
	return Action{}, false
}

// spreadFire tries to ignite a flammable neighbour.
func spreadFire(ctx *Context, strength float64, n Neighborhood) (Action, bool, bool) {
	pending := false
	for _, p := range probes(ctx.Dir) {
		c := n.At(p[0], p[1])
		if c.Empty() || c.Material == material.Boundary || c.Burning() {
			continue
		}
		om := lookup(ctx, c)
		if !om.Flammable() {
			continue
		}
		if ctx.RNG.Chance(om.Flammability * ctx.Params.IgnitionScale * strength) {
			return ignite(p[0], p[1]), true, false
		}
		pending = true
	}
	return Action{}, false, pending
}
