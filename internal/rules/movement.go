package rules

import (
	"sandfall/internal/grid"
	"sandfall/internal/material"
)

// powder falls straight down, sinking through lighter fluids, and otherwise
// slides diagonally down, trying the scan direction first.
func powder(ctx *Context, _ grid.Cell, m *material.Material, n Neighborhood) (Action, bool) {
	return fall(ctx, m, n, 1)
}

// liquid falls like a powder and then spreads sideways up to its dispersion.
func liquid(ctx *Context, self grid.Cell, m *material.Material, n Neighborhood) (Action, bool) {
	if a, ok := fall(ctx, m, n, 1); ok {
		return a, true
	}
	return spread(ctx, self, m, n, 1)
}

// gas mirrors liquid with gravity reversed.
func gas(ctx *Context, self grid.Cell, m *material.Material, n Neighborhood) (Action, bool) {
	if a, ok := fall(ctx, m, n, -1); ok {
		return a, true
	}
	return spread(ctx, self, m, n, -1)
}

// fall moves one row in direction v (+1 down, -1 up). Diagonals never cut a
// corner: the lateral cell must be open as well.
func fall(ctx *Context, m *material.Material, n Neighborhood, v int) (Action, bool) {
	if vertical(ctx, m, n, 0, v) {
		return move(0, v), true
	}
	for _, dx := range sides(ctx.Dir) {
		if vertical(ctx, m, n, dx, v) && open(ctx, m, n, dx) {
			return move(dx, v), true
		}
	}
	return Action{}, false
}

// spread looks sideways, scan direction first, for the nearest reachable cell
// with a drop (or a rise, for gases). Moving towards a drop is free; without
// one the cell moves as far as it can, which costs flow budget.
func spread(ctx *Context, self grid.Cell, m *material.Material, n Neighborhood, v int) (Action, bool) {
	d := ctx.Params.DispersionOf(m)
	if d <= 0 {
		return Action{}, false
	}
	var far [2]int
	for i, dx := range sides(ctx.Dir) {
		for step := 1; step <= d; step++ {
			if !slide(ctx, m, n, dx*step) {
				break
			}
			if vertical(ctx, m, n, dx*step, v) {
				return move(dx*step, 0), true
			}
			far[i] = step
		}
	}
	if self.Flow == 0 {
		return Action{}, false
	}
	for i, dx := range sides(ctx.Dir) {
		if far[i] > 0 {
			a := move(dx*far[i], 0)
			a.Spend = true
			return a, true
		}
	}
	return Action{}, false
}

// vertical reports whether m may trade places with the cell at (dx, v). A
// cell processed this tick, including one just vacated, is never entered.
func vertical(ctx *Context, m *material.Material, n Neighborhood, dx, v int) bool {
	if n.Processed(dx, v) {
		return false
	}
	c := n.At(dx, v)
	if c.Empty() {
		return true
	}
	if c.Material == material.Boundary {
		return false
	}
	other := lookup(ctx, c)
	if v > 0 {
		return material.Sinks(m, other)
	}
	return material.Sinks(other, m)
}

// slide reports whether m may trade places with the cell dx columns away in
// its own row.
func slide(ctx *Context, m *material.Material, n Neighborhood, dx int) bool {
	if n.Processed(dx, 0) {
		return false
	}
	c := n.At(dx, 0)
	if c.Empty() {
		return true
	}
	if c.Material == material.Boundary {
		return false
	}
	return material.Yields(m, lookup(ctx, c))
}

// open is slide without the processed check: the cell is only passed by,
// not entered.
func open(ctx *Context, m *material.Material, n Neighborhood, dx int) bool {
	c := n.At(dx, 0)
	if c.Empty() {
		return true
	}
	if c.Material == material.Boundary {
		return false
	}
	return material.Yields(m, lookup(ctx, c))
}
