// Package grid stores the world as a bounded array of lazily allocated
// square chunks and keeps the per-chunk bookkeeping the scheduler and the
// activity tracker work from.
package grid

import "sandfall/internal/material"

// Flags holds per-cell state bits.
type Flags uint8

const (
	// FlagBurning marks a flammable cell that is on fire. Life then counts
	// the remaining burn ticks.
	FlagBurning Flags = 1 << iota
)

// Cell is one grid position. It is stored by value.
type Cell struct {
	Material material.ID
	Flags    Flags
	// Flow is the remaining lateral-move budget of a liquid or gas.
	Flow  uint8
	Shade uint8
	// Life is the remaining lifetime, or burn time while burning.
	Life uint16
	// Stamp is the generation of the tick that last processed the cell.
	Stamp uint32
}

// Vacancy is the empty cell. An empty cell carries no state apart from its
// Stamp, which records that it was vacated during a tick.
var Vacancy = Cell{}

// BoundaryCell is what At reports for positions outside the world.
var BoundaryCell = Cell{Material: material.Boundary}

func (c Cell) Empty() bool   { return c.Material == material.Empty }
func (c Cell) Burning() bool { return c.Flags&FlagBurning != 0 }

// Processed reports whether the cell was handled during generation gen. A
// vacancy left behind by a move counts as processed for the rest of the tick.
func (c Cell) Processed(gen uint32) bool {
	return gen != 0 && c.Stamp == gen
}
