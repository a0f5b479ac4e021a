// Package rules holds the per-material decision logic. A rule looks at one
// cell and its neighbourhood and returns a single Action; it never writes to
// the grid. The scheduler applies the action.
package rules

import (
	"fmt"

	"sandfall/internal/core"
	"sandfall/internal/grid"
	"sandfall/internal/material"
)

// Kind selects what an Action does.
type Kind uint8

const (
	// None leaves the cell untouched.
	None Kind = iota
	// Move swaps the cell with the neighbour at (DX, DY).
	Move
	// Transform replaces the cell with Into and the neighbour at (DX, DY)
	// with OtherInto. material.Keep leaves the respective cell as it is.
	Transform
	// Decay counts the cell's life down by one and replaces it with Into
	// once it runs out.
	Decay
	// Wait changes nothing now but reports a pending stochastic outcome, so
	// the chunk stays awake.
	Wait
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Move:
		return "move"
	case Transform:
		return "transform"
	case Decay:
		return "decay"
	case Wait:
		return "wait"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Action is the outcome of one rule invocation.
type Action struct {
	Kind      Kind
	DX, DY    int
	Into      material.ID
	OtherInto material.ID
	// Ignite sets the neighbour at (DX, DY) burning.
	Ignite bool
	// Age counts the mover's life down as part of a Move.
	Age bool
	// Spend charges a Move one unit of lateral flow budget.
	Spend bool
}

// Changes reports whether applying the action modifies the grid.
func (a Action) Changes() bool { return a.Kind != None && a.Kind != Wait }

// Neighborhood is the read-only view a rule gets of the cells around the one
// being decided. Offsets are relative; positions outside the world read as
// grid.BoundaryCell.
type Neighborhood interface {
	At(dx, dy int) grid.Cell
	Processed(dx, dy int) bool
}

// Params are the tunables that shape rule outcomes.
type Params struct {
	// Dispersion overrides material dispersion by id. Entries <= 0 fall back
	// to the material's own value.
	Dispersion    []int
	FlowBudget    uint8
	IgnitionScale float64
	ReactionScale float64
}

// DefaultParams returns the stock tunables.
func DefaultParams() Params {
	return Params{
		FlowBudget:    8,
		IgnitionScale: 1,
		ReactionScale: 1,
	}
}

// DispersionOf returns the effective lateral spread of m.
func (p *Params) DispersionOf(m *material.Material) int {
	if int(m.ID) < len(p.Dispersion) && p.Dispersion[m.ID] > 0 {
		return p.Dispersion[m.ID]
	}
	return m.Dispersion
}

// Context carries everything a rule may consult besides the neighbourhood.
type Context struct {
	Reg *material.Registry
	RNG *core.RNG
	// Dir is the horizontal scan direction of the current tick: +1 or -1.
	Dir    int
	Params *Params
	// Fire is the material burning cells emit. Empty disables emission.
	Fire material.ID
}

// NewContext builds a context for reg, resolving the fire material by name.
func NewContext(reg *material.Registry, rng *core.RNG, params *Params) *Context {
	fire, err := reg.ByName(material.NameFire)
	if err != nil {
		fire = material.Empty
	}
	return &Context{Reg: reg, RNG: rng, Dir: 1, Params: params, Fire: fire}
}

func move(dx, dy int) Action { return Action{Kind: Move, DX: dx, DY: dy} }

func transform(dx, dy int, into, otherInto material.ID) Action {
	return Action{Kind: Transform, DX: dx, DY: dy, Into: into, OtherInto: otherInto}
}

func ignite(dx, dy int) Action {
	return Action{Kind: Transform, DX: dx, DY: dy, Into: material.Keep, OtherInto: material.Keep, Ignite: true}
}

func decay(into material.ID) Action { return Action{Kind: Decay, Into: into} }
