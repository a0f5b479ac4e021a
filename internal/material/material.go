// Package material holds the static table of material properties and the
// pairwise reaction rules the simulation consults every tick.
package material

import (
	"fmt"
	"image/color"
)

// ID identifies a registered material. Empty (0) is the vacancy.
type ID uint8

const (
	// Empty is the vacancy. It carries no state.
	Empty ID = 0
	// Keep is a reaction product meaning "leave this cell as it is".
	Keep ID = 254
	// Boundary stands in for out-of-world positions. It is never stored.
	Boundary ID = 255

	// MaxMaterials bounds the registry so an id fits below the display
	// buffer's burning bit.
	MaxMaterials = 128
)

// State is the physical-state tag that selects a movement rule.
type State uint8

const (
	StateNone State = iota
	StateStatic
	StatePowder
	StateLiquid
	StateGas
	StateFire
)

var stateNames = [...]string{
	StateNone:   "none",
	StateStatic: "static",
	StatePowder: "powder",
	StateLiquid: "liquid",
	StateGas:    "gas",
	StateFire:   "fire",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// ParseState converts a state name back into a State.
func ParseState(name string) (State, error) {
	for i, n := range stateNames {
		if n == name {
			return State(i), nil
		}
	}
	return StateNone, fmt.Errorf("unknown physical state %q", name)
}

// Displaceable reports whether cells in this state can trade places with a
// neighbour of different density. Fire stays where it burns.
func (s State) Displaceable() bool {
	switch s {
	case StatePowder, StateLiquid, StateGas:
		return true
	}
	return false
}

// Lifetime describes how long a decaying material survives, in ticks.
// A zero Max marks a persistent material.
type Lifetime struct {
	Min int
	Max int
}

// Decays reports whether the material ages out.
func (l Lifetime) Decays() bool { return l.Max > 0 }

// Material is one entry of the registry. Values are immutable once the
// registry is frozen.
type Material struct {
	ID    ID
	Name  string
	Color color.RGBA
	// Variants is the number of shade variants a renderer may pick from.
	Variants uint8

	State   State
	Density int32

	// Flammability is the per-tick chance of catching fire next to an igniter.
	Flammability float64
	BurnTicks    int
	FlameChance  float64
	BurnsInto    ID
	// Ignites scales how readily this material sets neighbours alight.
	Ignites float64
	// Quenches marks liquids that put out burning neighbours.
	Quenches bool

	Corrosiveness float64
	AcidProof     bool

	Lifetime   Lifetime
	DecaysInto ID

	// Dispersion is the lateral spread distance for liquids and gases.
	Dispersion int
}

// Flammable reports whether the material can catch fire.
func (m *Material) Flammable() bool { return m.Flammability > 0 }

// IsEmpty reports whether the material is the vacancy.
func (m *Material) IsEmpty() bool { return m.ID == Empty }

var (
	emptyMaterial = Material{
		ID:    Empty,
		Name:  "empty",
		Color: color.RGBA{R: 20, G: 0, B: 60, A: 255},
		State: StateNone,
	}
	boundaryMaterial = Material{
		ID:        Boundary,
		Name:      "boundary",
		Color:     color.RGBA{R: 255, G: 255, B: 255, A: 255},
		State:     StateStatic,
		AcidProof: true,
	}
)

// Sinks reports whether upper may trade places with the lower cell directly
// beneath it. Because the relation is defined on the ordered pair, "A sinks
// through B" and "B rises through A" are the same fact. Equal densities never
// swap, powders never sift through powders and statics never move.
func Sinks(upper, lower *Material) bool {
	if !upper.State.Displaceable() || !lower.State.Displaceable() {
		return false
	}
	if upper.State == StatePowder && lower.State == StatePowder {
		return false
	}
	return upper.Density > lower.Density
}

// Yields reports whether m can be pushed aside sideways by mover.
func Yields(mover, m *Material) bool {
	if m.ID == Empty {
		return true
	}
	if !m.State.Displaceable() || m.State == StatePowder {
		return false
	}
	if mover.State == StateGas {
		return m.State == StateGas && m.Density > mover.Density
	}
	return m.Density < mover.Density
}
