package core

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrUnknownSim is returned by Build for a name nobody registered.
var ErrUnknownSim = errors.New("unknown simulation")

// Size is a world's extent in cells.
type Size struct {
	W int
	H int
}

// Sim is what the viewers and runners drive. Cells returns one display byte
// per cell in row-major order; its meaning is given by the sim's palette.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// Factory builds a Sim from string overrides such as command line flags.
type Factory func(overrides map[string]string) Sim

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{}
)

// Register makes a factory available to Build. Empty names and nil factories
// are ignored.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	factoriesMu.Lock()
	factories[name] = f
	factoriesMu.Unlock()
}

// Build constructs the sim registered under name.
func Build(name string, overrides map[string]string) (Sim, error) {
	factoriesMu.RLock()
	f, ok := factories[name]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("build %q: %w", name, ErrUnknownSim)
	}
	return f(overrides), nil
}

// Names lists the registered sims in sorted order.
func Names() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	out := make([]string, 0, len(factories))
	for name := range factories {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
