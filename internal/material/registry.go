package material

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownMaterial = errors.New("unknown material")
	ErrFrozen          = errors.New("material registry is frozen")
	ErrDuplicateName   = errors.New("duplicate material name")
	ErrRegistryFull    = errors.New("material registry is full")
)

// Reaction fires when a cell of the actor material probes a neighbour of the
// other material. Into replaces the actor and OtherInto the neighbour; Keep
// leaves the respective cell untouched.
type Reaction struct {
	Other     ID
	Chance    float64
	Into      ID
	OtherInto ID
}

// Registry is the material table. It is built at load time and frozen before
// the first tick, after which every read is lock-free.
type Registry struct {
	mats      []Material
	byName    map[string]ID
	reactions [][]Reaction
	frozen    bool
}

// NewRegistry returns a registry that holds only the vacancy.
func NewRegistry() *Registry {
	r := &Registry{
		byName:    map[string]ID{emptyMaterial.Name: Empty},
		mats:      []Material{emptyMaterial},
		reactions: make([][]Reaction, 1, MaxMaterials),
	}
	return r
}

// Register adds m and returns its assigned id. m.ID is ignored.
func (r *Registry) Register(m Material) (ID, error) {
	if r.frozen {
		return 0, ErrFrozen
	}
	if m.Name == "" {
		return 0, fmt.Errorf("register material: empty name")
	}
	if _, dup := r.byName[m.Name]; dup {
		return 0, fmt.Errorf("register %q: %w", m.Name, ErrDuplicateName)
	}
	if len(r.mats) >= MaxMaterials {
		return 0, fmt.Errorf("register %q: %w", m.Name, ErrRegistryFull)
	}
	for _, product := range []ID{m.BurnsInto, m.DecaysInto} {
		if !r.known(product) {
			return 0, fmt.Errorf("register %q: product %d: %w", m.Name, product, ErrUnknownMaterial)
		}
	}
	id := ID(len(r.mats))
	m.ID = id
	if m.Color.A == 0 {
		m.Color.A = 255
	}
	r.mats = append(r.mats, m)
	r.byName[m.Name] = id
	r.reactions = append(r.reactions, nil)
	return id, nil
}

// MustRegister is Register for static tables; it panics on error.
func (r *Registry) MustRegister(m Material) ID {
	id, err := r.Register(m)
	if err != nil {
		panic(err)
	}
	return id
}

// AddReaction registers the reaction for actor a probing neighbour b. A later
// registration for the same pair replaces the earlier one.
func (r *Registry) AddReaction(a, b ID, rx Reaction) error {
	if r.frozen {
		return ErrFrozen
	}
	for _, id := range []ID{a, b} {
		if int(id) >= len(r.mats) {
			return fmt.Errorf("reaction %d/%d: %w", a, b, ErrUnknownMaterial)
		}
	}
	for _, id := range []ID{rx.Into, rx.OtherInto} {
		if id != Keep && !r.known(id) {
			return fmt.Errorf("reaction %d/%d product %d: %w", a, b, id, ErrUnknownMaterial)
		}
	}
	if rx.Chance < 0 || rx.Chance > 1 {
		return fmt.Errorf("reaction %s/%s: chance %v outside [0,1]", r.mats[a].Name, r.mats[b].Name, rx.Chance)
	}
	rx.Other = b
	list := r.reactions[a]
	for i := range list {
		if list[i].Other == b {
			list[i] = rx
			return nil
		}
	}
	r.reactions[a] = append(list, rx)
	return nil
}

// Reaction returns the reaction for actor a probing neighbour b.
func (r *Registry) Reaction(a, b ID) (Reaction, bool) {
	if int(a) >= len(r.reactions) {
		return Reaction{}, false
	}
	for _, rx := range r.reactions[a] {
		if rx.Other == b {
			return rx, true
		}
	}
	return Reaction{}, false
}

// Reactive reports whether a has any registered reaction.
func (r *Registry) Reactive(a ID) bool {
	return int(a) < len(r.reactions) && len(r.reactions[a]) > 0
}

// Lookup returns the material for id. The Boundary sentinel resolves to the
// solid boundary material.
func (r *Registry) Lookup(id ID) (*Material, error) {
	if id == Boundary {
		return &boundaryMaterial, nil
	}
	if int(id) >= len(r.mats) {
		return nil, fmt.Errorf("material id %d: %w", id, ErrUnknownMaterial)
	}
	return &r.mats[id], nil
}

// MustLookup is Lookup for ids already validated against this registry.
func (r *Registry) MustLookup(id ID) *Material {
	m, err := r.Lookup(id)
	if err != nil {
		panic(err)
	}
	return m
}

// ByName resolves a material name.
func (r *Registry) ByName(name string) (ID, error) {
	id, ok := r.byName[name]
	if !ok {
		return 0, fmt.Errorf("material %q: %w", name, ErrUnknownMaterial)
	}
	return id, nil
}

// Names returns the registered names sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered materials including the vacancy.
func (r *Registry) Len() int { return len(r.mats) }

// All returns the materials in id order. The slice must not be modified.
func (r *Registry) All() []Material { return r.mats }

// Valid reports whether id names a registered material.
func (r *Registry) Valid(id ID) bool { return int(id) < len(r.mats) }

// Freeze makes the registry immutable.
func (r *Registry) Freeze() { r.frozen = true }

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool { return r.frozen }

// MaxDispersion returns the largest lateral spread of any material.
func (r *Registry) MaxDispersion() int {
	max := 0
	for i := range r.mats {
		if r.mats[i].Dispersion > max {
			max = r.mats[i].Dispersion
		}
	}
	return max
}

func (r *Registry) known(id ID) bool {
	return int(id) < len(r.mats)
}
