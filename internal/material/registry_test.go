package material

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAssignsSequentialIDs(t *testing.T) {
	r := NewRegistry()
	a, err := r.Register(Material{Name: "a", State: StatePowder, Density: 10})
	require.NoError(t, err)
	b, err := r.Register(Material{Name: "b", State: StateLiquid, Density: 5})
	require.NoError(t, err)

	assert.Equal(t, ID(1), a)
	assert.Equal(t, ID(2), b)
	assert.Equal(t, 3, r.Len())

	m, err := r.Lookup(b)
	require.NoError(t, err)
	assert.Equal(t, "b", m.Name)
	assert.Equal(t, uint8(255), m.Color.A, "opaque colour by default")
}

func TestRegisterRejectsDuplicatesAndFrozen(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register(Material{Name: "a"})
	require.NoError(t, err)

	_, err = r.Register(Material{Name: "a"})
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = r.Register(Material{Name: "c", DecaysInto: 42})
	assert.ErrorIs(t, err, ErrUnknownMaterial)

	r.Freeze()
	_, err = r.Register(Material{Name: "z"})
	assert.ErrorIs(t, err, ErrFrozen)
	assert.ErrorIs(t, r.AddReaction(1, 0, Reaction{Chance: 1}), ErrFrozen)
}

func TestRegistryFull(t *testing.T) {
	r := NewRegistry()
	for i := 1; i < MaxMaterials; i++ {
		_, err := r.Register(Material{Name: strings.Repeat("x", i)})
		require.NoError(t, err)
	}
	_, err := r.Register(Material{Name: "overflow"})
	assert.ErrorIs(t, err, ErrRegistryFull)
}

func TestLookupUnknownAndBoundary(t *testing.T) {
	r := Default()
	_, err := r.Lookup(ID(r.Len()))
	if !errors.Is(err, ErrUnknownMaterial) {
		t.Fatalf("expected ErrUnknownMaterial, got %v", err)
	}
	b, err := r.Lookup(Boundary)
	require.NoError(t, err)
	assert.Equal(t, StateStatic, b.State)

	_, err = r.ByName("unobtainium")
	assert.ErrorIs(t, err, ErrUnknownMaterial)
}

func TestReactionReplaceAndLookup(t *testing.T) {
	r := NewRegistry()
	a := r.MustRegister(Material{Name: "a"})
	b := r.MustRegister(Material{Name: "b"})

	require.NoError(t, r.AddReaction(a, b, Reaction{Chance: 0.5, Into: Keep, OtherInto: a}))
	require.NoError(t, r.AddReaction(a, b, Reaction{Chance: 1, Into: b, OtherInto: Keep}))

	rx, ok := r.Reaction(a, b)
	require.True(t, ok)
	assert.Equal(t, 1.0, rx.Chance)
	assert.Equal(t, b, rx.Into)
	assert.Equal(t, Keep, rx.OtherInto)

	_, ok = r.Reaction(b, a)
	assert.False(t, ok, "reactions are keyed by ordered pair")
	assert.True(t, r.Reactive(a))
	assert.False(t, r.Reactive(b))

	assert.Error(t, r.AddReaction(a, b, Reaction{Chance: 2}))
	assert.ErrorIs(t, r.AddReaction(a, 99, Reaction{Chance: 1}), ErrUnknownMaterial)
}

func TestSinksIsAntisymmetric(t *testing.T) {
	r := Default()
	all := r.All()
	for i := range all {
		for j := range all {
			a, b := &all[i], &all[j]
			if Sinks(a, b) && Sinks(b, a) {
				t.Fatalf("%s and %s both sink through each other", a.Name, b.Name)
			}
			if a.Density == b.Density && Sinks(a, b) {
				t.Fatalf("equal densities %s/%s must not swap", a.Name, b.Name)
			}
		}
	}
}

func TestSinksRules(t *testing.T) {
	r := Default()
	get := func(name string) *Material { return r.MustLookup(r.MustID(name)) }

	sand, water, salt, dust := get(NameSand), get(NameWater), get(NameSalt), get(NameDust)
	wall, steam, gasoline := get(NameWall), get(NameSteam), get(NameGasoline)

	assert.True(t, Sinks(sand, water), "sand sinks through water")
	assert.False(t, Sinks(water, sand))
	assert.False(t, Sinks(salt, sand), "powders never sift through powders")
	assert.False(t, Sinks(dust, water), "dust floats")
	assert.True(t, Sinks(water, dust))
	assert.False(t, Sinks(sand, wall), "statics never move")
	assert.True(t, Sinks(water, steam), "steam rises through water")
	assert.True(t, Sinks(water, gasoline), "gasoline floats on water")
	assert.False(t, Sinks(sand, r.MustLookup(Boundary)))

	fire, hydrogen := get(NameFire), get(NameHydrogen)
	assert.False(t, Sinks(sand, fire), "powder rests on a flame")
	assert.False(t, Sinks(fire, hydrogen), "gas does not rise through a flame")
	assert.False(t, Yields(water, fire), "a flame is not pushed aside")
}

func TestDefaultRegistryProducts(t *testing.T) {
	r := Default()
	water, fire, steam := r.MustID(NameWater), r.MustID(NameFire), r.MustID(NameSteam)

	rx, ok := r.Reaction(water, fire)
	require.True(t, ok)
	assert.Equal(t, 1.0, rx.Chance)
	assert.Equal(t, steam, rx.Into)
	assert.Equal(t, Empty, rx.OtherInto)

	mirror, ok := r.Reaction(fire, water)
	require.True(t, ok)
	assert.Equal(t, steam, mirror.OtherInto)

	sink := r.MustID(NameSink)
	for _, m := range r.All() {
		_, ok := r.Reaction(sink, m.ID)
		assert.Equal(t, m.State.Displaceable(), ok, "sink reaction for %s", m.Name)
	}

	wood := r.MustLookup(r.MustID(NameWood))
	assert.Equal(t, r.MustID(NameAsh), wood.BurnsInto)
	assert.True(t, wood.Flammable())
	for _, m := range r.All() {
		assert.Less(t, int(m.ID), MaxMaterials)
	}
	assert.Equal(t, 5, r.MaxDispersion())
}

func TestParseState(t *testing.T) {
	for s := StateNone; s <= StateFire; s++ {
		got, err := ParseState(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseState("plasma")
	assert.Error(t, err)
}
