package material

import "image/color"

// Names of the built-in materials.
const (
	NameEmpty       = "empty"
	NameWall        = "wall"
	NameStone       = "stone"
	NameSand        = "sand"
	NameSalt        = "salt"
	NameAsh         = "ash"
	NameDust        = "dust"
	NameWetDust     = "wet dust"
	NameWood        = "wood"
	NameWater       = "water"
	NameSaltWater   = "salt water"
	NameGasoline    = "gasoline"
	NameAcid        = "acid"
	NameLava        = "lava"
	NameSteam       = "steam"
	NameSmoke       = "smoke"
	NameMethane     = "methane"
	NameHydrogen    = "hydrogen"
	NameFire        = "fire"
	NameWaterSource = "water source"
	NameFireSource  = "fire source"
	NameSink        = "sink"
)

// BurningColor tints cells that are currently on fire.
var BurningColor = color.RGBA{R: 0xd9, G: 0x67, B: 0x04, A: 0xff}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 0xff} }

// Default builds the stock material set and its reactions. The returned
// registry is not frozen so callers may extend it before the first tick.
func Default() *Registry {
	r := NewRegistry()

	r.MustRegister(Material{Name: NameWall, Color: rgb(0x8c, 0x3d, 0x20), Variants: 2, State: StateStatic, AcidProof: true})
	stone := r.MustRegister(Material{Name: NameStone, Color: rgb(0x70, 0x70, 0x78), Variants: 3, State: StateStatic})
	r.MustRegister(Material{Name: NameSand, Color: rgb(0xda, 0xca, 0xb3), Variants: 4, State: StatePowder, Density: 170000})
	salt := r.MustRegister(Material{Name: NameSalt, Color: rgb(0xd7, 0xd7, 0xd9), Variants: 3, State: StatePowder, Density: 217000})
	ash := r.MustRegister(Material{Name: NameAsh, Color: rgb(0x5a, 0x5a, 0x5a), Variants: 3, State: StatePowder, Density: 4000})
	dust := r.MustRegister(Material{
		Name: NameDust, Color: rgb(0xd8, 0xe4, 0xea), Variants: 3, State: StatePowder, Density: 300,
		Flammability: 0.75, BurnTicks: 25, FlameChance: 0.05,
	})
	wetDust := r.MustRegister(Material{Name: NameWetDust, Color: rgb(0xc8, 0xd4, 0xfa), Variants: 3, State: StatePowder, Density: 103500})
	r.MustRegister(Material{
		Name: NameWood, Color: rgb(0x7a, 0x50, 0x2c), Variants: 3, State: StateStatic,
		Flammability: 0.01, BurnTicks: 400, FlameChance: 0.05, BurnsInto: ash,
	})
	water := r.MustRegister(Material{
		Name: NameWater, Color: rgb(0x05, 0xaf, 0xf2), Variants: 2, State: StateLiquid, Density: 99700,
		Dispersion: 5, Quenches: true,
	})
	saltWater := r.MustRegister(Material{
		Name: NameSaltWater, Color: rgb(0x04, 0x9f, 0xc0), Variants: 2, State: StateLiquid, Density: 102700,
		Dispersion: 5, Quenches: true,
	})
	gasoline := r.MustRegister(Material{
		Name: NameGasoline, Color: rgb(0x92, 0x19, 0x09), Variants: 2, State: StateLiquid, Density: 73700,
		Dispersion: 4, Flammability: 0.45, BurnTicks: 65, FlameChance: 0.12,
	})
	r.MustRegister(Material{
		Name: NameAcid, Color: rgb(0x7f, 0xff, 0x00), Variants: 2, State: StateLiquid, Density: 120000,
		Dispersion: 3, Corrosiveness: 0.1, AcidProof: true,
	})
	lava := r.MustRegister(Material{
		Name: NameLava, Color: rgb(0xff, 0x5a, 0x28), Variants: 3, State: StateLiquid, Density: 310000,
		Dispersion: 1, Ignites: 0.1, AcidProof: true,
	})
	steam := r.MustRegister(Material{
		Name: NameSteam, Color: rgb(0xee, 0xee, 0xff), Variants: 2, State: StateGas, Density: 60,
		Dispersion: 4, Lifetime: Lifetime{Min: 300, Max: 900}, DecaysInto: water,
	})
	smoke := r.MustRegister(Material{
		Name: NameSmoke, Color: rgb(0x50, 0x50, 0x50), Variants: 3, State: StateGas, Density: 120,
		Dispersion: 3, Lifetime: Lifetime{Min: 30, Max: 90},
	})
	r.MustRegister(Material{
		Name: NameMethane, Color: rgb(0x15, 0x60, 0x00), Variants: 2, State: StateGas, Density: 66,
		Dispersion: 3, Flammability: 0.12, BurnTicks: 8, FlameChance: 0.62,
	})
	r.MustRegister(Material{
		Name: NameHydrogen, Color: rgb(0x30, 0x00, 0x80), Variants: 2, State: StateGas, Density: 9,
		Dispersion: 4, Flammability: 0.98, BurnTicks: 2, FlameChance: 0.95,
	})
	fire := r.MustRegister(Material{
		Name: NameFire, Color: rgb(0xf2, 0x92, 0x1d), Variants: 3, State: StateFire, Density: 10,
		Ignites: 1, AcidProof: true, Lifetime: Lifetime{Min: 6, Max: 16}, DecaysInto: smoke,
	})
	waterSource := r.MustRegister(Material{Name: NameWaterSource, Color: rgb(0x9c, 0xad, 0xbc), State: StateStatic, AcidProof: true})
	fireSource := r.MustRegister(Material{Name: NameFireSource, Color: rgb(0xd6, 0x9f, 0x7e), State: StateStatic, AcidProof: true, Ignites: 1})
	sink := r.MustRegister(Material{Name: NameSink, Color: rgb(0x30, 0x30, 0x30), State: StateStatic, AcidProof: true})

	reactions := []struct {
		a, b ID
		rx   Reaction
	}{
		{water, fire, Reaction{Chance: 1, Into: steam, OtherInto: Empty}},
		{fire, water, Reaction{Chance: 1, Into: Empty, OtherInto: steam}},
		{saltWater, fire, Reaction{Chance: 1, Into: salt, OtherInto: steam}},
		{fire, saltWater, Reaction{Chance: 1, Into: steam, OtherInto: salt}},
		{lava, water, Reaction{Chance: 0.5, Into: stone, OtherInto: steam}},
		{water, lava, Reaction{Chance: 0.5, Into: steam, OtherInto: stone}},
		{lava, saltWater, Reaction{Chance: 0.5, Into: stone, OtherInto: steam}},
		{saltWater, lava, Reaction{Chance: 0.5, Into: steam, OtherInto: stone}},
		{salt, water, Reaction{Chance: 0.05, Into: Empty, OtherInto: saltWater}},
		{water, salt, Reaction{Chance: 0.05, Into: saltWater, OtherInto: Empty}},
		{dust, water, Reaction{Chance: 0.05, Into: wetDust, OtherInto: Empty}},
		{water, dust, Reaction{Chance: 0.05, Into: Empty, OtherInto: wetDust}},
		{dust, saltWater, Reaction{Chance: 0.05, Into: salt, OtherInto: wetDust}},
		{gasoline, lava, Reaction{Chance: 0.2, Into: fire, OtherInto: Keep}},
		{waterSource, Empty, Reaction{Chance: 0.15, Into: Keep, OtherInto: water}},
		{fireSource, Empty, Reaction{Chance: 0.3, Into: Keep, OtherInto: fire}},
	}
	for _, e := range reactions {
		if err := r.AddReaction(e.a, e.b, e.rx); err != nil {
			panic(err)
		}
	}
	for i := range r.mats {
		m := &r.mats[i]
		if m.State.Displaceable() {
			if err := r.AddReaction(sink, m.ID, Reaction{Chance: 1, Into: Keep, OtherInto: Empty}); err != nil {
				panic(err)
			}
		}
	}
	return r
}

// MustID resolves a name that is known to be registered.
func (r *Registry) MustID(name string) ID {
	id, err := r.ByName(name)
	if err != nil {
		panic(err)
	}
	return id
}
