package material

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaterialEntry is one material row of a YAML material table.
type MaterialEntry struct {
	Name          string  `yaml:"name"`
	State         string  `yaml:"state"`
	Color         string  `yaml:"color"`
	Variants      uint8   `yaml:"variants"`
	Density       int32   `yaml:"density"`
	Flammability  float64 `yaml:"flammability"`
	BurnTicks     int     `yaml:"burn_ticks"`
	FlameChance   float64 `yaml:"flame_chance"`
	BurnsInto     string  `yaml:"burns_into"`
	Ignites       float64 `yaml:"ignites"`
	Quenches      bool    `yaml:"quenches"`
	Corrosiveness float64 `yaml:"corrosiveness"`
	AcidProof     bool    `yaml:"acid_proof"`
	LifetimeMin   int     `yaml:"lifetime_min"`
	LifetimeMax   int     `yaml:"lifetime_max"`
	DecaysInto    string  `yaml:"decays_into"`
	Dispersion    int     `yaml:"dispersion"`
}

// ReactionEntry is one reaction row. Products name a material or "keep".
type ReactionEntry struct {
	Actor     string  `yaml:"actor"`
	Other     string  `yaml:"other"`
	Chance    float64 `yaml:"chance"`
	Into      string  `yaml:"into"`
	OtherInto string  `yaml:"other_into"`
}

// Table is the document layout accepted by LoadYAML.
type Table struct {
	Materials []MaterialEntry `yaml:"materials"`
	Reactions []ReactionEntry `yaml:"reactions"`
}

// LoadYAMLFile reads a material table from path into reg.
func LoadYAMLFile(path string, reg *Registry) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open material table: %w", err)
	}
	defer f.Close()
	return LoadYAML(f, reg)
}

// LoadYAML registers the materials and reactions of a YAML table. Materials
// may only reference products defined earlier in the table or already present
// in reg.
func LoadYAML(r io.Reader, reg *Registry) error {
	var t Table
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && err != io.EOF {
		return fmt.Errorf("parse material table: %w", err)
	}
	for _, e := range t.Materials {
		m, err := e.material(reg)
		if err != nil {
			return err
		}
		if _, err := reg.Register(m); err != nil {
			return err
		}
	}
	for _, e := range t.Reactions {
		a, err := reg.ByName(e.Actor)
		if err != nil {
			return fmt.Errorf("reaction actor: %w", err)
		}
		b, err := reg.ByName(e.Other)
		if err != nil {
			return fmt.Errorf("reaction %s: other: %w", e.Actor, err)
		}
		into, err := product(reg, e.Into)
		if err != nil {
			return fmt.Errorf("reaction %s/%s: into: %w", e.Actor, e.Other, err)
		}
		otherInto, err := product(reg, e.OtherInto)
		if err != nil {
			return fmt.Errorf("reaction %s/%s: other_into: %w", e.Actor, e.Other, err)
		}
		if err := reg.AddReaction(a, b, Reaction{Chance: e.Chance, Into: into, OtherInto: otherInto}); err != nil {
			return err
		}
	}
	return nil
}

func (e MaterialEntry) material(reg *Registry) (Material, error) {
	state, err := ParseState(e.State)
	if err != nil {
		return Material{}, fmt.Errorf("material %q: %w", e.Name, err)
	}
	c, err := parseColor(e.Color)
	if err != nil {
		return Material{}, fmt.Errorf("material %q: %w", e.Name, err)
	}
	burns, err := optionalID(reg, e.BurnsInto)
	if err != nil {
		return Material{}, fmt.Errorf("material %q: burns_into: %w", e.Name, err)
	}
	decays, err := optionalID(reg, e.DecaysInto)
	if err != nil {
		return Material{}, fmt.Errorf("material %q: decays_into: %w", e.Name, err)
	}
	if e.LifetimeMin > e.LifetimeMax {
		return Material{}, fmt.Errorf("material %q: lifetime_min %d above lifetime_max %d", e.Name, e.LifetimeMin, e.LifetimeMax)
	}
	return Material{
		Name:          e.Name,
		Color:         c,
		Variants:      e.Variants,
		State:         state,
		Density:       e.Density,
		Flammability:  e.Flammability,
		BurnTicks:     e.BurnTicks,
		FlameChance:   e.FlameChance,
		BurnsInto:     burns,
		Ignites:       e.Ignites,
		Quenches:      e.Quenches,
		Corrosiveness: e.Corrosiveness,
		AcidProof:     e.AcidProof,
		Lifetime:      Lifetime{Min: e.LifetimeMin, Max: e.LifetimeMax},
		DecaysInto:    decays,
		Dispersion:    e.Dispersion,
	}, nil
}

func optionalID(reg *Registry, name string) (ID, error) {
	if name == "" {
		return Empty, nil
	}
	return reg.ByName(name)
}

func product(reg *Registry, name string) (ID, error) {
	if name == "keep" {
		return Keep, nil
	}
	return optionalID(reg, name)
}

func parseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
