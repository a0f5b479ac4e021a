package sim

import (
	"image/color"

	"sandfall/internal/grid"
	"sandfall/internal/material"
)

// DisplayBurningBit is set in a display value when the cell is on fire. The
// low bits hold the material id.
const DisplayBurningBit = 0x80

// EncodeDisplayValue packs a cell into its display byte.
func EncodeDisplayValue(c grid.Cell) uint8 {
	v := uint8(c.Material) &^ DisplayBurningBit
	if c.Burning() {
		v |= DisplayBurningBit
	}
	return v
}

// Cells exposes the display buffer, refreshing the chunks that changed since
// the last call.
func (w *World) Cells() []uint8 {
	for _, c := range w.grid.Chunks() {
		if !c.TakeStale() {
			continue
		}
		c.Each(c.Bounds(), func(x, y int, cell grid.Cell) {
			w.display.Set(x, y, EncodeDisplayValue(cell))
		})
	}
	return w.display.Cells()
}

// Palette maps display values to colours: one entry per material id, and
// the same again with the burning bit set.
func (w *World) Palette() []color.RGBA {
	palette := make([]color.RGBA, 256)
	all := w.reg.All()
	for i := range all {
		m := &all[i]
		palette[m.ID] = m.Color
		palette[int(m.ID)|DisplayBurningBit] = blendColors(m.Color, material.BurningColor, 0.7)
	}
	return palette
}

// ShadeColor returns the colour of a cell including its shade variant.
func ShadeColor(m *material.Material, c grid.Cell) color.RGBA {
	if c.Burning() {
		return blendColors(m.Color, material.BurningColor, 0.7)
	}
	if m.Variants <= 1 {
		return m.Color
	}
	// Variants darken in steps of 6%.
	f := 1 - 0.06*float64(c.Shade%m.Variants)
	return color.RGBA{
		R: uint8(float64(m.Color.R) * f),
		G: uint8(float64(m.Color.G) * f),
		B: uint8(float64(m.Color.B) * f),
		A: m.Color.A,
	}
}

func blendColors(base, overlay color.RGBA, overlayWeight float64) color.RGBA {
	if overlayWeight <= 0 {
		return base
	}
	if overlayWeight >= 1 {
		return overlay
	}
	inv := 1 - overlayWeight
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*inv + float64(b)*overlayWeight + 0.5)
	}
	return color.RGBA{
		R: mix(base.R, overlay.R),
		G: mix(base.G, overlay.G),
		B: mix(base.B, overlay.B),
		A: mix(base.A, overlay.A),
	}
}
