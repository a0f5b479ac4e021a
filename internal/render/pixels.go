// Package render turns world state into pixels and terminal cells.
package render

import (
	"image/color"

	"sandfall/internal/core"
	"sandfall/internal/grid"
	"sandfall/internal/material"
	"sandfall/internal/sim"
)

// Source is the read side of a world as the renderers see it.
type Source interface {
	Size() core.Size
	Registry() *material.Registry
	View(r grid.Rect, fn func(x, y int, c grid.Cell))
}

// FillPalette converts display values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func FillPalette(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}
	last := len(palette) - 1
	for i, c := range cells {
		col := palette[min(int(c), last)]
		put(buf, i, col)
	}
}

// FillShaded writes the colour of every cell of src into buf, including the
// per-cell shade variant and the burning tint.
func FillShaded(buf []byte, src Source) {
	size := src.Size()
	reg := src.Registry()
	src.View(grid.Rect{X1: size.W, Y1: size.H}, func(x, y int, c grid.Cell) {
		put(buf, y*size.W+x, sim.ShadeColor(reg.MustLookup(c.Material), c))
	})
}

func put(buf []byte, i int, col color.RGBA) {
	base := i * 4
	buf[base+0] = col.R
	buf[base+1] = col.G
	buf[base+2] = col.B
	buf[base+3] = col.A
}
