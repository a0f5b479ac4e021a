package render

import (
	"image/color"

	"github.com/gdamore/tcell/v2"

	"sandfall/internal/core"
)

// halfBlock shows the upper cell as foreground and the lower as background.
const halfBlock = '▀'

// CellWriter is the part of a tcell screen the terminal renderer writes to.
type CellWriter interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// DrawHalfBlocks draws the world region starting at (ox, oy) into a cols x
// rows terminal area, two world rows per terminal row. Cells outside the
// world are drawn black.
func DrawHalfBlocks(dst CellWriter, cells []uint8, size core.Size, palette []color.RGBA, ox, oy, cols, rows int) {
	at := func(x, y int) tcell.Color {
		if x < 0 || y < 0 || x >= size.W || y >= size.H || len(palette) == 0 {
			return tcell.ColorBlack
		}
		col := palette[min(int(cells[y*size.W+x]), len(palette)-1)]
		return tcell.NewRGBColor(int32(col.R), int32(col.G), int32(col.B))
	}
	for row := 0; row < rows; row++ {
		wy := oy + 2*row
		for col := 0; col < cols; col++ {
			wx := ox + col
			style := tcell.StyleDefault.Foreground(at(wx, wy)).Background(at(wx, wy+1))
			dst.SetContent(col, row, halfBlock, nil, style)
		}
	}
}
