package render

import (
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"

	"sandfall/internal/core"
	"sandfall/internal/material"
	"sandfall/internal/sim"
)

func TestFillPalette(t *testing.T) {
	palette := []color.RGBA{{R: 1, A: 255}, {G: 2, A: 255}}
	buf := make([]byte, 4*3)
	FillPalette(buf, []uint8{0, 1, 9}, palette)
	want := []byte{1, 0, 0, 255, 0, 2, 0, 255, 0, 2, 0, 255}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d: got %d want %d", i, buf[i], want[i])
		}
	}

	FillPalette(buf, []uint8{0, 1, 1}, nil)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("empty palette should clear the buffer, byte %d is %d", i, b)
		}
	}
}

func TestFillShadedMatchesCells(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Width, cfg.Height, cfg.Scene = 4, 4, "empty"
	w := sim.NewWithConfig(cfg)
	w.Reset(1)
	wall := w.Registry().MustID(material.NameWall)
	if err := w.Place(1, 2, wall); err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 4*16)
	FillShaded(buf, w)

	c, _ := w.CellAt(1, 2)
	want := sim.ShadeColor(w.Registry().MustLookup(wall), c)
	base := (2*4 + 1) * 4
	if got := (color.RGBA{buf[base], buf[base+1], buf[base+2], buf[base+3]}); got != want {
		t.Fatalf("wall pixel %v, want %v", got, want)
	}
	empty := w.Registry().MustLookup(material.Empty).Color
	if got := (color.RGBA{buf[0], buf[1], buf[2], buf[3]}); got != empty {
		t.Fatalf("empty pixel %v, want %v", got, empty)
	}
}

type recorder map[[2]int]tcell.Style

func (r recorder) SetContent(x, y int, _ rune, _ []rune, style tcell.Style) {
	r[[2]int{x, y}] = style
}

func TestDrawHalfBlocks(t *testing.T) {
	palette := []color.RGBA{{A: 255}, {R: 200, G: 10, B: 10, A: 255}, {B: 250, A: 255}}
	cells := []uint8{
		1, 0,
		2, 1,
		0, 2,
	}
	rec := recorder{}
	DrawHalfBlocks(rec, cells, core.Size{W: 2, H: 3}, palette, 0, 0, 3, 2)
	if len(rec) != 6 {
		t.Fatalf("expected 6 terminal cells, got %d", len(rec))
	}
	rgb := func(c color.RGBA) tcell.Color { return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)) }

	want := tcell.StyleDefault.Foreground(rgb(palette[1])).Background(rgb(palette[2]))
	if rec[[2]int{0, 0}] != want {
		t.Fatal("top-left cell should pair rows 0 and 1")
	}
	want = tcell.StyleDefault.Foreground(rgb(palette[2])).Background(tcell.ColorBlack)
	if rec[[2]int{1, 1}] != want {
		t.Fatal("rows past the world should be black")
	}
	want = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorBlack)
	if rec[[2]int{2, 0}] != want {
		t.Fatal("columns past the world should be black")
	}
}
