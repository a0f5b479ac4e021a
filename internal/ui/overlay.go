//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"sandfall/internal/grid"
)

// Overlay draws chunk activity and the brush outline over the world.
type Overlay struct {
	world      World
	scale      int
	showChunks bool
	showDirty  bool
	cursor     grid.Rect
	pixel      *ebiten.Image
}

// NewOverlay constructs an overlay for world drawn at scale.
func NewOverlay(world World, scale int) *Overlay {
	o := &Overlay{world: world, scale: max(scale, 1)}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// SetCursor sets the world rectangle outlined as the brush footprint. An
// empty rect hides it.
func (o *Overlay) SetCursor(r grid.Rect) { o.cursor = r }

// Update toggles the layers: 1 chunk states, 2 dirty rects.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showChunks = !o.showChunks
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showDirty = !o.showDirty
	}
}

var (
	activeColor   = color.RGBA{R: 80, G: 220, B: 120, A: 200}
	sleepingColor = color.RGBA{R: 90, G: 90, B: 110, A: 140}
	dirtyColor    = color.RGBA{R: 250, G: 210, B: 60, A: 220}
	cursorColor   = color.RGBA{R: 255, G: 255, B: 255, A: 160}
)

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.showChunks || o.showDirty {
		for _, c := range o.world.Grid().Chunks() {
			if o.showChunks && c.Allocated() {
				col := sleepingColor
				if c.Active() {
					col = activeColor
				}
				o.stroke(screen, o.toScreen(c.Bounds()), col)
			}
			if o.showDirty && c.Active() {
				if d := c.Dirty(); !d.Empty() {
					o.stroke(screen, o.toScreen(d), dirtyColor)
				}
			}
		}
	}
	if !o.cursor.Empty() {
		o.stroke(screen, o.toScreen(o.cursor.Intersect(o.world.Grid().Bounds())), cursorColor)
	}
}

func (o *Overlay) toScreen(r grid.Rect) image.Rectangle {
	return image.Rect(r.X0*o.scale, r.Y0*o.scale, r.X1*o.scale, r.Y1*o.scale)
}

func (o *Overlay) stroke(screen *ebiten.Image, r image.Rectangle, col color.RGBA) {
	if r.Empty() {
		return
	}
	o.fill(screen, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), col)
	o.fill(screen, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), col)
	o.fill(screen, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), col)
	o.fill(screen, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), col)
}

func (o *Overlay) fill(screen *ebiten.Image, r image.Rectangle, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(r.Dx()), float64(r.Dy()))
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
