//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"sandfall/internal/core"
	"sandfall/internal/material"
)

// HUD renders the material picker, status lines and parameter controls to
// the right of the simulation view.
type HUD struct {
	world      World
	width      int
	panel      *ebiten.Image
	lastHeight int
	pixel      *ebiten.Image
	offsetX    int

	swatches []swatch
	selected material.ID
	controls []control
	status   Status
}

type swatch struct {
	id   material.ID
	name string
	col  color.RGBA
	rect image.Rectangle
}

type control struct {
	core.ParameterControl
	value float64
	text  string
	ok    bool

	top   int
	minus image.Rectangle
	plus  image.Rectangle
}

// NewHUD builds a panel of the given width for world.
func NewHUD(world World, width int) *HUD {
	h := &HUD{world: world, width: max(width, 0)}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	all := world.Registry().All()
	for i := range all {
		m := &all[i]
		if m.IsEmpty() {
			continue
		}
		h.swatches = append(h.swatches, swatch{id: m.ID, name: m.Name, col: m.Color})
	}
	if len(h.swatches) > 0 {
		h.selected = h.swatches[0].id
		if sand, err := world.Registry().ByName(material.NameSand); err == nil {
			h.selected = sand
		}
	}
	for _, ctrl := range world.ParameterControls() {
		h.controls = append(h.controls, control{ParameterControl: ctrl, text: "--"})
	}
	h.layout()
	return h
}

// Selected returns the material painted by the left mouse button.
func (h *HUD) Selected() material.ID {
	if h == nil {
		return material.Empty
	}
	return h.selected
}

// Cycle moves the selection by delta swatches.
func (h *HUD) Cycle(delta int) {
	if h == nil || len(h.swatches) == 0 {
		return
	}
	i := 0
	for j, s := range h.swatches {
		if s.id == h.selected {
			i = j
		}
	}
	n := len(h.swatches)
	h.selected = h.swatches[((i+delta)%n+n)%n].id
}

// SetStatus updates the viewer state lines.
func (h *HUD) SetStatus(s Status) {
	if h != nil {
		h.status = s
	}
}

// Update refreshes parameter values and handles clicks on the panel.
func (h *HUD) Update(offsetX int) {
	if h == nil {
		return
	}
	h.offsetX = offsetX
	h.refresh()
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < offsetX {
		return
	}
	p := image.Pt(mx-offsetX, my)
	for _, s := range h.swatches {
		if p.In(s.rect) {
			h.selected = s.id
			return
		}
	}
	for i := range h.controls {
		c := &h.controls[i]
		switch {
		case !c.ok:
		case p.In(c.minus):
			h.adjust(c, -1)
			return
		case p.In(c.plus):
			h.adjust(c, 1)
			return
		}
	}
}

func (h *HUD) refresh() {
	snap := h.world.Parameters()
	for i := range h.controls {
		c := &h.controls[i]
		c.ok = false
		c.text = "--"
		param, ok := snap.Lookup(c.Key)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(param.Value, 64)
		if err != nil {
			continue
		}
		c.value, c.ok = v, true
		c.text = formatValue(c.ParameterControl, v)
	}
}

func (h *HUD) step(c *control) float64 {
	if c.Step > 0 {
		return c.Step
	}
	if c.Type == core.ParamTypeInt {
		return 1
	}
	return 0.05
}

func (h *HUD) target(c *control, dir int) (float64, bool) {
	t := c.Clamp(c.value + float64(dir)*h.step(c))
	return t, math.Abs(t-c.value) > 1e-9
}

func (h *HUD) adjust(c *control, dir int) {
	t, ok := h.target(c, dir)
	if !ok {
		return
	}
	switch c.Type {
	case core.ParamTypeInt:
		ok = h.world.SetIntParameter(c.Key, int(t))
	case core.ParamTypeFloat:
		ok = h.world.SetFloatParameter(c.Key, t)
	default:
		ok = false
	}
	if ok {
		c.value = t
		c.text = formatValue(c.ParameterControl, t)
	}
}

// Draw paints the panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := h.world.Size().H * max(scale, 1)
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawSwatches()
	h.drawStatus()
	h.drawControls()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

var (
	textColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor   = color.RGBA{R: 150, G: 150, B: 160, A: 255}
	titleColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
)

func (h *HUD) drawSwatches() {
	face := basicfont.Face7x13
	text.Draw(h.panel, "Materials", face, panelPadding, panelPadding+headerBaseline, titleColor)
	for _, s := range h.swatches {
		box := image.Rect(s.rect.Min.X, s.rect.Min.Y+2, s.rect.Min.X+swatchBox, s.rect.Min.Y+2+swatchBox)
		if s.id == h.selected {
			h.fill(box.Inset(-2), color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
		h.fill(box, s.col)
		col := dimColor
		if s.id == h.selected {
			col = textColor
		}
		text.Draw(h.panel, s.name, face, box.Max.X+6, s.rect.Min.Y+swatchBox, col)
	}
}

func (h *HUD) drawStatus() {
	face := basicfont.Face7x13
	st := h.world.Stats()
	mode := "running"
	if h.status.Paused {
		mode = "paused"
	}
	lines := []string{
		fmt.Sprintf("brush %s %d", h.status.Brush, h.status.Size),
		fmt.Sprintf("%s at %d tps", mode, h.status.TPS),
		fmt.Sprintf("tick %d", h.world.Tick()),
		fmt.Sprintf("chunks %d  cells %d", st.ActiveChunks, st.Visited),
		fmt.Sprintf("moves %d  reacts %d", st.Moves, st.Transforms),
	}
	y := h.statusTop()
	for _, line := range lines {
		text.Draw(h.panel, line, face, panelPadding, y, dimColor)
		y += statusLine
	}
}

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	for i := range h.controls {
		c := &h.controls[i]
		baseline := c.top + labelBaseline
		text.Draw(h.panel, c.Label, face, panelPadding, baseline, textColor)
		col := textColor
		if !c.ok {
			col = dimColor
		}
		w := text.BoundString(face, c.text).Dx()
		text.Draw(h.panel, c.text, face, c.minus.Min.X-buttonGap-w, baseline, col)
		_, down := h.target(c, -1)
		_, up := h.target(c, 1)
		h.drawButton(c.minus, "-", c.ok && down)
		h.drawButton(c.plus, "+", c.ok && up)
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	h.fill(rect, bg)
	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-b.Dx())/2
	y := rect.Min.Y + (rect.Dy()-b.Dy())/2 + b.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) fill(rect image.Rectangle, col color.RGBA) {
	if h.pixel == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(col)
	h.panel.DrawImage(h.pixel, op)
}

func (h *HUD) swatchRows() int { return (len(h.swatches) + 1) / 2 }

func (h *HUD) statusTop() int {
	return swatchesTop + h.swatchRows()*swatchRow + sectionGap
}

func (h *HUD) layout() {
	if h.width <= 0 {
		return
	}
	colWidth := (h.width - 2*panelPadding) / 2
	for i := range h.swatches {
		x := panelPadding + (i%2)*colWidth
		y := swatchesTop + (i/2)*swatchRow
		h.swatches[i].rect = image.Rect(x, y, x+colWidth, y+swatchRow)
	}
	top := h.statusTop() + 5*statusLine + sectionGap
	for i := range h.controls {
		rowTop := top + i*lineHeight
		buttonY := rowTop + (lineHeight-buttonSize)/2
		plus := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minus := image.Rect(plus.Min.X-buttonGap-buttonSize, buttonY, plus.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].top = rowTop
		h.controls[i].minus = minus
		h.controls[i].plus = plus
	}
}

func formatValue(ctrl core.ParameterControl, v float64) string {
	if ctrl.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(v)))
	}
	precision := 1
	switch {
	case ctrl.Step > 0 && ctrl.Step < 0.001:
		precision = 4
	case ctrl.Step > 0 && ctrl.Step < 0.01:
		precision = 3
	case ctrl.Step > 0 && ctrl.Step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

const (
	panelPadding   = 12
	headerBaseline = 14
	swatchesTop    = panelPadding + headerBaseline + 8
	swatchRow      = 18
	swatchBox      = 12
	statusLine     = 16
	sectionGap     = 14
	lineHeight     = 32
	buttonSize     = 22
	buttonGap      = 6
	labelBaseline  = 20
)
