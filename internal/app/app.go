//go:build ebiten

package app

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"sandfall/internal/core"
	"sandfall/internal/grid"
	"sandfall/internal/material"
	"sandfall/internal/mutation"
	"sandfall/internal/render"
	"sandfall/internal/ui"
)

// World is the simulation as the viewer drives it.
type World interface {
	ui.World
	Paint(b mutation.Brush, x, y int, id material.ID) error
	Erase(b mutation.Brush, x, y int) error
	Ignite(x, y int) error
	Palette() []color.RGBA
}

// Game adapts a world to the ebiten.Game interface.
type Game struct {
	world   World
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay
	palette []color.RGBA
	clock   *core.FixedStep

	scale    int
	hudWidth int
	tps      int
	paused   bool
	tickOnce bool
	shaded   bool
	seed     int64

	brush    mutation.Brush
	stroking bool
	lastX    int
	lastY    int
}

// New constructs a Game for world.
func New(world World, cfg *Config, seed int64) *Game {
	size := world.Size()
	scale := max(cfg.Scale, 1)
	g := &Game{
		world:    world,
		painter:  render.NewGridPainter(size.W, size.H),
		overlay:  ui.NewOverlay(world, scale),
		palette:  world.Palette(),
		clock:    core.NewFixedStep(cfg.TPS),
		scale:    scale,
		hudWidth: max(cfg.HUDWidth, 0),
		tps:      max(cfg.TPS, 1),
		shaded:   true,
		seed:     seed,
		brush:    mutation.Brush{Shape: mutation.Circle, Size: 2},
	}
	// A zero-width panel still tracks the selected material.
	g.hud = ui.NewHUD(world, g.hudWidth)
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.world.Reset(seed)
	g.tickOnce = false
	g.stroking = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleKeys()
	g.overlay.Update()
	g.hud.Update(g.viewWidth())
	g.handleMouse()
	g.hud.SetStatus(ui.Status{
		Brush:  g.brush.Shape.String(),
		Size:   g.brush.Size,
		TPS:    g.tps,
		Paused: g.paused,
		Shaded: g.shaded,
	})

	due := g.clock.Due()
	switch {
	case g.tickOnce:
		g.world.Step()
		g.tickOnce = false
	case !g.paused:
		for ; due > 0; due-- {
			g.world.Step()
		}
	}
	return nil
}

func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.shaded = !g.shaded
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.brush.Shape = (g.brush.Shape + 1) % mutation.Line
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) || inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.hud.Cycle(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		g.hud.Cycle(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.setTPS(g.tps * 2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.setTPS(g.tps / 2)
	}
}

func (g *Game) setTPS(tps int) {
	g.tps = min(max(tps, 1), 960)
	g.clock.SetTPS(g.tps)
}

func (g *Game) handleMouse() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		step := 1
		if dy < 0 {
			step = -1
		}
		g.brush.Size = min(max(g.brush.Size+step, 0), mutation.MaxBrushSize)
	}

	mx, my := ebiten.CursorPosition()
	size := g.world.Size()
	x, y := mx/g.scale, my/g.scale
	if mx < 0 || my < 0 || x >= size.W || y >= size.H {
		g.overlay.SetCursor(grid.Rect{})
		g.stroking = false
		return
	}
	g.overlay.SetCursor(g.brush.Bounds(x, y))

	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.stroke(x, y, func(b mutation.Brush) error { return g.world.Paint(b, x, y, g.hud.Selected()) })
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		g.stroke(x, y, func(b mutation.Brush) error { return g.world.Erase(b, x, y) })
	default:
		g.stroking = false
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) || inpututil.IsKeyJustPressed(ebiten.KeyF) {
		_ = g.world.Ignite(x, y)
	}
}

// stroke applies a brush at (x, y), joining it to the previous frame's
// position while the button stays down.
func (g *Game) stroke(x, y int, apply func(mutation.Brush) error) {
	b := g.brush
	if g.stroking && (g.lastX != x || g.lastY != y) {
		b.Shape = mutation.Line
		b.FromX, b.FromY = g.lastX, g.lastY
	}
	// Rejected edits are logged by the world.
	_ = apply(b)
	g.stroking = true
	g.lastX, g.lastY = x, y
}

func (g *Game) viewWidth() int { return g.world.Size().W * g.scale }

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.shaded {
		g.painter.BlitShaded(screen, g.world, g.scale)
	} else {
		g.painter.BlitPalette(screen, g.world.Cells(), g.palette, g.scale)
	}
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.viewWidth(), g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.world.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
