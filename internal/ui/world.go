// Package ui draws the side panel and debug overlays of the GUI viewer.
package ui

import (
	"sandfall/internal/core"
	"sandfall/internal/grid"
	"sandfall/internal/material"
	"sandfall/internal/sim"
)

// World is what the panel and overlays read from and adjust.
type World interface {
	core.Sim
	core.ParameterControlsProvider
	core.IntParameterSetter
	core.FloatParameterSetter
	Parameters() core.ParameterSnapshot
	Registry() *material.Registry
	Grid() *grid.Grid
	View(r grid.Rect, fn func(x, y int, c grid.Cell))
	Stats() sim.Stats
	Tick() uint64
}

// Status is the viewer state shown on the panel.
type Status struct {
	Brush  string
	Size   int
	TPS    int
	Paused bool
	Shaded bool
}
