//go:build !ebiten

package ui

import "sandfall/internal/grid"

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(World, int) *Overlay { return &Overlay{} }

// SetCursor is a no-op in headless builds.
func (o *Overlay) SetCursor(grid.Rect) {}

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}
