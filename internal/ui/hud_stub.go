//go:build !ebiten

package ui

import "sandfall/internal/material"

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(World, int) *HUD { return nil }

// Selected reports the vacancy in the headless build.
func (h *HUD) Selected() material.ID { return material.Empty }

// Cycle is a no-op in the headless build.
func (h *HUD) Cycle(int) {}

// SetStatus is a no-op in the headless build.
func (h *HUD) SetStatus(Status) {}

// Update is a no-op in the headless build.
func (h *HUD) Update(int) {}

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int, int) {}
