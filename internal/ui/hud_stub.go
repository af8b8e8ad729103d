//go:build !ebiten

package ui

import "khaos-map/internal/world"

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(*world.World, int, int) *HUD { return nil }

// SetWorld is a no-op in the headless build.
func (h *HUD) SetWorld(*world.World) {}

// SetFocus is a no-op in the headless build.
func (h *HUD) SetFocus(int) {}

// Update is a no-op in the headless build.
func (h *HUD) Update() {}

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int) {}
