//go:build !ebiten

package ui

import "khaos-map/internal/world"

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(*world.World, int, int, int) *Overlay { return &Overlay{} }

// SetWorld is a no-op in headless builds.
func (o *Overlay) SetWorld(*world.World) {}

// SetFocus is a no-op in headless builds.
func (o *Overlay) SetFocus(int) {}

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}
