//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"khaos-map/internal/world"
)

// HUD renders the parameter panel and the focus readout to the right of the
// map view.
type HUD struct {
	world  *world.World
	width  int
	height int
	panel  *ebiten.Image
	title  string
	focus  int
	lines  []panelLine
}

// NewHUD constructs a HUD for the provided world and panel size.
func NewHUD(wd *world.World, width, height int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{world: wd, width: width, height: height, title: "khaos-map", focus: -1}
}

// SetWorld points the HUD at a regenerated world.
func (h *HUD) SetWorld(wd *world.World) {
	if h == nil {
		return
	}
	h.world = wd
	h.focus = -1
}

// SetFocus selects the cell whose readout is shown, -1 for none.
func (h *HUD) SetFocus(ci int) {
	if h == nil {
		return
	}
	h.focus = ci
}

// Update refreshes the cached panel lines from the world.
func (h *HUD) Update() {
	if h == nil || h.world == nil {
		return
	}
	focus := ""
	if h.focus >= 0 {
		focus = h.world.Describe(h.focus)
	}
	h.lines = panelLines(h.title, h.world.Parameters(), focus)
}

// Draw paints the HUD panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int) {
	if h == nil || h.width <= 0 || h.height <= 0 {
		return
	}
	if h.panel == nil {
		h.panel = ebiten.NewImage(h.width, h.height)
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawLines()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawLines() {
	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	for _, line := range h.lines {
		if y > h.height-panelPadding {
			return
		}
		switch line.kind {
		case lineTitle:
			text.Draw(h.panel, line.left, face, panelPadding, y, color.RGBA{R: 200, G: 200, B: 210, A: 255})
			y += titleSpacing
		case lineHeader:
			y += headerGap
			text.Draw(h.panel, line.left, face, panelPadding, y, color.RGBA{R: 150, G: 190, B: 230, A: 255})
			y += lineHeight
		case lineParam:
			text.Draw(h.panel, line.left, face, panelPadding, y, color.RGBA{R: 220, G: 220, B: 230, A: 255})
			valueWidth := text.BoundString(face, line.right).Dx()
			text.Draw(h.panel, line.right, face, h.width-panelPadding-valueWidth, y, color.RGBA{R: 220, G: 220, B: 230, A: 255})
			y += lineHeight
		default:
			text.Draw(h.panel, line.left, face, panelPadding, y, color.RGBA{R: 180, G: 180, B: 190, A: 255})
			y += lineHeight
		}
	}
}

const (
	panelPadding   = 12
	lineHeight     = 15
	headerGap      = 6
	headerBaseline = 18
	titleSpacing   = 20
)
