//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"khaos-map/internal/config"
	"khaos-map/internal/core"
	"khaos-map/internal/render"
	"khaos-map/internal/world"
)

// Overlay draws wind, rivers, lakes and the focus outline on top of the map.
type Overlay struct {
	world      *world.World
	w, h       int
	scale      int
	showWind   bool
	showRivers bool
	focus      int

	pixel *ebiten.Image
}

// NewOverlay constructs an overlay for a w*h map raster drawn at scale.
func NewOverlay(wd *world.World, w, h, scale int) *Overlay {
	o := &Overlay{world: wd, w: w, h: h, scale: scale, showRivers: true, focus: -1}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// SetWorld points the overlay at a regenerated world.
func (o *Overlay) SetWorld(wd *world.World) {
	o.world = wd
	o.focus = -1
}

// SetFocus selects the outlined cell, -1 for none.
func (o *Overlay) SetFocus(ci int) { o.focus = ci }

// Update toggles layers from the keyboard.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showWind = !o.showWind
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showRivers = !o.showRivers
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.world == nil || o.pixel == nil {
		return
	}
	if o.showRivers {
		o.drawRivers(screen)
	}
	if o.showWind {
		o.drawWind(screen)
	}
	if o.focus >= 0 {
		o.drawFocus(screen)
	}
}

func (o *Overlay) screen(p mgl64.Vec2) (float64, float64) {
	x, y := render.ToScreen(p, o.w, o.h)
	s := float64(o.scale)
	return x * s, y * s
}

func (o *Overlay) drawRivers(screen *ebiten.Image) {
	river := color.RGBA{R: 60, G: 110, B: 220, A: 230}
	for _, seg := range riverSegments(o.world, minFlowToRender) {
		x1, y1 := o.screen(seg.from)
		x2, y2 := o.screen(seg.to)
		o.drawLine(screen, x1, y1, x2, y2, seg.width, river)
	}
	m := o.world.Mesh()
	water := o.world.Hydrology()
	lake := color.RGBA{R: 50, G: 90, B: 200, A: 255}
	for v, isLake := range water.IsLake {
		if !isLake {
			continue
		}
		x, y := o.screen(m.Vertices[v].Pos)
		size := 2 + math.Min(6, water.Water[v]/o.world.Config().Water.VolumeScale)
		o.drawPoint(screen, x, y, size*float64(o.scale), lake)
	}
}

// drawWind draws one line per cell along its wind vector, coloured by
// temperature, and a grey dot for pressure.
func (o *Overlay) drawWind(screen *ebiten.Image) {
	m := o.world.Mesh()
	air := o.world.Atmosphere()
	t := o.world.Config().Temperature
	span := float64(o.w*o.scale) / 35
	for ci, c := range m.Cells {
		x, y := o.screen(c.Pos)
		wind := air.Wind[ci]
		o.drawLine(screen, x, y, x+wind.X()*span, y+wind.Y()*span, 1, windColor(air.Temperature[ci], t))
		p := uint8(32 + 111*(core.Clamp(air.Pressure[ci], -1, 1)+1))
		o.drawPoint(screen, x, y, 3, color.RGBA{R: p, G: p, B: p, A: 255})
	}
}

func windColor(temp float64, t config.TemperatureConfig) color.RGBA {
	frac := core.Clamp01((temp - t.Freezing) / math.Abs(t.Equatorial-t.Freezing))
	return color.RGBA{
		R: uint8(200 * frac),
		G: uint8(core.Clamp(128-math.Abs(128-math.Pow(14, 1+frac)), 0, 255)),
		B: uint8(255 - 200*frac),
		A: 255,
	}
}

func (o *Overlay) drawFocus(screen *ebiten.Image) {
	m := o.world.Mesh()
	if o.focus >= len(m.Cells) {
		return
	}
	region := m.Cells[o.focus].Region
	black := color.RGBA{A: 255}
	for i, v := range region {
		next := region[(i+1)%len(region)]
		x1, y1 := o.screen(m.Vertices[v].Pos)
		x2, y2 := o.screen(m.Vertices[next].Pos)
		o.drawLine(screen, x1, y1, x2, y2, 3, black)
	}
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	if o.pixel == nil || size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(o.pixel, op)
}
