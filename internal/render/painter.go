//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// MapPainter keeps one RGBA image of the map raster and refreshes it from
// per-cell colours.
type MapPainter struct {
	w, h  int
	img   *ebiten.Image
	buf   []byte
	index []int32
}

// NewMapPainter allocates a painter for a w*h raster with the provided
// pixel-to-cell index.
func NewMapPainter(index []int32, w, h int) *MapPainter {
	mp := &MapPainter{w: w, h: h, buf: make([]byte, 4*w*h), index: index}
	mp.img = ebiten.NewImage(w, h)
	return mp
}

// Blit uploads the cell colours into the painter image and draws it.
func (mp *MapPainter) Blit(dst *ebiten.Image, colors []color.RGBA, scale int) {
	if len(mp.index) != mp.w*mp.h {
		return
	}
	fillCellRGBA(mp.buf, mp.index, colors)
	mp.img.ReplacePixels(mp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(mp.img, op)
}

// Size returns the dimensions of the underlying image.
func (mp *MapPainter) Size() (int, int) { return mp.w, mp.h }
