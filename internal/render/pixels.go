package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"khaos-map/internal/mesh"
)

// ToWorld maps the centre of pixel (px, py) of a w*h raster onto map
// coordinates in [-1,1]^2.
func ToWorld(px, py, w, h int) mgl64.Vec2 {
	return mgl64.Vec2{
		(float64(px)+0.5)/float64(w)*2 - 1,
		(float64(py)+0.5)/float64(h)*2 - 1,
	}
}

// ToScreen maps a map coordinate onto raster coordinates.
func ToScreen(p mgl64.Vec2, w, h int) (float64, float64) {
	return (p.X() + 1) / 2 * float64(w), (p.Y() + 1) / 2 * float64(h)
}

// CellIndex assigns every pixel of a w*h raster to the cell whose generator
// is nearest, which is the Voronoi region containing it.
func CellIndex(loc *mesh.Locator, w, h int) []int32 {
	index := make([]int32, w*h)
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			index[py*w+px] = int32(loc.Nearest(ToWorld(px, py, w, h)))
		}
	}
	return index
}

// fillCellRGBA converts per-cell colours into RGBA pixels in buf using the
// pixel-to-cell index. Pixels mapped outside colors are cleared.
func fillCellRGBA(buf []byte, index []int32, colors []color.RGBA) {
	for i, ci := range index {
		base := i * 4
		if ci < 0 || int(ci) >= len(colors) {
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
			continue
		}
		col := colors[ci]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
