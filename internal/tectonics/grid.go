// Package tectonics implements the deformation altitude strategy: a regular
// grid of plate cells is crawled in row-major order, neighbouring cells
// interact according to their motion directions, and the result is resampled
// onto the mesh.
package tectonics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"khaos-map/internal/core"
	"khaos-map/internal/mesh"
)

// Cell is one sample of the tectonic grid. Density and Altitude stay in [0,1]
// and |Vector| stays at or below 1.
type Cell struct {
	Vector   mgl64.Vec2
	Density  float64
	Altitude float64
}

// NewGrid seeds a w x h grid from plates random centres in [0,1)^2. Every
// cell copies the vector and density of its nearest centre and starts with
// altitude 1 - density.
func NewGrid(w, h, plates int, rng *core.RNG) *core.Grid[Cell] {
	if plates < 1 {
		plates = 1
	}
	centers := make([]mgl64.Vec2, plates)
	seeds := make([]Cell, plates)
	for i := range centers {
		centers[i] = mgl64.Vec2{rng.Float64(), rng.Float64()}
		vec := core.ClampLen(mgl64.Vec2{rng.Between(-1, 1), rng.Between(-1, 1)}, 1)
		density := rng.Float64()
		seeds[i] = Cell{Vector: vec, Density: density, Altitude: 1 - density}
	}

	g := core.NewGrid[Cell](w, h)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			p := mgl64.Vec2{float64(x) / float64(g.W), float64(y) / float64(g.H)}
			best, bestDist := 0, math.Inf(1)
			for i, c := range centers {
				if d := c.Sub(p).Len(); d < bestDist {
					best, bestDist = i, d
				}
			}
			*g.At(x, y) = seeds[best]
		}
	}
	return g
}

// Resample reads one altitude per mesh vertex from the grid, mapping [-1,1]
// onto grid indices. Out-of-range positions clamp to the border.
func Resample(g *core.Grid[Cell], m *mesh.Mesh) []float64 {
	alt := make([]float64, len(m.Vertices))
	for vi, v := range m.Vertices {
		x := gridIndex(v.Pos.X(), g.W)
		y := gridIndex(v.Pos.Y(), g.H)
		alt[vi] = g.At(x, y).Altitude
	}
	return alt
}

func gridIndex(coord float64, res int) int {
	i := int((coord + 1) / 2 * float64(res))
	if i < 0 {
		return 0
	}
	if i >= res {
		return res - 1
	}
	return i
}
