package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"khaos-map/internal/config"
	"khaos-map/internal/core"
	"khaos-map/internal/mesh"
)

func TestToWorldAndBack(t *testing.T) {
	p := ToWorld(0, 0, 100, 50)
	if math.Abs(p.X()+0.99) > 1e-12 || math.Abs(p.Y()+0.98) > 1e-12 {
		t.Fatalf("first pixel centre maps to %v", p)
	}
	x, y := ToScreen(mgl64.Vec2{0, 0}, 100, 50)
	if x != 50 || y != 25 {
		t.Fatalf("origin maps to (%v, %v)", x, y)
	}
}

func TestCellIndexMatchesNearestGenerator(t *testing.T) {
	m, err := mesh.Generate(config.MeshConfig{TotalCells: 60, RelaxPasses: 1}, core.NewRNG(9))
	if err != nil {
		t.Fatalf("generate mesh: %v", err)
	}
	const w, h = 40, 30
	index := CellIndex(mesh.NewLocator(m), w, h)
	if len(index) != w*h {
		t.Fatalf("index has %d entries", len(index))
	}
	for i, ci := range index {
		p := ToWorld(i%w, i/w, w, h)
		best, bestDist := -1, math.Inf(1)
		for cj, c := range m.Cells {
			if d := c.Pos.Sub(p).Len(); d < bestDist {
				best, bestDist = cj, d
			}
		}
		got := m.Cells[ci].Pos.Sub(p).Len()
		if int(ci) != best && math.Abs(got-bestDist) > 1e-12 {
			t.Fatalf("pixel %d mapped to cell %d, nearest is %d", i, ci, best)
		}
	}
}

func TestFillCellRGBA(t *testing.T) {
	colors := []color.RGBA{{R: 1, G: 2, B: 3, A: 4}, {R: 5, G: 6, B: 7, A: 8}}
	index := []int32{1, 0, 5}
	buf := make([]byte, 4*len(index))
	for i := range buf {
		buf[i] = 99
	}
	fillCellRGBA(buf, index, colors)
	want := []byte{5, 6, 7, 8, 1, 2, 3, 4, 0, 0, 0, 0}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf = %v, want %v", buf, want)
		}
	}
}

func TestTerrainColorSeparatesLandAndSea(t *testing.T) {
	sea := terrainColor(0.1, 0.33)
	land := terrainColor(0.5, 0.33)
	if sea.B <= sea.G || land.G <= land.B {
		t.Fatalf("sea %v should be blue and land %v green/brown", sea, land)
	}
	if got := gradient(landStops, 1); got != landStops[len(landStops)-1].col {
		t.Fatalf("top of land gradient %v", got)
	}
}

func TestLayerCycle(t *testing.T) {
	l := LayerTerrain
	seen := map[string]bool{}
	for i := 0; i < int(layerCount); i++ {
		seen[l.String()] = true
		l = l.Next()
	}
	if l != LayerTerrain || len(seen) != int(layerCount) {
		t.Fatalf("layer cycle broken: back at %v, saw %v", l, seen)
	}
}
