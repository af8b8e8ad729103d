package mesh

import (
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"khaos-map/internal/config"
	"khaos-map/internal/core"
)

func testMesh(t *testing.T, seed int64, cells, passes int) *Mesh {
	t.Helper()
	m, err := Generate(config.MeshConfig{TotalCells: cells, RelaxPasses: passes}, core.NewRNG(seed))
	if err != nil {
		t.Fatalf("generate mesh: %v", err)
	}
	return m
}

func TestCellNeighborsAreSymmetric(t *testing.T) {
	m := testMesh(t, 1, 200, 2)
	for a, c := range m.Cells {
		if len(c.Neighbors) == 0 {
			t.Fatalf("cell %d has no neighbours", a)
		}
		if len(c.Neighbors) != len(c.NeighborDist) {
			t.Fatalf("cell %d neighbour/distance length mismatch", a)
		}
		for _, b := range c.Neighbors {
			if b == a {
				t.Fatalf("cell %d lists itself as a neighbour", a)
			}
			if !slices.Contains(m.Cells[b].Neighbors, a) {
				t.Fatalf("cell %d neighbours %d but not the reverse", a, b)
			}
		}
	}
	for a, v := range m.Vertices {
		for _, b := range v.Neighbors {
			if !slices.Contains(m.Vertices[b].Neighbors, a) {
				t.Fatalf("vertex %d neighbours %d but not the reverse", a, b)
			}
		}
	}
}

func TestRegionsAndGeneratorsAgree(t *testing.T) {
	m := testMesh(t, 2, 150, 3)
	for ci, c := range m.Cells {
		if len(c.Region) < 3 {
			t.Fatalf("cell %d has a %d-vertex region", ci, len(c.Region))
		}
		for _, vi := range c.Region {
			if !slices.Contains(m.Vertices[vi].Generators, ci) {
				t.Fatalf("cell %d lists vertex %d but the vertex does not list the cell", ci, vi)
			}
		}
	}
	for vi, v := range m.Vertices {
		if len(v.Generators) == 0 {
			t.Fatalf("vertex %d has no generators", vi)
		}
		for _, ci := range v.Generators {
			if !slices.Contains(m.Cells[ci].Region, vi) {
				t.Fatalf("vertex %d lists cell %d but the region does not contain it", vi, ci)
			}
		}
	}
}

func TestRelaxKeepsGeneratorsInBounds(t *testing.T) {
	m := testMesh(t, 3, 120, 4)
	for ci, c := range m.Cells {
		if c.Pos.X() < -1 || c.Pos.X() > 1 || c.Pos.Y() < -1 || c.Pos.Y() > 1 {
			t.Fatalf("cell %d generator %v left [-1,1]^2", ci, c.Pos)
		}
	}
	if m.FarX <= 0 || m.FarX > 1 || m.FarY <= 0 || m.FarY > 1 {
		t.Fatalf("unexpected far members %v, %v", m.FarX, m.FarY)
	}
}

func TestDefaultMeshBuildsForManySeeds(t *testing.T) {
	if testing.Short() {
		t.Skip("full-size meshes")
	}
	cfg := config.Default().Mesh
	for seed := int64(0); seed < 12; seed++ {
		m, err := Generate(cfg, core.NewRNG(seed))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(m.Cells) != cfg.TotalCells {
			t.Fatalf("seed %d: got %d cells, want %d", seed, len(m.Cells), cfg.TotalCells)
		}
		seen := make(map[mgl64.Vec2]int, len(m.Cells))
		for ci, c := range m.Cells {
			if other, ok := seen[c.Pos]; ok {
				t.Fatalf("seed %d: cells %d and %d share %v", seed, other, ci, c.Pos)
			}
			seen[c.Pos] = ci
		}
	}
}

func TestRelaxSmallMeshesOverManySeeds(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		if _, err := Generate(config.MeshConfig{TotalCells: 1000, RelaxPasses: 5}, core.NewRNG(seed)); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
	}
}

func TestClipToUnit(t *testing.T) {
	old := mgl64.Vec2{0.5, 0.5}
	if got := clipToUnit(old, mgl64.Vec2{0.9, 0.6}); got != (mgl64.Vec2{0.9, 0.6}) {
		t.Fatalf("point inside the square moved to %v", got)
	}
	got := clipToUnit(old, mgl64.Vec2{1.5, 0.9})
	if !got.ApproxEqual(mgl64.Vec2{1, 0.7}) {
		t.Fatalf("clipped to %v, want (1, 0.7)", got)
	}
	got = clipToUnit(mgl64.Vec2{-0.5, -0.5}, mgl64.Vec2{-2.5, -1.5})
	if !got.ApproxEqual(mgl64.Vec2{-1, -0.75}) {
		t.Fatalf("corner clip gave %v, want (-1, -0.75)", got)
	}
	edge := mgl64.Vec2{1, 0.2}
	if got := clipToUnit(edge, mgl64.Vec2{1.3, 0.4}); got != edge {
		t.Fatalf("site on the border moved outwards to %v", got)
	}
}
