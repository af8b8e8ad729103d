package altitude

import (
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"khaos-map/internal/config"
	"khaos-map/internal/core"
	"khaos-map/internal/mesh"
)

func testMesh(t *testing.T, seed int64) *mesh.Mesh {
	t.Helper()
	m, err := mesh.Generate(config.MeshConfig{TotalCells: 250, RelaxPasses: 2}, core.NewRNG(seed))
	if err != nil {
		t.Fatalf("generate mesh: %v", err)
	}
	return m
}

func smallConfig() config.Config {
	cfg := config.Default()
	cfg.Mountains.MaxNodeChain = 40
	cfg.Mountains.RidgesMin = 2
	cfg.Mountains.RidgesMax = 4
	return cfg
}

func TestGenerateStaysInBounds(t *testing.T) {
	m := testMesh(t, 1)
	alt, err := Generate(m, smallConfig(), core.NewRNG(1), nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(alt) != len(m.Vertices) {
		t.Fatalf("expected %d altitudes, got %d", len(m.Vertices), len(alt))
	}
	for i, a := range alt {
		if a < 0 || a > 1 {
			t.Fatalf("vertex %d altitude %v outside [0,1]", i, a)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	m := testMesh(t, 2)
	a, err := Generate(m, smallConfig(), core.NewRNG(5), nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := Generate(m, smallConfig(), core.NewRNG(5), nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !slices.Equal(a, b) {
		t.Fatalf("expected identical altitudes for identical seeds")
	}
}

func TestProjectReflectsAndFloors(t *testing.T) {
	m := testMesh(t, 3)
	center := 0
	slopes := []mgl64.Vec2{{1, 0}}
	alt := Project(m, []int{center}, slopes, 0.9)
	origin := m.Vertices[center].Pos
	for vi, v := range m.Vertices {
		raw := v.Pos.X() - origin.X() + 0.9
		want := raw
		if want > 1 {
			want = 2 - want
		}
		if want < 0 {
			want = 0
		}
		if alt[vi] != want {
			t.Fatalf("vertex %d: got %v want %v (raw %v)", vi, alt[vi], want, raw)
		}
	}
}

func TestPlateCentersRespectCountRange(t *testing.T) {
	m := testMesh(t, 4)
	cfg := config.Default().Tectonics
	cfg.PlatesMin, cfg.PlatesMax = 3, 6
	for seed := int64(0); seed < 10; seed++ {
		centers := PlateCenters(m, cfg, core.NewRNG(seed))
		if len(centers) < 3 || len(centers) >= 6 {
			t.Fatalf("seed %d: plate count %d outside [3,6)", seed, len(centers))
		}
	}
}

func TestPlateCentersTerminateWhenSpacingImpossible(t *testing.T) {
	m := testMesh(t, 4)
	cfg := config.Default().Tectonics
	cfg.PlatesMin, cfg.PlatesMax = 20, 21
	cfg.MinDist = 100
	centers := PlateCenters(m, cfg, core.NewRNG(1))
	if len(centers) != 20 {
		t.Fatalf("expected the best candidates to be accepted, got %d centres", len(centers))
	}
}

func TestSmoothReadsFromSnapshot(t *testing.T) {
	m := testMesh(t, 5)
	alt := make([]float64, len(m.Vertices))
	for i := range alt {
		alt[i] = float64(i%7) / 7
	}
	got := Smooth(m, alt, 1)
	for vi, v := range m.Vertices {
		sum := 0.0
		for _, n := range v.Neighbors {
			sum += alt[n]
		}
		want := sum / float64(len(v.Neighbors))
		if d := got[vi] - want; d > 1e-12 || d < -1e-12 {
			t.Fatalf("vertex %d: got %v want %v", vi, got[vi], want)
		}
	}
	if alt[1] != 1.0/7 {
		t.Fatalf("input slice must not be modified")
	}
}

func TestPeaksHaveNoHigherNeighbour(t *testing.T) {
	m := testMesh(t, 6)
	alt, err := Generate(m, smallConfig(), core.NewRNG(6), nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	peaks := Peaks(m, alt)
	if len(peaks) == 0 {
		t.Fatalf("expected at least one peak")
	}
	for _, p := range peaks {
		for _, n := range m.Vertices[p].Neighbors {
			if alt[n] > alt[p] {
				t.Fatalf("peak %d has higher neighbour %d", p, n)
			}
		}
	}
}

func TestGrowRidgesNeverLowersAndRespectsBudget(t *testing.T) {
	m := testMesh(t, 7)
	alt := make([]float64, len(m.Vertices))
	for i := range alt {
		alt[i] = 0.2
	}
	before := slices.Clone(alt)
	cfg := config.Default().Mountains
	cfg.RidgesMin, cfg.RidgesMax = 1, 1
	cfg.MaxNodeChain = 25
	branches := GrowRidges(m, alt, []int{0}, cfg, core.NewRNG(7))
	if len(branches) == 0 {
		t.Fatalf("expected at least one branch")
	}
	added := 0
	for _, b := range branches {
		added += b.Len() - 1
		if b.Open {
			t.Fatalf("branch left open after growth")
		}
	}
	if added > cfg.MaxNodeChain+1 {
		t.Fatalf("ridge grew %d nodes past budget %d", added, cfg.MaxNodeChain)
	}
	for i := range alt {
		if alt[i] < before[i] {
			t.Fatalf("vertex %d lowered from %v to %v", i, before[i], alt[i])
		}
		if alt[i] > 1 {
			t.Fatalf("vertex %d raised above 1: %v", i, alt[i])
		}
	}
	if alt[0] < 1-cfg.PeakReductionFactor {
		t.Fatalf("peak not lifted: %v", alt[0])
	}
}
