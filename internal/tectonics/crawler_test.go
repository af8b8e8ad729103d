package tectonics

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"khaos-map/internal/config"
	"khaos-map/internal/core"
	"khaos-map/internal/mesh"
)

func flatGrid(w, h int) *core.Grid[Cell] {
	g := core.NewGrid[Cell](w, h)
	for i := range g.Cells() {
		g.Cells()[i] = Cell{Density: 0.5, Altitude: 0.3}
	}
	return g
}

func TestCollisionWithEqualDensityBuckles(t *testing.T) {
	tests := []struct {
		density, speed float64
	}{
		{0.5, 0.5},
		{0.3, 0.3},
		{0.2, 0.2},
		{0.8, 0.9},
	}
	cfg := config.Default().Deform
	cfg.WrapHorizontal = false
	for _, tt := range tests {
		alt := 1 - tt.density
		g := core.NewGrid[Cell](2, 1)
		*g.At(0, 0) = Cell{Density: tt.density, Altitude: alt, Vector: mgl64.Vec2{tt.speed, 0}}
		*g.At(1, 0) = Cell{Density: tt.density, Altitude: alt, Vector: mgl64.Vec2{-tt.speed, 0}}

		c := NewDeformCrawler(g, cfg, core.NewRNG(1))
		c.Sweep()

		for x := 0; x < 2; x++ {
			got := c.Grid().At(x, 0).Altitude
			if got <= alt {
				t.Fatalf("density %v speed %v: cell %d should have buckled upwards from %v, got %v", tt.density, tt.speed, x, alt, got)
			}
			if got > 1 {
				t.Fatalf("cell %d altitude %v exceeds 1", x, got)
			}
		}
	}
}

func TestBuckleGain(t *testing.T) {
	if g := buckleGain(1, 0.5); g != 0.25 {
		t.Fatalf("slow collision gain %v, want 0.25", g)
	}
	if g := buckleGain(2, 0.1); g < 1.8-1e-12 || g > 1.8+1e-12 {
		t.Fatalf("fast collision gain %v, want 1.8", g)
	}
	if g := buckleGain(0.4, 0.8); g <= 0 {
		t.Fatalf("closing cells must gain altitude, got %v", g)
	}
}

func TestCollisionWithDifferentDensitySubducts(t *testing.T) {
	g := flatGrid(2, 1)
	g.At(0, 0).Vector = mgl64.Vec2{0.5, 0}
	g.At(0, 0).Density = 0.9
	g.At(1, 0).Vector = mgl64.Vec2{-0.5, 0}
	g.At(1, 0).Density = 0.1

	cfg := config.Default().Deform
	cfg.WrapHorizontal = false
	c := NewDeformCrawler(g, cfg, core.NewRNG(1))
	c.Sweep()

	dense := c.Grid().At(0, 0).Altitude
	light := c.Grid().At(1, 0).Altitude
	if dense >= 0.3 || light <= 0.3 {
		t.Fatalf("expected the dense cell to sink and the light cell to rise, got %v and %v", dense, light)
	}
	if d := (0.3 - dense) - (light - 0.3); d > 1e-12 || d < -1e-12 {
		t.Fatalf("subduction should move altitude, not create it: lost %v gained %v", 0.3-dense, light-0.3)
	}
}

func TestSourceIsReadOnlyDuringSweep(t *testing.T) {
	g := NewGrid(8, 8, 4, core.NewRNG(2))
	before := g.Clone()
	c := NewDeformCrawler(g, config.Default().Deform, core.NewRNG(3))
	for i := 0; i < 8*8-1; i++ {
		if c.Step() {
			t.Fatalf("sweep finished early at step %d", i)
		}
	}
	for i, cell := range c.Grid().Cells() {
		if cell != before.Cells()[i] {
			t.Fatalf("source cell %d changed mid-sweep", i)
		}
	}
	if !c.Step() {
		t.Fatalf("expected the final step to finish the sweep")
	}
	if c.Sweeps() != 1 {
		t.Fatalf("expected one sweep, got %d", c.Sweeps())
	}
}

func TestInvariantsHoldOverManySweeps(t *testing.T) {
	cfg := config.Default().Deform
	cfg.Speed = 0.5
	for seed := int64(0); seed < 5; seed++ {
		c := NewDeformCrawler(NewGrid(12, 10, 5, core.NewRNG(seed)), cfg, core.NewRNG(seed))
		for s := 0; s < 20; s++ {
			c.Sweep()
			for i, cell := range c.Grid().Cells() {
				if cell.Altitude < 0 || cell.Altitude > 1 {
					t.Fatalf("seed %d sweep %d cell %d altitude %v", seed, s, i, cell.Altitude)
				}
				if cell.Density < 0 || cell.Density > 1 {
					t.Fatalf("seed %d sweep %d cell %d density %v", seed, s, i, cell.Density)
				}
				if cell.Vector.Len() > 1+1e-9 {
					t.Fatalf("seed %d sweep %d cell %d vector length %v", seed, s, i, cell.Vector.Len())
				}
			}
		}
	}
}

func TestWalkCompletesSweepWithinGenerousBudget(t *testing.T) {
	c := NewDeformCrawler(NewGrid(6, 6, 3, core.NewRNG(4)), config.Default().Deform, core.NewRNG(4))
	if !c.Walk(10 * time.Second) {
		t.Fatalf("expected a sweep to finish within the budget")
	}
	if c.Walk(0) {
		t.Fatalf("a zero budget should not complete a sweep")
	}
}

func TestNewGridAltitudeMirrorsDensity(t *testing.T) {
	g := NewGrid(10, 10, 6, core.NewRNG(5))
	for i, cell := range g.Cells() {
		if d := cell.Altitude - (1 - cell.Density); d > 1e-12 || d < -1e-12 {
			t.Fatalf("cell %d altitude %v density %v", i, cell.Altitude, cell.Density)
		}
		if cell.Vector.Len() > 1 {
			t.Fatalf("cell %d vector too long: %v", i, cell.Vector.Len())
		}
	}
}

func TestResampleMapsCoordinates(t *testing.T) {
	m, err := mesh.Build([]mgl64.Vec2{{-0.5, -0.5}, {0.5, -0.5}, {0.5, 0.5}, {-0.5, 0.5}}, 0)
	if err != nil {
		t.Fatalf("build mesh: %v", err)
	}
	g := core.NewGrid[Cell](4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			g.At(x, y).Altitude = float64(y*4+x) / 16
		}
	}
	alt := Resample(g, m)
	for vi, v := range m.Vertices {
		x := gridIndex(v.Pos.X(), 4)
		y := gridIndex(v.Pos.Y(), 4)
		if alt[vi] != g.At(x, y).Altitude {
			t.Fatalf("vertex %d sampled %v want %v", vi, alt[vi], g.At(x, y).Altitude)
		}
	}
	if gridIndex(-1, 4) != 0 || gridIndex(1, 4) != 3 || gridIndex(3, 4) != 3 || gridIndex(-0.01, 4) != 1 {
		t.Fatalf("unexpected index mapping")
	}
}
