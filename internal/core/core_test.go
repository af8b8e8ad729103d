package core

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// fakeClock advances by tick on every read.
func fakeClock(t *testing.T, tick time.Duration) {
	t.Helper()
	var current time.Time
	now = func() time.Time {
		current = current.Add(tick)
		return current
	}
	t.Cleanup(func() { now = time.Now })
}

func TestWalkStopsWhenBudgetSpent(t *testing.T) {
	fakeClock(t, time.Millisecond)
	calls := 0
	done := Walk(10*time.Millisecond, func() bool {
		calls++
		return false
	})
	if done {
		t.Fatal("walk reported a completed pass")
	}
	if calls == 0 || calls > 10 {
		t.Fatalf("unexpected step count %d", calls)
	}
}

func TestWalkReturnsOnCompletedPass(t *testing.T) {
	fakeClock(t, time.Millisecond)
	calls := 0
	done := Walk(time.Hour, func() bool {
		calls++
		return calls == 3
	})
	if !done || calls != 3 {
		t.Fatalf("done=%v calls=%d, want true after 3 calls", done, calls)
	}
	if Walk(0, func() bool { t.Fatal("zero budget must not step"); return true }) {
		t.Fatal("zero budget reported completion")
	}
}

func TestFixedStep(t *testing.T) {
	fakeClock(t, 10*time.Millisecond)
	fs := NewFixedStep(50)
	if fs.Interval() != 20*time.Millisecond {
		t.Fatalf("interval %v", fs.Interval())
	}
	if !fs.ShouldStep() {
		t.Fatal("first call should step")
	}
	steps := 0
	for i := 0; i < 10; i++ {
		if fs.ShouldStep() {
			steps++
		}
	}
	if steps != 5 {
		t.Fatalf("got %d steps over 100ms at 50 TPS, want 5", steps)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry[func() int]()
	r.Register("b", func() int { return 2 })
	r.Register("a", func() int { return 1 })
	r.Register("", func() int { return 0 })
	if got := r.Names(); !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("names %v", got)
	}
	f, ok := r.Lookup("b")
	if !ok || f() != 2 {
		t.Fatal("lookup b failed")
	}
	if _, ok := r.Lookup("c"); ok {
		t.Fatal("lookup of unknown name succeeded")
	}
}

func TestGridWrapAndClone(t *testing.T) {
	g := NewGrid[int](4, 3)
	*g.At(3, 2) = 7
	if x, y := g.Wrap(4, -1); x != 0 || y != 2 {
		t.Fatalf("wrap gave (%d, %d)", x, y)
	}
	if g.Contains(4, 0) || !g.Contains(3, 2) {
		t.Fatal("contains is wrong at the edges")
	}
	c := g.Clone()
	*c.At(3, 2) = 1
	if *g.At(3, 2) != 7 {
		t.Fatal("clone shares storage")
	}
	if g.Size() != (Size{W: 4, H: 3}) || g.Index(1, 2) != 9 {
		t.Fatal("size or index mismatch")
	}
}

func TestCardinalAndAxes(t *testing.T) {
	tests := []struct {
		v    mgl64.Vec2
		want Dir
	}{
		{mgl64.Vec2{1, 0.5}, East},
		{mgl64.Vec2{-1, 0.5}, West},
		{mgl64.Vec2{0.2, 1}, South},
		{mgl64.Vec2{0.2, -1}, North},
		{mgl64.Vec2{}, North},
		{mgl64.Vec2{1, 1}, South},
	}
	for _, tt := range tests {
		if got := Cardinal(tt.v); got != tt.want {
			t.Fatalf("Cardinal(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
	if !East.SameAxis(West) || East.SameAxis(North) || !South.SameAxis(South) {
		t.Fatal("SameAxis is wrong")
	}
}

func TestVectorHelpers(t *testing.T) {
	if got := AngleBetween(0.1, 2*math.Pi-0.1); math.Abs(got-0.2) > 1e-12 {
		t.Fatalf("AngleBetween wraps to %v, want 0.2", got)
	}
	if got := Reflect(mgl64.Vec2{1, -1}, mgl64.Vec2{0, 2}); !got.ApproxEqual(mgl64.Vec2{1, 1}) {
		t.Fatalf("Reflect gave %v", got)
	}
	if got := ClampLen(mgl64.Vec2{3, 4}, 1); math.Abs(got.Len()-1) > 1e-12 {
		t.Fatalf("ClampLen gave length %v", got.Len())
	}
	if got := WithLen(mgl64.Vec2{}, 5); got != (mgl64.Vec2{}) {
		t.Fatalf("WithLen of zero gave %v", got)
	}
	if Sigmoid(0.5, 6, 0.5) != 0.5 {
		t.Fatal("sigmoid midpoint")
	}
}

func TestRNGDeterministic(t *testing.T) {
	a, b := NewRNG(5), NewRNG(5)
	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() {
			t.Fatal("identical seeds diverged")
		}
	}
	r := NewRNG(1)
	for i := 0; i < 200; i++ {
		if v := r.IntRange(3, 5); v < 3 || v > 5 {
			t.Fatalf("IntRange out of bounds: %d", v)
		}
		if v := r.Between(-1, 1); v < -1 || v >= 1 {
			t.Fatalf("Between out of bounds: %v", v)
		}
	}
	if r.IntN(0) != 0 {
		t.Fatal("IntN(0) should be 0")
	}
}

func TestParameterSnapshotLookup(t *testing.T) {
	s := ParameterSnapshot{Groups: []ParameterGroup{
		{Name: "a", Params: []Parameter{{Key: "x", Value: "1"}}},
		{Name: "b", Params: []Parameter{{Key: "y", Value: "2"}}},
	}}
	if p, ok := s.Lookup("y"); !ok || p.Value != "2" {
		t.Fatalf("lookup y: %+v %v", p, ok)
	}
	if _, ok := s.Lookup("z"); ok {
		t.Fatal("lookup of missing key succeeded")
	}
}
