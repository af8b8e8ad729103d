package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Sigmoid evaluates the logistic function 1 / (1 + e^(-slope*(x-offset))).
func Sigmoid(x, slope, offset float64) float64 {
	return 1 / (1 + math.Exp(-slope*(x-offset)))
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 bounds v to [0, 1].
func Clamp01(v float64) float64 { return Clamp(v, 0, 1) }

// ClampLen shortens v to maxLen when it is longer.
func ClampLen(v mgl64.Vec2, maxLen float64) mgl64.Vec2 {
	l := v.Len()
	if l <= maxLen || l == 0 {
		return v
	}
	return v.Mul(maxLen / l)
}

// WithLen returns v rescaled to the given length. The zero vector stays zero.
func WithLen(v mgl64.Vec2, length float64) mgl64.Vec2 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(length / l)
}

// Reflect mirrors v about the line orthogonal to normal, i.e. the direction a
// vector takes after bouncing off a surface with that normal.
func Reflect(v, normal mgl64.Vec2) mgl64.Vec2 {
	l := normal.Len()
	if l == 0 {
		return v
	}
	n := normal.Mul(1 / l)
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// AngleBetween returns the absolute difference between two angles, wrapped to
// [0, pi].
func AngleBetween(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

// Heading returns the angle of v in radians.
func Heading(v mgl64.Vec2) float64 { return math.Atan2(v.Y(), v.X()) }

// Dir is a cardinal direction on a grid whose y axis points south.
type Dir struct{ X, Y int }

var (
	East  = Dir{1, 0}
	West  = Dir{-1, 0}
	South = Dir{0, 1}
	North = Dir{0, -1}
)

// Cardinal reduces v to the cardinal direction of its dominant axis. Ties and
// the zero vector resolve to the vertical axis.
func Cardinal(v mgl64.Vec2) Dir {
	if math.Abs(v.X()) > math.Abs(v.Y()) {
		if v.X() > 0 {
			return East
		}
		return West
	}
	if v.Y() > 0 {
		return South
	}
	return North
}

// SameAxis reports whether two cardinal directions share an axis, i.e. they
// are equal or polar opposites.
func (d Dir) SameAxis(o Dir) bool { return d.X == o.X || d.Y == o.Y }

// Vec converts the direction into a unit vector.
func (d Dir) Vec() mgl64.Vec2 { return mgl64.Vec2{float64(d.X), float64(d.Y)} }
