package mesh

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// triangle references three site indices in counter-clockwise order.
type triangle struct{ a, b, c int }

func (t triangle) edges() [3]edgeKey {
	return [3]edgeKey{makeEdgeKey(t.a, t.b), makeEdgeKey(t.b, t.c), makeEdgeKey(t.c, t.a)}
}

// edgeKey is a canonical representation of an edge (smaller index first).
type edgeKey struct{ a, b int }

func makeEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// orientation returns positive if p is left of a->b, negative if right and
// zero if the three points are collinear.
func orientation(a, b, p mgl64.Vec2) float64 {
	return (b.X()-a.X())*(p.Y()-a.Y()) - (b.Y()-a.Y())*(p.X()-a.X())
}

// inCircumcircle reports whether p lies strictly inside the circumcircle of
// the counter-clockwise triangle (a, b, c).
func inCircumcircle(a, b, c, p mgl64.Vec2) bool {
	ax, ay := a.X()-p.X(), a.Y()-p.Y()
	bx, by := b.X()-p.X(), b.Y()-p.Y()
	cx, cy := c.X()-p.X(), c.Y()-p.Y()

	det := (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)
	return det > 0
}

// circumcenter returns the circumcenter of triangle (a, b, c). ok is false
// when the triangle is degenerate.
func circumcenter(a, b, c mgl64.Vec2) (cc mgl64.Vec2, ok bool) {
	d := 2 * (a.X()*(b.Y()-c.Y()) + b.X()*(c.Y()-a.Y()) + c.X()*(a.Y()-b.Y()))
	const eps = 1e-12
	if math.Abs(d) < eps {
		return mgl64.Vec2{}, false
	}
	a2 := a.Dot(a)
	b2 := b.Dot(b)
	c2 := c.Dot(c)
	ux := (a2*(b.Y()-c.Y()) + b2*(c.Y()-a.Y()) + c2*(a.Y()-b.Y())) / d
	uy := (a2*(c.X()-b.X()) + b2*(a.X()-c.X()) + c2*(b.X()-a.X())) / d
	return mgl64.Vec2{ux, uy}, true
}

func ccw(pts []mgl64.Vec2, a, b, c int) triangle {
	if orientation(pts[a], pts[b], pts[c]) < 0 {
		return triangle{a, c, b}
	}
	return triangle{a, b, c}
}

// triangulate computes the Delaunay triangulation of pts with the
// Bowyer-Watson algorithm. Triangles touching the temporary super-triangle
// are dropped from the result. Duplicate points are reported as errors.
func triangulate(pts []mgl64.Vec2) ([]triangle, error) {
	if len(pts) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 points, got %d", ErrDegenerateTriangle, len(pts))
	}
	seen := make(map[mgl64.Vec2]int, len(pts))
	for i, p := range pts {
		if j, ok := seen[p]; ok {
			return nil, fmt.Errorf("%w: points %d and %d at (%g, %g)", ErrDuplicatePoint, j, i, p.X(), p.Y())
		}
		seen[p] = i
	}

	minX, maxX := pts[0].X(), pts[0].X()
	minY, maxY := pts[0].Y(), pts[0].Y()
	for _, p := range pts {
		minX = math.Min(minX, p.X())
		maxX = math.Max(maxX, p.X())
		minY = math.Min(minY, p.Y())
		maxY = math.Max(maxY, p.Y())
	}
	deltaMax := math.Max(maxX-minX, maxY-minY)
	midX := (minX + maxX) / 2
	midY := (minY + maxY) / 2

	n := len(pts)
	all := make([]mgl64.Vec2, n+3)
	copy(all, pts)
	all[n] = mgl64.Vec2{midX - 20*deltaMax, midY - deltaMax}
	all[n+1] = mgl64.Vec2{midX + 20*deltaMax, midY - deltaMax}
	all[n+2] = mgl64.Vec2{midX, midY + 20*deltaMax}

	tris := make([]triangle, 1, 2*n+1)
	tris[0] = ccw(all, n, n+1, n+2)

	for i := 0; i < n; i++ {
		p := all[i]
		var bad []int
		edgeCount := make(map[edgeKey]int)
		for ti, t := range tris {
			if inCircumcircle(all[t.a], all[t.b], all[t.c], p) {
				bad = append(bad, ti)
				for _, e := range t.edges() {
					edgeCount[e]++
				}
			}
		}
		if len(bad) == 0 {
			return nil, fmt.Errorf("%w: point %d is not enclosed by any triangle", ErrDegenerateTriangle, i)
		}

		// Boundary edges of the cavity are collected in triangle order so the
		// output is independent of map iteration.
		var boundary [][2]int
		for _, ti := range bad {
			t := tris[ti]
			for _, uv := range [3][2]int{{t.a, t.b}, {t.b, t.c}, {t.c, t.a}} {
				if edgeCount[makeEdgeKey(uv[0], uv[1])] == 1 {
					boundary = append(boundary, uv)
				}
			}
		}

		kept := tris[:0]
		bi := 0
		for ti, t := range tris {
			if bi < len(bad) && bad[bi] == ti {
				bi++
				continue
			}
			kept = append(kept, t)
		}
		tris = kept

		for _, uv := range boundary {
			if math.Abs(orientation(all[uv[0]], all[uv[1]], p)) < 1e-14 {
				return nil, fmt.Errorf("%w: point %d is collinear with %d and %d", ErrDegenerateTriangle, i, uv[0], uv[1])
			}
			tris = append(tris, ccw(all, uv[0], uv[1], i))
		}
	}

	out := tris[:0]
	for _, t := range tris {
		if t.a >= n || t.b >= n || t.c >= n {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
