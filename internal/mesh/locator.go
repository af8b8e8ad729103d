package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Locator answers nearest-cell queries with a uniform bucket grid over the
// generator bounds.
type Locator struct {
	mesh       *Mesh
	minX, minY float64
	cellSize   float64
	gridW      int
	gridH      int
	buckets    [][]int
}

// NewLocator buckets every cell generator of m.
func NewLocator(m *Mesh) *Locator {
	l := &Locator{mesh: m}
	if len(m.Cells) == 0 {
		return l
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range m.Cells {
		minX = math.Min(minX, c.Pos.X())
		minY = math.Min(minY, c.Pos.Y())
		maxX = math.Max(maxX, c.Pos.X())
		maxY = math.Max(maxY, c.Pos.Y())
	}
	side := int(math.Ceil(math.Sqrt(float64(len(m.Cells)))))
	span := math.Max(maxX-minX, maxY-minY)
	if span <= 0 {
		span = 1
	}
	l.minX, l.minY = minX, minY
	l.cellSize = span / float64(side)
	l.gridW = int((maxX-minX)/l.cellSize) + 1
	l.gridH = int((maxY-minY)/l.cellSize) + 1
	l.buckets = make([][]int, l.gridW*l.gridH)
	for i, c := range m.Cells {
		bx, by := l.bucket(c.Pos)
		l.buckets[by*l.gridW+bx] = append(l.buckets[by*l.gridW+bx], i)
	}
	return l
}

func (l *Locator) bucket(p mgl64.Vec2) (int, int) {
	bx := int((p.X() - l.minX) / l.cellSize)
	by := int((p.Y() - l.minY) / l.cellSize)
	if bx < 0 {
		bx = 0
	} else if bx >= l.gridW {
		bx = l.gridW - 1
	}
	if by < 0 {
		by = 0
	} else if by >= l.gridH {
		by = l.gridH - 1
	}
	return bx, by
}

// Nearest returns the index of the cell whose generator is closest to p, or
// -1 for an empty mesh.
func (l *Locator) Nearest(p mgl64.Vec2) int {
	if len(l.buckets) == 0 {
		return -1
	}
	bx, by := l.bucket(p)
	best, bestDist := -1, math.Inf(1)
	maxRing := l.gridW
	if l.gridH > maxRing {
		maxRing = l.gridH
	}
	for r := 0; r <= maxRing; r++ {
		for y := by - r; y <= by+r; y++ {
			for x := bx - r; x <= bx+r; x++ {
				if x < 0 || y < 0 || x >= l.gridW || y >= l.gridH {
					continue
				}
				if r > 0 && x != bx-r && x != bx+r && y != by-r && y != by+r {
					continue
				}
				for _, ci := range l.buckets[y*l.gridW+x] {
					d := l.mesh.Cells[ci].Pos.Sub(p).Len()
					if d < bestDist || (d == bestDist && ci < best) {
						best, bestDist = ci, d
					}
				}
			}
		}
		// Anything in ring r+1 is at least r*cellSize away from p's bucket.
		if best >= 0 && float64(r)*l.cellSize >= bestDist {
			break
		}
	}
	return best
}
