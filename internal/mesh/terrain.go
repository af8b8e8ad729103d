package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Terrain holds per-vertex altitude and the derived per-cell altitude. Cell
// altitude is always the mean of the cell's region vertices and is only
// written by Refresh.
type Terrain struct {
	VertexAltitude []float64
	CellAltitude   []float64
}

// NewTerrain wraps vertexAltitude (one entry per mesh vertex) and derives the
// cell altitudes from it.
func NewTerrain(m *Mesh, vertexAltitude []float64) (*Terrain, error) {
	if len(vertexAltitude) != len(m.Vertices) {
		return nil, fmt.Errorf("terrain: got %d altitudes for %d vertices", len(vertexAltitude), len(m.Vertices))
	}
	t := &Terrain{
		VertexAltitude: vertexAltitude,
		CellAltitude:   make([]float64, len(m.Cells)),
	}
	t.Refresh(m)
	return t, nil
}

// Refresh recomputes every cell altitude from the vertex altitudes.
func (t *Terrain) Refresh(m *Mesh) {
	buf := make([]float64, 0, 8)
	for ci, c := range m.Cells {
		buf = buf[:0]
		for _, vi := range c.Region {
			buf = append(buf, t.VertexAltitude[vi])
		}
		t.CellAltitude[ci] = stat.Mean(buf, nil)
	}
}

// LowestNeighbor returns the strictly lower neighbour of vertex v with the
// smallest altitude, or -1 when v is a local basin.
func (t *Terrain) LowestNeighbor(m *Mesh, v int) int {
	best := -1
	bestAlt := t.VertexAltitude[v]
	for _, n := range m.Vertices[v].Neighbors {
		if t.VertexAltitude[n] < bestAlt {
			best, bestAlt = n, t.VertexAltitude[n]
		}
	}
	return best
}

// LowestRegionVertex returns the lowest vertex of cell c's region.
func (t *Terrain) LowestRegionVertex(m *Mesh, c int) int {
	region := m.Cells[c].Region
	best := region[0]
	for _, vi := range region[1:] {
		if t.VertexAltitude[vi] < t.VertexAltitude[best] {
			best = vi
		}
	}
	return best
}
