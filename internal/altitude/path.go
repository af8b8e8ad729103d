package altitude

import "khaos-map/internal/mesh"

// Path is an ordered walk over mesh vertices. It is used while growing
// mountain ridges and discarded once altitude generation finishes.
type Path struct {
	Nodes    []int
	Distance float64
	Depth    int
	Open     bool
}

// NewPath starts an open path at vertex start.
func NewPath(start int) *Path {
	return &Path{Nodes: []int{start}, Open: true}
}

// Tail returns the most recently added vertex.
func (p *Path) Tail() int { return p.Nodes[len(p.Nodes)-1] }

// Len returns the number of vertices on the path.
func (p *Path) Len() int { return len(p.Nodes) }

// Close marks the path as finished.
func (p *Path) Close() { p.Open = false }

// AddNext appends v and accumulates the distance travelled.
func (p *Path) AddNext(m *mesh.Mesh, v int) {
	p.Distance += m.VertexDistance(p.Tail(), v)
	p.Nodes = append(p.Nodes, v)
}
