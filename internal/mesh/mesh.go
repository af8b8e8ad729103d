// Package mesh builds the Voronoi region graph the simulation runs on. Cells
// are Voronoi regions around generator points, Vertices are the region
// corners, and every relation between them is an index into the flat arenas.
package mesh

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"khaos-map/internal/config"
	"khaos-map/internal/core"
)

var (
	// ErrDegenerateRegion reports a region with fewer than three vertices.
	ErrDegenerateRegion = errors.New("mesh: degenerate region")
	// ErrIsolatedVertex reports a vertex without any neighbour.
	ErrIsolatedVertex = errors.New("mesh: isolated vertex")
	// ErrDuplicatePoint reports coincident generator points.
	ErrDuplicatePoint = errors.New("mesh: duplicate point")
	// ErrDegenerateTriangle reports collinear or otherwise unusable input.
	ErrDegenerateTriangle = errors.New("mesh: degenerate triangle")
)

// anchors bound the diagram so every interior region is closed. The mid-side
// anchors sit further out than the corners to keep the hull free of collinear
// triples.
var anchors = []mgl64.Vec2{
	{-2, -2}, {2, -2}, {2, 2}, {-2, 2},
	{2.5, 0}, {-2.5, 0}, {0, 2.5}, {0, -2.5},
}

// Cell is a Voronoi region around a generator point.
type Cell struct {
	Pos          mgl64.Vec2
	Region       []int // vertex indices sorted by angle around Pos
	Neighbors    []int
	NeighborDist []float64
}

// Vertex is a region corner shared by up to three cells.
type Vertex struct {
	Pos          mgl64.Vec2
	Neighbors    []int
	NeighborDist []float64
	Generators   []int // cells whose region lists this vertex
}

// Mesh holds the immutable topology of a map.
type Mesh struct {
	Cells    []Cell
	Vertices []Vertex
	// FarX and FarY are the largest absolute generator coordinates.
	FarX, FarY float64
}

// Generate draws cfg.TotalCells uniform points in [-1,1]^2 and builds a mesh
// from them.
func Generate(cfg config.MeshConfig, rng *core.RNG) (*Mesh, error) {
	points := make([]mgl64.Vec2, cfg.TotalCells)
	for i := range points {
		points[i] = mgl64.Vec2{rng.Between(-1, 1), rng.Between(-1, 1)}
	}
	return Build(points, cfg.RelaxPasses)
}

// Build triangulates points, applies relaxPasses Lloyd passes and
// instantiates the cell and vertex arenas. The input slice is not modified.
func Build(points []mgl64.Vec2, relaxPasses int) (*Mesh, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no points", ErrDegenerateRegion)
	}
	sites := make([]mgl64.Vec2, 0, len(points)+len(anchors))
	sites = append(sites, points...)
	sites = append(sites, anchors...)

	d, err := newDiagram(sites, len(points))
	if err != nil {
		return nil, err
	}
	for pass := 0; pass < relaxPasses; pass++ {
		if d, err = d.relax(); err != nil {
			return nil, fmt.Errorf("relax pass %d: %w", pass, err)
		}
	}
	return d.instantiate()
}

// diagram is the intermediate Delaunay/Voronoi pair used while relaxing.
type diagram struct {
	sites    []mgl64.Vec2
	interior int // sites[:interior] are generators, the rest anchors
	tris     []triangle
	centers  []mgl64.Vec2
	regions  [][]int // triangle indices around each interior site, angle sorted
}

func newDiagram(sites []mgl64.Vec2, interior int) (*diagram, error) {
	tris, err := triangulate(sites)
	if err != nil {
		return nil, err
	}
	d := &diagram{
		sites:    sites,
		interior: interior,
		tris:     tris,
		centers:  make([]mgl64.Vec2, len(tris)),
		regions:  make([][]int, interior),
	}
	for ti, t := range tris {
		cc, ok := circumcenter(sites[t.a], sites[t.b], sites[t.c])
		if !ok {
			return nil, fmt.Errorf("%w: triangle %d (%d, %d, %d)", ErrDegenerateTriangle, ti, t.a, t.b, t.c)
		}
		d.centers[ti] = cc
		for _, s := range [3]int{t.a, t.b, t.c} {
			if s < interior {
				d.regions[s] = append(d.regions[s], ti)
			}
		}
	}
	for s, region := range d.regions {
		if len(region) < 3 {
			return nil, fmt.Errorf("%w: site %d has %d vertices", ErrDegenerateRegion, s, len(region))
		}
		center := sites[s]
		sort.SliceStable(region, func(i, j int) bool {
			return core.Heading(d.centers[region[i]].Sub(center)) < core.Heading(d.centers[region[j]].Sub(center))
		})
	}
	return d, nil
}

// relax moves every interior site towards the centroid of its region's
// vertices and rebuilds the diagram. Anchors stay fixed. A centroid outside
// [-1,1]^2 is pulled back along the segment from the old site, which keeps
// the site inside its own region, so no two sites can coincide.
func (d *diagram) relax() (*diagram, error) {
	next := make([]mgl64.Vec2, len(d.sites))
	copy(next, d.sites)
	for s, region := range d.regions {
		var sum mgl64.Vec2
		for _, ti := range region {
			sum = sum.Add(d.centers[ti])
		}
		next[s] = clipToUnit(d.sites[s], sum.Mul(1/float64(len(region))))
	}
	return newDiagram(next, d.interior)
}

// clipToUnit returns the point on the segment from old to c closest to c
// that lies inside [-1,1]^2. A site that starts outside the square is not
// moved further out.
func clipToUnit(old, c mgl64.Vec2) mgl64.Vec2 {
	t := 1.0
	for axis := 0; axis < 2; axis++ {
		delta := c[axis] - old[axis]
		switch {
		case c[axis] > 1:
			t = math.Min(t, (1-old[axis])/delta)
		case c[axis] < -1:
			t = math.Min(t, (-1-old[axis])/delta)
		}
	}
	if t >= 1 {
		return c
	}
	if t <= 0 {
		return old
	}
	return old.Add(c.Sub(old).Mul(t))
}

// instantiate converts the diagram into Cell and Vertex arenas, dropping the
// anchors and every triangle that touches only anchors.
func (d *diagram) instantiate() (*Mesh, error) {
	vertexOf := make([]int, len(d.tris))
	m := &Mesh{Cells: make([]Cell, d.interior)}
	for ti, t := range d.tris {
		vertexOf[ti] = -1
		if t.a >= d.interior && t.b >= d.interior && t.c >= d.interior {
			continue
		}
		vertexOf[ti] = len(m.Vertices)
		v := Vertex{Pos: d.centers[ti]}
		for _, s := range [3]int{t.a, t.b, t.c} {
			if s < d.interior {
				v.Generators = append(v.Generators, s)
			}
		}
		m.Vertices = append(m.Vertices, v)
	}

	for s := range m.Cells {
		c := &m.Cells[s]
		c.Pos = d.sites[s]
		c.Region = make([]int, len(d.regions[s]))
		for i, ti := range d.regions[s] {
			c.Region[i] = vertexOf[ti]
		}
		m.FarX = math.Max(m.FarX, math.Abs(c.Pos.X()))
		m.FarY = math.Max(m.FarY, math.Abs(c.Pos.Y()))
	}

	// Vertex links follow shared triangle edges, cell links follow Delaunay
	// edges between two generators.
	edgeTris := make(map[edgeKey][]int, len(d.tris)*3/2)
	for ti, t := range d.tris {
		for _, e := range t.edges() {
			edgeTris[e] = append(edgeTris[e], ti)
		}
	}
	linkedCells := make(map[edgeKey]bool)
	for ti, t := range d.tris {
		for _, e := range t.edges() {
			if e.b < d.interior && !linkedCells[e] {
				linkedCells[e] = true
				m.linkCells(e.a, e.b)
			}
			for _, other := range edgeTris[e] {
				if other <= ti || vertexOf[ti] < 0 || vertexOf[other] < 0 {
					continue
				}
				m.linkVertices(vertexOf[ti], vertexOf[other])
			}
		}
	}

	for i, v := range m.Vertices {
		if len(v.Neighbors) == 0 {
			return nil, fmt.Errorf("%w: vertex %d at (%g, %g)", ErrIsolatedVertex, i, v.Pos.X(), v.Pos.Y())
		}
	}
	return m, nil
}

func (m *Mesh) linkCells(a, b int) {
	dist := m.Cells[a].Pos.Sub(m.Cells[b].Pos).Len()
	m.Cells[a].Neighbors = append(m.Cells[a].Neighbors, b)
	m.Cells[a].NeighborDist = append(m.Cells[a].NeighborDist, dist)
	m.Cells[b].Neighbors = append(m.Cells[b].Neighbors, a)
	m.Cells[b].NeighborDist = append(m.Cells[b].NeighborDist, dist)
}

func (m *Mesh) linkVertices(a, b int) {
	dist := m.Vertices[a].Pos.Sub(m.Vertices[b].Pos).Len()
	m.Vertices[a].Neighbors = append(m.Vertices[a].Neighbors, b)
	m.Vertices[a].NeighborDist = append(m.Vertices[a].NeighborDist, dist)
	m.Vertices[b].Neighbors = append(m.Vertices[b].Neighbors, a)
	m.Vertices[b].NeighborDist = append(m.Vertices[b].NeighborDist, dist)
}

// VertexDistance returns the Euclidean distance between two vertices.
func (m *Mesh) VertexDistance(a, b int) float64 {
	return m.Vertices[a].Pos.Sub(m.Vertices[b].Pos).Len()
}
