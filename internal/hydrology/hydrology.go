// Package hydrology moves surface water between mesh vertices. Rain collected
// by the atmosphere settles into per-cell watertables, drains to each cell's
// lowest corner and then flows vertex to vertex as rivers, pooling into lakes
// where the terrain has no way down.
package hydrology

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"khaos-map/internal/config"
	"khaos-map/internal/core"
	"khaos-map/internal/mesh"
)

// RainSource hands over rain accumulated for a cell since the last call.
type RainSource interface {
	DrainRain(ci int) float64
}

// State holds per-vertex water and per-cell watertables.
type State struct {
	// LowestNeighbor is the strictly lower neighbour with the smallest
	// altitude, or -1 for a basin. Terrain is frozen so this never changes.
	LowestNeighbor []int
	Water          []float64
	FlowRate       []float64
	IsLake         []bool
	Watertable     []float64 // per cell

	history [][]float64
}

// Hydrology is a crawler that updates one vertex per Step.
type Hydrology struct {
	State

	mesh    *mesh.Mesh
	terrain *mesh.Terrain
	cfg     config.WaterConfig
	rain    RainSource

	cursor int
	ticks  int
}

var _ core.Crawler = (*Hydrology)(nil)

// New builds the hydrology crawler for m. rain may be nil.
func New(m *mesh.Mesh, terrain *mesh.Terrain, cfg config.WaterConfig, rain RainSource) *Hydrology {
	nv := len(m.Vertices)
	h := &Hydrology{
		State: State{
			LowestNeighbor: make([]int, nv),
			Water:          make([]float64, nv),
			FlowRate:       make([]float64, nv),
			IsLake:         make([]bool, nv),
			Watertable:     make([]float64, len(m.Cells)),
			history:        make([][]float64, nv),
		},
		mesh:    m,
		terrain: terrain,
		cfg:     cfg,
		rain:    rain,
	}
	for v := range m.Vertices {
		h.LowestNeighbor[v] = terrain.LowestNeighbor(m, v)
		h.history[v] = make([]float64, 0, cfg.FlowTicksToAve)
	}
	for ci := range h.Watertable {
		h.Watertable[ci] = cfg.SeaLevel * cfg.VolumeScale
	}
	return h
}

func (h *Hydrology) Ticks() int { return h.ticks }

// Tick finishes the current pass.
func (h *Hydrology) Tick() {
	for !h.Step() {
	}
}

// Walk steps until budget is spent or a pass completes.
func (h *Hydrology) Walk(budget time.Duration) bool { return core.Walk(budget, h.Step) }

// Step updates one vertex and reports whether the pass completed. The first
// step of a pass settles rain and drains every cell's watertable.
func (h *Hydrology) Step() bool {
	n := len(h.Water)
	if n == 0 {
		h.ticks++
		return true
	}
	if h.cursor == 0 {
		h.settle()
	}
	h.update(h.cursor)
	h.cursor++
	if h.cursor == n {
		h.cursor = 0
		h.ticks++
		return true
	}
	return false
}

// TotalWater sums the water held by vertices and watertables.
func (h *Hydrology) TotalWater() float64 {
	return floats.Sum(h.Water) + floats.Sum(h.Watertable)
}

// settle adds rain to cells above sea level and drains part of each
// watertable to the cell's lowest vertex. Lower cells drain more.
func (h *Hydrology) settle() {
	for ci := range h.Watertable {
		alt := h.terrain.CellAltitude[ci]
		if h.rain != nil {
			if r := h.rain.DrainRain(ci); alt > h.cfg.SeaLevel {
				h.Watertable[ci] += r
			}
		}
		wt := h.Watertable[ci]
		drain := math.Min(wt*(1-alt)*h.cfg.DrainRate, wt)
		if drain <= 0 {
			continue
		}
		h.Watertable[ci] -= drain
		h.Water[h.terrain.LowestRegionVertex(h.mesh, ci)] += drain
	}
}

// update moves water out of vertex v. A vertex with a strictly lower
// neighbour feeds it as a river. A basin holding more than its altitude
// threshold becomes a lake and spills half the head difference to its lowest
// neighbour, which levels the two heads instead of overshooting; the spill
// never exceeds the water present.
func (h *Hydrology) update(v int) {
	scale := h.cfg.VolumeScale
	sea := h.cfg.SeaLevel
	alt := h.terrain.VertexAltitude[v]
	gens := h.mesh.Vertices[v].Generators
	var moved float64

	for _, ci := range gens {
		wt := h.Watertable[ci]
		if wt < h.Water[v] && h.Water[v] > h.terrain.CellAltitude[ci]*scale {
			d := (h.Water[v] - wt) * h.cfg.Reabsorption
			h.Watertable[ci] += d
			h.Water[v] -= d
			moved += d
		}
	}

	if low := h.LowestNeighbor[v]; low >= 0 {
		h.IsLake[v] = false
		for _, ci := range gens {
			if h.terrain.CellAltitude[ci] < sea {
				moved += h.Water[v]
				h.Water[v] = 0
				break
			}
		}
		if d := h.Water[v] - h.Water[low]; d > 0 {
			h.Water[v] -= d
			h.Water[low] += d
			moved += d
		}
	} else if h.Water[v] > alt*scale && alt > sea {
		h.IsLake[v] = true
		if next := h.lowestAny(v); next >= 0 {
			head := h.Water[v] + alt*scale
			nextHead := h.Water[next] + h.terrain.VertexAltitude[next]*scale
			if nextHead < head {
				d := math.Min((head-nextHead)/2, h.Water[v])
				h.Water[v] -= d
				h.Water[next] += d
				moved += d
			}
		}
	} else {
		h.IsLake[v] = false
	}

	if alt > sea {
		h.record(v, moved)
		return
	}
	h.IsLake[v] = false
	h.Water[v] = sea * scale
	h.history[v] = h.history[v][:0]
	h.FlowRate[v] = 0
}

// lowestAny returns the neighbour of v with the smallest altitude, whether or
// not it is lower than v.
func (h *Hydrology) lowestAny(v int) int {
	best, bestAlt := -1, math.Inf(1)
	for _, n := range h.mesh.Vertices[v].Neighbors {
		if a := h.terrain.VertexAltitude[n]; a < bestAlt {
			best, bestAlt = n, a
		}
	}
	return best
}

// record pushes this pass's moved volume into v's window and refreshes the
// flow rate as the window mean.
func (h *Hydrology) record(v int, moved float64) {
	hist := h.history[v]
	if k := h.cfg.FlowTicksToAve; len(hist) >= k {
		copy(hist, hist[1:])
		hist = hist[:k-1]
	}
	hist = append(hist, moved)
	h.history[v] = hist
	h.FlowRate[v] = floats.Sum(hist) / float64(len(hist))
}

// RegionFlowRate returns the mean flow rate over the corners of cell ci.
func (h *Hydrology) RegionFlowRate(ci int) float64 {
	region := h.mesh.Cells[ci].Region
	var sum float64
	for _, v := range region {
		sum += h.FlowRate[v]
	}
	return sum / float64(len(region))
}

// HasLake reports whether any corner of cell ci holds a lake.
func (h *Hydrology) HasLake(ci int) bool {
	for _, v := range h.mesh.Cells[ci].Region {
		if h.IsLake[v] {
			return true
		}
	}
	return false
}
