// Package altitude implements the ridge pathfinding altitude strategy: tilted
// tectonic plates projected onto the mesh, snapshot smoothing, and forking
// mountain ridges grown from the resulting peaks.
package altitude

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"khaos-map/internal/config"
	"khaos-map/internal/core"
	"khaos-map/internal/mesh"
)

// ErrEmptyMesh is returned when altitude is requested for a mesh without vertices.
var ErrEmptyMesh = errors.New("altitude: mesh has no vertices")

// Generate runs the whole ridge strategy and returns one altitude per vertex.
func Generate(m *mesh.Mesh, cfg config.Config, rng *core.RNG, logger *slog.Logger) ([]float64, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(m.Vertices) == 0 {
		return nil, ErrEmptyMesh
	}
	if cfg.Tectonics.PlatesMax <= cfg.Tectonics.PlatesMin {
		return nil, fmt.Errorf("altitude: plate range [%d,%d) is empty", cfg.Tectonics.PlatesMin, cfg.Tectonics.PlatesMax)
	}

	centers := PlateCenters(m, cfg.Tectonics, rng)
	slopes := PlateSlopes(len(centers), rng)
	logger.Debug("plates placed", "count", len(centers))

	alt := Project(m, centers, slopes, cfg.Tectonics.Midpoint)
	for i := 0; i < cfg.Tectonics.SmoothingRepetitions; i++ {
		alt = Smooth(m, alt, cfg.Tectonics.SmoothingResolution)
	}

	peaks := Peaks(m, alt)
	ridges := GrowRidges(m, alt, peaks, cfg.Mountains, rng)
	nodes := 0
	for _, r := range ridges {
		nodes += r.Len()
	}
	logger.Debug("ridges grown", "peaks", len(peaks), "branches", len(ridges), "nodes", nodes)
	return alt, nil
}

// PlateCenters picks plate centre vertices. The count is drawn from
// [PlatesMin, PlatesMax). Each centre is re-drawn while it sits closer than
// MinDist to an accepted centre; once AttemptsToPlace draws are spent the
// candidate with the largest clearance is accepted.
func PlateCenters(m *mesh.Mesh, cfg config.TectonicsConfig, rng *core.RNG) []int {
	count := cfg.PlatesMin
	if cfg.PlatesMax > cfg.PlatesMin {
		count = cfg.PlatesMin + rng.IntN(cfg.PlatesMax-cfg.PlatesMin)
	}
	centers := make([]int, 0, count)
	clearance := func(v int) float64 {
		best := math.Inf(1)
		for _, c := range centers {
			best = math.Min(best, m.VertexDistance(v, c))
		}
		return best
	}
	for len(centers) < count {
		best := rng.IntN(len(m.Vertices))
		bestClear := clearance(best)
		for attempt := 1; bestClear < cfg.MinDist && attempt < cfg.AttemptsToPlace; attempt++ {
			cand := rng.IntN(len(m.Vertices))
			if c := clearance(cand); c > bestClear {
				best, bestClear = cand, c
			}
		}
		centers = append(centers, best)
	}
	return centers
}

// PlateSlopes returns one random planar slope per plate. Each component is in
// (-1, 1); a single draw picks the quadrant.
func PlateSlopes(n int, rng *core.RNG) []mgl64.Vec2 {
	slopes := make([]mgl64.Vec2, n)
	for i := range slopes {
		tilt := rng.Float64()
		x := rng.Float64()
		if tilt >= 0.5 {
			x = -x
		}
		y := rng.Float64()
		if tilt >= 0.25 && tilt <= 0.75 {
			y = -y
		}
		slopes[i] = mgl64.Vec2{x, y}
	}
	return slopes
}

// Project assigns every vertex the signed projection of its offset from the
// nearest plate centre onto that plate's slope, plus midpoint. Values above 1
// are reflected back below the ceiling and the result is floored at 0.
func Project(m *mesh.Mesh, centers []int, slopes []mgl64.Vec2, midpoint float64) []float64 {
	alt := make([]float64, len(m.Vertices))
	for vi, v := range m.Vertices {
		nearest, nearestDist := -1, math.Inf(1)
		for pi, c := range centers {
			if d := m.Vertices[c].Pos.Sub(v.Pos).Len(); d < nearestDist {
				nearest, nearestDist = pi, d
			}
		}
		if nearest < 0 {
			alt[vi] = midpoint
			continue
		}
		offset := v.Pos.Sub(m.Vertices[centers[nearest]].Pos)
		a := offset.Dot(slopes[nearest]) + midpoint
		if a > 1 {
			a = 2 - a
		}
		if a < 0 {
			a = 0
		}
		alt[vi] = a
	}
	return alt
}

// Smooth replaces every altitude with the recursive neighbour average to the
// given depth. All reads come from the input snapshot.
func Smooth(m *mesh.Mesh, alt []float64, resolution int) []float64 {
	level := make([]float64, len(alt))
	copy(level, alt)
	next := make([]float64, len(alt))
	for depth := 0; depth < resolution; depth++ {
		for vi, v := range m.Vertices {
			if len(v.Neighbors) == 0 {
				next[vi] = level[vi]
				continue
			}
			sum := 0.0
			for _, n := range v.Neighbors {
				sum += level[n]
			}
			next[vi] = sum / float64(len(v.Neighbors))
		}
		level, next = next, level
	}
	return level
}

// Peaks returns the vertices without a strictly higher neighbour.
func Peaks(m *mesh.Mesh, alt []float64) []int {
	var peaks []int
	for vi, v := range m.Vertices {
		peak := true
		for _, n := range v.Neighbors {
			if alt[n] > alt[vi] {
				peak = false
				break
			}
		}
		if peak {
			peaks = append(peaks, vi)
		}
	}
	return peaks
}

// GrowRidges raises forking mountain ridges from randomly chosen peaks and
// returns every branch walked. alt is modified in place.
func GrowRidges(m *mesh.Mesh, alt []float64, peaks []int, cfg config.MountainConfig, rng *core.RNG) []*Path {
	if len(peaks) == 0 {
		return nil
	}
	count := rng.IntRange(cfg.RidgesMin, cfg.RidgesMax)
	var branches []*Path
	for i := 0; i < count; i++ {
		peak := peaks[rng.IntN(len(peaks))]
		if lifted := 1 - rng.Float64()*cfg.PeakReductionFactor; alt[peak] < lifted {
			alt[peak] = lifted
		}
		branches = append(branches, growRidge(m, alt, peak, cfg, rng)...)
	}
	return branches
}

func growRidge(m *mesh.Mesh, alt []float64, peak int, cfg config.MountainConfig, rng *core.RNG) []*Path {
	claimed := map[int]bool{peak: true}
	root := NewPath(peak)
	branches := []*Path{root}
	frontier := []*Path{root}
	total := 0

	for len(frontier) > 0 && total < cfg.MaxNodeChain {
		var next []*Path
		for _, p := range frontier {
			node := p.Tail()
			if rng.Float64() < cfg.ForkChance {
				if n, ok := advance(m, alt, claimed, node, cfg.PeakWeight); ok {
					p.AddNext(m, n)
					next = append(next, p)
				} else {
					p.Close()
				}
				if n, ok := advance(m, alt, claimed, node, cfg.PeakWeight); ok {
					fork := NewPath(node)
					fork.Depth = p.Depth + 1
					fork.AddNext(m, n)
					branches = append(branches, fork)
					next = append(next, fork)
				}
				total += 2
			} else {
				if n, ok := advance(m, alt, claimed, node, cfg.PeakWeight); ok {
					p.AddNext(m, n)
					next = append(next, p)
				} else {
					p.Close()
				}
				total++
			}
			if total > cfg.MaxNodeChain {
				break
			}
		}
		frontier = next
	}
	for _, p := range branches {
		p.Close()
	}
	return branches
}

// advance claims node's tallest unclaimed neighbour and pulls its altitude
// towards node's by weight. The neighbour is never lowered.
func advance(m *mesh.Mesh, alt []float64, claimed map[int]bool, node int, weight float64) (int, bool) {
	best := -1
	for _, n := range m.Vertices[node].Neighbors {
		if claimed[n] {
			continue
		}
		if best < 0 || alt[n] > alt[best] {
			best = n
		}
	}
	if best < 0 {
		return -1, false
	}
	claimed[best] = true
	if raised := weight*alt[node] + (1-weight)*alt[best]; raised > alt[best] {
		alt[best] = raised
	}
	return best, true
}
