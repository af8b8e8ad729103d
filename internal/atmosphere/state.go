// Package atmosphere advances per-cell wind, pressure, temperature and
// humidity over the mesh. Two update strategies share one State and one set
// of forcing functions but keep separate tuning blocks.
package atmosphere

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl64"

	"khaos-map/internal/config"
	"khaos-map/internal/core"
	"khaos-map/internal/mesh"
)

// State holds the atmospheric fields of every cell, indexed by cell.
type State struct {
	Wind        []mgl64.Vec2
	Pressure    []float64
	Temperature []float64
	Humidity    []float64

	WindDelta        []mgl64.Vec2
	PressureDelta    []float64
	TemperatureDelta []float64
	HumidityDelta    []float64

	// Deflection is the static terrain push computed from region altitudes.
	Deflection []mgl64.Vec2

	// Rain is water volume produced since hydrology last drained it.
	Rain             []float64
	RainfallThisYear []float64
	RainfallLastYear []float64

	// LatitudeShift moves the forcing bands north or south with the seasons.
	LatitudeShift float64
}

// NewState allocates a State for m and seeds it the same way for every
// strategy: banded pressure, a uniform mid temperature and Perlin humidity.
func NewState(m *mesh.Mesh, terrain *mesh.Terrain, cfg config.Config) *State {
	n := len(m.Cells)
	s := &State{
		Wind:             make([]mgl64.Vec2, n),
		Pressure:         make([]float64, n),
		Temperature:      make([]float64, n),
		Humidity:         make([]float64, n),
		WindDelta:        make([]mgl64.Vec2, n),
		PressureDelta:    make([]float64, n),
		TemperatureDelta: make([]float64, n),
		HumidityDelta:    make([]float64, n),
		Deflection:       make([]mgl64.Vec2, n),
		Rain:             make([]float64, n),
		RainfallThisYear: make([]float64, n),
		RainfallLastYear: make([]float64, n),
	}

	noise := perlin.NewPerlin(2, 2, 3, cfg.Seed)
	midTemp := (cfg.Temperature.Equatorial + cfg.Temperature.Lowest) / 2
	for ci, c := range m.Cells {
		lat := math.Abs(c.Pos.Y())
		switch {
		case lat > m.FarY-cfg.Atmosphere.ArcticExtent:
			s.Pressure[ci] = -0.2
		case lat < cfg.Atmosphere.TropicsExtent:
			s.Pressure[ci] = 0.2
		default:
			s.Pressure[ci] = 0.01
		}
		s.Temperature[ci] = midTemp
		h := noise.Noise2D(c.Pos.X()*cfg.Atmosphere.NoiseScale, c.Pos.Y()*cfg.Atmosphere.NoiseScale)
		s.Humidity[ci] = core.Clamp01(cfg.Atmosphere.HumidityBase + h*cfg.Atmosphere.HumidityNoise)
		s.Deflection[ci] = deflection(m, terrain, ci)
	}
	return s
}

// deflection sums, over the region corners, a push away from each corner
// proportional to its altitude.
func deflection(m *mesh.Mesh, terrain *mesh.Terrain, ci int) mgl64.Vec2 {
	c := m.Cells[ci]
	var sum mgl64.Vec2
	for _, vi := range c.Region {
		alt := terrain.VertexAltitude[vi]
		if alt == 0 {
			continue
		}
		sum = sum.Add(core.WithLen(m.Vertices[vi].Pos.Sub(c.Pos), -alt*0.1))
	}
	return sum
}

// ResetDeltas zeroes every delta accumulator.
func (s *State) ResetDeltas() {
	for i := range s.WindDelta {
		s.WindDelta[i] = mgl64.Vec2{}
		s.PressureDelta[i] = 0
		s.TemperatureDelta[i] = 0
		s.HumidityDelta[i] = 0
	}
}

// DrainRain returns the rain accumulated for cell ci and resets it.
func (s *State) DrainRain(ci int) float64 {
	r := s.Rain[ci]
	s.Rain[ci] = 0
	return r
}

// RollYear moves this year's rainfall into last year's slot.
func (s *State) RollYear() {
	copy(s.RainfallLastYear, s.RainfallThisYear)
	for i := range s.RainfallThisYear {
		s.RainfallThisYear[i] = 0
	}
}
