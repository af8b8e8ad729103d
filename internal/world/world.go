// Package world ties the mesh, the frozen terrain and the per-tick crawlers
// together. A world tick is one atmosphere pass followed by one hydrology
// pass; seasons and yearly rainfall are kept on tick boundaries.
package world

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"khaos-map/internal/altitude"
	"khaos-map/internal/atmosphere"
	"khaos-map/internal/config"
	"khaos-map/internal/core"
	"khaos-map/internal/hydrology"
	"khaos-map/internal/mesh"
	"khaos-map/internal/tectonics"
)

type stage int

const (
	stageAtmosphere stage = iota
	stageHydrology
)

// World is a generated map plus its running simulation.
type World struct {
	cfg    config.Config
	logger *slog.Logger

	mesh     *mesh.Mesh
	terrain  *mesh.Terrain
	locator  *mesh.Locator
	air      *atmosphere.State
	strategy atmosphere.Strategy
	water    *hydrology.Hydrology

	stage   stage
	ticks   int
	seasons seasonHistory
}

var _ core.Crawler = (*World)(nil)

// Generate validates cfg and builds a world from it: mesh, altitude,
// atmosphere and hydrology, followed by cfg.Atmosphere.Presim atmosphere
// ticks. A nil logger uses slog.Default.
func Generate(cfg config.Config, logger *slog.Logger) (*World, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	start := time.Now()
	rng := core.NewRNG(cfg.Seed)

	m, err := mesh.Generate(cfg.Mesh, rng)
	if err != nil {
		return nil, fmt.Errorf("world: build mesh: %w", err)
	}
	logger.Info("mesh built", "cells", len(m.Cells), "vertices", len(m.Vertices), "relax_passes", cfg.Mesh.RelaxPasses)

	var alt []float64
	switch cfg.Altitude {
	case config.AltitudeTectonic:
		alt, err = tectonics.Generate(m, cfg.Deform, rng, logger)
	default:
		alt, err = altitude.Generate(m, cfg, rng, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("world: %s altitude: %w", cfg.Altitude, err)
	}
	terrain, err := mesh.NewTerrain(m, alt)
	if err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}

	air := atmosphere.NewState(m, terrain, cfg)
	strategy, err := atmosphere.New(cfg.Atmosphere.Strategy, atmosphere.Env{
		Mesh:    m,
		Terrain: terrain,
		State:   air,
		Config:  cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}

	w := &World{
		cfg:      cfg,
		logger:   logger,
		mesh:     m,
		terrain:  terrain,
		locator:  mesh.NewLocator(m),
		air:      air,
		strategy: strategy,
		water:    hydrology.New(m, terrain, cfg.Water, air),
		seasons:  newSeasonHistory(len(m.Cells)),
	}
	for i := 0; i < cfg.Atmosphere.Presim; i++ {
		strategy.Tick()
	}
	logger.Info("world generated",
		"seed", cfg.Seed,
		"altitude", cfg.Altitude,
		"strategy", strategy.Name(),
		"presim", cfg.Atmosphere.Presim,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return w, nil
}

// Config returns the configuration the world was generated from.
func (w *World) Config() config.Config { return w.cfg }

func (w *World) Mesh() *mesh.Mesh { return w.mesh }

func (w *World) Terrain() *mesh.Terrain { return w.terrain }

func (w *World) Atmosphere() *atmosphere.State { return w.air }

func (w *World) Strategy() atmosphere.Strategy { return w.strategy }

func (w *World) Hydrology() *hydrology.Hydrology { return w.water }

// Ticks returns the number of completed world ticks.
func (w *World) Ticks() int { return w.ticks }

// CellAt returns the cell whose generator is nearest to p.
func (w *World) CellAt(p mgl64.Vec2) int { return w.locator.Nearest(p) }

// Step advances the current stage by one visit and reports whether a full
// world tick completed.
func (w *World) Step() bool {
	switch w.stage {
	case stageAtmosphere:
		if w.strategy.Step() {
			w.stage = stageHydrology
		}
		return false
	default:
		if !w.water.Step() {
			return false
		}
		w.stage = stageAtmosphere
		w.endTick()
		return true
	}
}

// Walk steps until budget is spent or a world tick completes.
func (w *World) Walk(budget time.Duration) bool { return core.Walk(budget, w.Step) }

// Tick finishes the current world tick.
func (w *World) Tick() {
	for !w.Step() {
	}
}

func (w *World) endTick() {
	w.ticks++
	perYear := w.cfg.Season.TicksPerYear
	w.air.LatitudeShift = seasonShift(w.ticks, perYear, w.cfg.Season.Incline)

	s, ok := seasonEnding(w.ticks%perYear, perYear)
	if !ok {
		return
	}
	w.recordSeason(s)
	if s == Winter {
		w.air.RollYear()
		w.logger.Debug("year complete", "tick", w.ticks, "year", w.ticks/perYear)
	}
}
