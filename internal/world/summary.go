package world

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary condenses the current state into a few whole-map figures.
type Summary struct {
	Tick            int
	Season          Season
	LandFraction    float64
	MeanTemperature float64
	MeanHumidity    float64
	MeanWind        float64
	MaxWind         float64
	TotalWater      float64
	Lakes           int
	Rivers          int
}

// Summarize computes a Summary of the world. Rivers counts vertices whose
// flow rate is at least riverFlow.
func (w *World) Summarize(riverFlow float64) Summary {
	s := Summary{
		Tick:            w.ticks,
		Season:          w.Season(),
		MeanTemperature: stat.Mean(w.air.Temperature, nil),
		MeanHumidity:    stat.Mean(w.air.Humidity, nil),
		TotalWater:      w.water.TotalWater(),
	}
	land := 0
	for _, a := range w.terrain.CellAltitude {
		if a > w.cfg.Water.SeaLevel {
			land++
		}
	}
	if n := len(w.terrain.CellAltitude); n > 0 {
		s.LandFraction = float64(land) / float64(n)
	}
	speeds := make([]float64, len(w.air.Wind))
	for i, v := range w.air.Wind {
		speeds[i] = v.Len()
		s.MaxWind = math.Max(s.MaxWind, speeds[i])
	}
	s.MeanWind = stat.Mean(speeds, nil)
	for v, lake := range w.water.IsLake {
		if lake {
			s.Lakes++
		}
		if w.water.FlowRate[v] >= riverFlow {
			s.Rivers++
		}
	}
	return s
}

// Args renders the summary as alternating keys and values for slog.
func (s Summary) Args() []any {
	return []any{
		"tick", s.Tick,
		"season", s.Season.String(),
		"land", fmt.Sprintf("%.2f", s.LandFraction),
		"temp", fmt.Sprintf("%.1f", s.MeanTemperature),
		"humidity", fmt.Sprintf("%.3f", s.MeanHumidity),
		"wind_mean", fmt.Sprintf("%.3f", s.MeanWind),
		"wind_max", fmt.Sprintf("%.3f", s.MaxWind),
		"water", fmt.Sprintf("%.0f", s.TotalWater),
		"lakes", s.Lakes,
		"rivers", s.Rivers,
	}
}
