package world

import (
	"math"
)

// Season indexes the four-slot season history.
type Season int

const (
	Spring Season = iota
	Summer
	Autumn
	Winter
)

func (s Season) String() string {
	switch s {
	case Spring:
		return "spring"
	case Summer:
		return "summer"
	case Autumn:
		return "autumn"
	case Winter:
		return "winter"
	default:
		return "unknown"
	}
}

// SeasonRecord is a snapshot of one cell taken as a season ends.
type SeasonRecord struct {
	Temperature      float64
	Humidity         float64
	RainfallThisYear float64
	AverageFlow      float64
}

type seasonHistory struct {
	records  [4][]SeasonRecord
	recorded [4]bool
}

func newSeasonHistory(cells int) seasonHistory {
	var h seasonHistory
	for i := range h.records {
		h.records[i] = make([]SeasonRecord, cells)
	}
	return h
}

// seasonShift is the latitude offset of the forcing bands at tick.
func seasonShift(tick, perYear int, incline float64) float64 {
	return incline * math.Sin(2*math.Pi*float64(tick)/float64(perYear))
}

// seasonEnding reports which season ends when the year counter reaches
// tickOfYear. Quarter boundaries are rounded; 0 closes the year.
func seasonEnding(tickOfYear, perYear int) (Season, bool) {
	if tickOfYear == 0 {
		return Winter, true
	}
	for s := Spring; s < Winter; s++ {
		if tickOfYear == int(math.Round(float64(perYear)*float64(s+1)/4)) {
			return s, true
		}
	}
	return 0, false
}

func (w *World) recordSeason(s Season) {
	rec := w.seasons.records[s]
	for ci := range rec {
		rec[ci] = SeasonRecord{
			Temperature:      w.air.Temperature[ci],
			Humidity:         w.air.Humidity[ci],
			RainfallThisYear: w.air.RainfallThisYear[ci],
			AverageFlow:      w.water.RegionFlowRate(ci),
		}
	}
	w.seasons.recorded[s] = true
}

// SeasonRecord returns the last record of season s for cell ci and whether
// that season has been recorded yet.
func (w *World) SeasonRecord(s Season, ci int) (SeasonRecord, bool) {
	return w.seasons.records[s][ci], w.seasons.recorded[s]
}

// Season returns the season the world is currently in.
func (w *World) Season() Season {
	perYear := w.cfg.Season.TicksPerYear
	t := w.ticks % perYear
	for s := Spring; s < Winter; s++ {
		if t < int(math.Round(float64(perYear)*float64(s+1)/4)) {
			return s
		}
	}
	return Winter
}

// BiomeInputs aggregates the last four seasons of a cell for biome
// classification.
type BiomeInputs struct {
	Altitude        float64
	Ocean           bool
	Lake            bool
	PeakTemperature float64
	LowTemperature  float64
	AverageHumidity float64
	AnnualRainfall  float64
	PeakFlowRate    float64
	LowFlowRate     float64
}

// BiomeInputs returns the aggregated seasonal extrema of cell ci. It reports
// false until a full year has been recorded.
func (w *World) BiomeInputs(ci int) (BiomeInputs, bool) {
	t := w.cfg.Temperature
	in := BiomeInputs{
		Altitude:        w.terrain.CellAltitude[ci],
		Ocean:           w.terrain.CellAltitude[ci] <= w.cfg.Water.SeaLevel,
		Lake:            w.water.HasLake(ci),
		PeakTemperature: t.Lowest,
		LowTemperature:  t.Highest,
		LowFlowRate:     math.Inf(1),
	}
	for s := Spring; s <= Winter; s++ {
		if !w.seasons.recorded[s] {
			return BiomeInputs{}, false
		}
		rec := w.seasons.records[s][ci]
		in.PeakTemperature = math.Max(in.PeakTemperature, rec.Temperature)
		in.LowTemperature = math.Min(in.LowTemperature, rec.Temperature)
		in.AverageHumidity += rec.Humidity / 4
		in.PeakFlowRate = math.Max(in.PeakFlowRate, rec.AverageFlow)
		in.LowFlowRate = math.Min(in.LowFlowRate, rec.AverageFlow)
	}
	in.AnnualRainfall = w.seasons.records[Winter][ci].RainfallThisYear
	return in, true
}
