package world

import (
	"strconv"

	"khaos-map/internal/core"
)

// Parameters reports the tunables the world was generated with. Keys match
// the ones accepted by config.Apply.
func (w *World) Parameters() core.ParameterSnapshot {
	cfg := w.cfg
	groups := []core.ParameterGroup{
		{
			Name: "Map",
			Params: []core.Parameter{
				int64Param("seed", "Seed", cfg.Seed),
				stringParam("altitude", "Altitude strategy", cfg.Altitude),
				intParam("total_cells", "Total cells", cfg.Mesh.TotalCells),
				intParam("relax_passes", "Relax passes", cfg.Mesh.RelaxPasses),
			},
			Summary: strconv.Itoa(len(w.mesh.Cells)) + " cells, " + strconv.Itoa(len(w.mesh.Vertices)) + " vertices",
		},
		{
			Name: "Ridges",
			Params: []core.Parameter{
				intParam("plates_min", "Plates min", cfg.Tectonics.PlatesMin),
				intParam("plates_max", "Plates max", cfg.Tectonics.PlatesMax),
				floatParam("min_dist", "Plate min distance", cfg.Tectonics.MinDist),
				intParam("smoothing_resolution", "Smoothing resolution", cfg.Tectonics.SmoothingResolution),
				intParam("smoothing_repetitions", "Smoothing repetitions", cfg.Tectonics.SmoothingRepetitions),
				intParam("ridges_min", "Ridges min", cfg.Mountains.RidgesMin),
				intParam("ridges_max", "Ridges max", cfg.Mountains.RidgesMax),
				floatParam("peak_weight", "Peak weight", cfg.Mountains.PeakWeight),
				floatParam("fork_chance", "Fork chance", cfg.Mountains.ForkChance),
			},
		},
		{
			Name: "Deformation",
			Params: []core.Parameter{
				intParam("deform_width", "Grid width", cfg.Deform.Width),
				intParam("deform_height", "Grid height", cfg.Deform.Height),
				intParam("deform_plates", "Plates", cfg.Deform.Plates),
				intParam("deform_sweeps", "Sweeps", cfg.Deform.Sweeps),
				floatParam("deform_speed", "Speed", cfg.Deform.Speed),
				floatParam("deform_weight", "Weight", cfg.Deform.Weight),
				boolParam("wrap_horizontal", "Wrap horizontally", cfg.Deform.WrapHorizontal),
			},
		},
		{
			Name: "Atmosphere",
			Params: []core.Parameter{
				stringParam("strategy", "Strategy", cfg.Atmosphere.Strategy),
				intParam("presim", "Presim ticks", cfg.Atmosphere.Presim),
				floatParam("tropics_extent", "Tropics extent", cfg.Atmosphere.TropicsExtent),
				floatParam("arctic_extent", "Arctic extent", cfg.Atmosphere.ArcticExtent),
				floatParam("lc_resistance", "Log-commit resistance", cfg.LogCommit.Resistance),
				floatParam("lc_hard_cap", "Log-commit hard cap", cfg.LogCommit.HardCap),
				floatParam("resistance", "Direct resistance", cfg.Direct.Resistance),
				floatParam("soft_cap", "Direct soft cap", cfg.Direct.SoftCap),
				floatParam("hard_cap", "Direct hard cap", cfg.Direct.HardCap),
				floatParam("heat_bias", "Direct heat bias", cfg.Direct.HeatBias),
			},
			Summary: "tick " + strconv.Itoa(w.strategy.Ticks()),
		},
		{
			Name: "Water",
			Params: []core.Parameter{
				floatParam("sea_level", "Sea level", cfg.Water.SeaLevel),
				floatParam("reabsorption", "Reabsorption", cfg.Water.Reabsorption),
				floatParam("drain_rate", "Drain rate", cfg.Water.DrainRate),
				intParam("flow_ticks_to_ave", "Flow window", cfg.Water.FlowTicksToAve),
			},
		},
		{
			Name: "Seasons",
			Params: []core.Parameter{
				intParam("ticks_per_year", "Ticks per year", cfg.Season.TicksPerYear),
				floatParam("season_incline", "Incline", cfg.Season.Incline),
			},
			Summary: w.Season().String(),
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}
