package config

import (
	"fmt"
	"sort"
	"strconv"
)

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unknown keys and unparsable values are ignored.
func FromMap(cfg map[string]string) Config {
	c := Default()
	c.Apply(cfg)
	return c
}

// Apply overlays flag-style key/value pairs onto c. Unknown keys and values
// that fail to parse leave the current setting untouched.
func (c *Config) Apply(cfg map[string]string) {
	if cfg == nil {
		return
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["altitude"]; ok && v != "" {
		c.Altitude = v
	}
	if v, ok := cfg["strategy"]; ok && v != "" {
		c.Atmosphere.Strategy = v
	}
	if v, ok := cfg["wrap_horizontal"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Deform.WrapHorizontal = parsed
		}
	}
	for key, dst := range c.intFields() {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
				*dst = parsed
			}
		}
	}
	for key, dst := range c.floatFields() {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = parsed
			}
		}
	}
	if c.Tectonics.PlatesMax <= c.Tectonics.PlatesMin {
		c.Tectonics.PlatesMax = c.Tectonics.PlatesMin + 1
	}
	if c.Mountains.RidgesMax < c.Mountains.RidgesMin {
		c.Mountains.RidgesMax = c.Mountains.RidgesMin
	}
}

// Keys lists every key understood by Apply in sorted order.
func (c *Config) Keys() []string {
	keys := []string{"seed", "altitude", "strategy", "wrap_horizontal"}
	for k := range c.intFields() {
		keys = append(keys, k)
	}
	for k := range c.floatFields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flat renders the config back into the key/value form accepted by Apply.
func (c Config) Flat() map[string]string {
	out := map[string]string{
		"seed":            strconv.FormatInt(c.Seed, 10),
		"altitude":        c.Altitude,
		"strategy":        c.Atmosphere.Strategy,
		"wrap_horizontal": strconv.FormatBool(c.Deform.WrapHorizontal),
	}
	for k, p := range c.intFields() {
		out[k] = strconv.Itoa(*p)
	}
	for k, p := range c.floatFields() {
		out[k] = fmt.Sprintf("%g", *p)
	}
	return out
}

func (c *Config) intFields() map[string]*int {
	return map[string]*int{
		"total_cells":           &c.Mesh.TotalCells,
		"relax_passes":          &c.Mesh.RelaxPasses,
		"plates_min":            &c.Tectonics.PlatesMin,
		"plates_max":            &c.Tectonics.PlatesMax,
		"attempts_to_place":     &c.Tectonics.AttemptsToPlace,
		"smoothing_resolution":  &c.Tectonics.SmoothingResolution,
		"smoothing_repetitions": &c.Tectonics.SmoothingRepetitions,
		"ridges_min":            &c.Mountains.RidgesMin,
		"ridges_max":            &c.Mountains.RidgesMax,
		"max_node_chain":        &c.Mountains.MaxNodeChain,
		"deform_width":          &c.Deform.Width,
		"deform_height":         &c.Deform.Height,
		"deform_plates":         &c.Deform.Plates,
		"deform_sweeps":         &c.Deform.Sweeps,
		"presim":                &c.Atmosphere.Presim,
		"flow_ticks_to_ave":     &c.Water.FlowTicksToAve,
		"ticks_per_year":        &c.Season.TicksPerYear,
	}
}

func (c *Config) floatFields() map[string]*float64 {
	return map[string]*float64{
		"min_dist":              &c.Tectonics.MinDist,
		"midpoint":              &c.Tectonics.Midpoint,
		"peak_reduction_factor": &c.Mountains.PeakReductionFactor,
		"peak_weight":           &c.Mountains.PeakWeight,
		"fork_chance":           &c.Mountains.ForkChance,
		"deform_weight":         &c.Deform.Weight,
		"deform_speed":          &c.Deform.Speed,
		"density_deviance":      &c.Deform.DensityDeviance,
		"deform_growth":         &c.Deform.Growth,
		"fault_magnitude":       &c.Deform.FaultMagnitude,
		"tropics_extent":        &c.Atmosphere.TropicsExtent,
		"arctic_extent":         &c.Atmosphere.ArcticExtent,
		"humidity_base":         &c.Atmosphere.HumidityBase,
		"humidity_noise":        &c.Atmosphere.HumidityNoise,
		"noise_scale":           &c.Atmosphere.NoiseScale,
		"transfer_slope":        &c.LogCommit.TransferSlope,
		"transfer_offset":       &c.LogCommit.TransferOffset,
		"temp_mix":              &c.LogCommit.TempMix,
		"latitude_forcing":      &c.LogCommit.LatitudeForcing,
		"lc_deflection_weight":  &c.LogCommit.DeflectionWeight,
		"lc_resistance":         &c.LogCommit.Resistance,
		"lc_hard_cap":           &c.LogCommit.HardCap,
		"temp_relax":            &c.LogCommit.TempRelax,
		"critical_angle":        &c.Direct.CriticalAngle,
		"temps_critical_angle":  &c.Direct.TempsCriticalAngle,
		"take_strength":         &c.Direct.TakeStrength,
		"soft_cap":              &c.Direct.SoftCap,
		"hard_cap":              &c.Direct.HardCap,
		"resistance":            &c.Direct.Resistance,
		"jet_stream":            &c.Direct.JetStream,
		"deflection_weight":     &c.Direct.DeflectionWeight,
		"baro_transfer_rate":    &c.Direct.BaroTransferRate,
		"baro_wind_effect":      &c.Direct.BaroWindEffect,
		"heat_bias":             &c.Direct.HeatBias,
		"temp_transfer_rate":    &c.Direct.TempTransferRate,
		"temps_equatorial":      &c.Temperature.Equatorial,
		"temps_freezing":        &c.Temperature.Freezing,
		"temps_lowest":          &c.Temperature.Lowest,
		"temps_highest":         &c.Temperature.Highest,
		"equatorial_rise":       &c.Temperature.EquatorialRise,
		"arctic_cooling":        &c.Temperature.ArcticCooling,
		"natural_cooling":       &c.Temperature.NaturalCooling,
		"alt_cooling_threshold": &c.Temperature.AltCoolingThreshold,
		"alt_cooling":           &c.Temperature.AltCooling,
		"sea_level":             &c.Water.SeaLevel,
		"volume_scale":          &c.Water.VolumeScale,
		"reabsorption":          &c.Water.Reabsorption,
		"drain_rate":            &c.Water.DrainRate,
		"rain_share":            &c.Water.RainShare,
		"rainfall_mod":          &c.Water.RainfallMod,
		"humid_evap_rate":       &c.Water.HumidEvapRate,
		"baro_evap_rate":        &c.Water.BaroEvapRate,
		"season_incline":        &c.Season.Incline,
	}
}
