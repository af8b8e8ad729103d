package atmosphere

import (
	"math"

	"khaos-map/internal/config"
	"khaos-map/internal/core"
)

// band is a scaled, shifted logistic curve.
func band(x, slope, xOffset, yOffset, scale float64) float64 {
	return scale*core.Sigmoid(x, slope, xOffset) + yOffset
}

// LatitudeWind returns the eastward wind added per tick at absolute latitude
// absY. It is positive near the equator, near zero at mid latitudes and
// negative near the poles.
func LatitudeWind(absY float64) float64 {
	return band(absY, -15, 0.9, -0.15, 0.15) + band(absY, -15, 0.1, 0, 0.15)
}

// AltitudeCooling is the temperature drop for a cell at altitude alt.
func AltitudeCooling(alt float64, t config.TemperatureConfig) float64 {
	if alt <= t.AltCoolingThreshold {
		return 0
	}
	return (alt - t.AltCoolingThreshold) / (1 - t.AltCoolingThreshold) * t.AltCooling
}

// TargetTemperature interpolates from the equatorial target at latitude 0 to
// the lowest temperature at farY, then applies altitude cooling.
func TargetTemperature(absY, farY, alt float64, t config.TemperatureConfig) float64 {
	frac := 1.0
	if farY > 0 {
		frac = core.Clamp01(absY / farY)
	}
	return t.Equatorial - (t.Equatorial-t.Lowest)*frac - AltitudeCooling(alt, t)
}

// Rainfall is the humidity that condenses out of a cell this tick. Higher
// ground and temperatures near freezing rain more. The result is never more
// than the available humidity.
func Rainfall(humidity, alt, temp float64, cfg config.Config) float64 {
	if humidity <= 0 {
		return 0
	}
	t := cfg.Temperature
	tempsMod := math.Abs((temp-t.Freezing)-t.Highest) / (t.Highest - t.Freezing)
	rain := humidity * 2 * alt * tempsMod * cfg.Water.RainShare
	return core.Clamp(rain, 0, humidity)
}

// EvaporationFactor maps a temperature onto [0,1]: 0 at or below freezing, 1
// at the highest allowed temperature.
//
// Written out: clamp((temp - freezing) / (highest - freezing), 0, 1).
func EvaporationFactor(temp float64, t config.TemperatureConfig) float64 {
	return core.Clamp01((temp - t.Freezing) / (t.Highest - t.Freezing))
}

// latitude returns the seasonally shifted absolute latitude of a cell.
func (s *State) latitude(y float64) float64 {
	return math.Abs(y + s.LatitudeShift)
}
