package render

import (
	"image/color"
	"math"

	"khaos-map/internal/config"
	"khaos-map/internal/core"
	"khaos-map/internal/world"
)

// Layer selects the field that colours the map.
type Layer int

const (
	LayerTerrain Layer = iota
	LayerTemperature
	LayerHumidity
	LayerPressure
	LayerRainfall
	layerCount
)

func (l Layer) String() string {
	switch l {
	case LayerTerrain:
		return "terrain"
	case LayerTemperature:
		return "temperature"
	case LayerHumidity:
		return "humidity"
	case LayerPressure:
		return "pressure"
	case LayerRainfall:
		return "rainfall"
	default:
		return "unknown"
	}
}

// Next cycles to the following layer.
func (l Layer) Next() Layer { return (l + 1) % layerCount }

// CellColors fills dst (reallocated when too short) with one colour per cell
// for the chosen layer.
func CellColors(w *world.World, layer Layer, dst []color.RGBA) []color.RGBA {
	n := len(w.Mesh().Cells)
	if cap(dst) < n {
		dst = make([]color.RGBA, n)
	}
	dst = dst[:n]
	cfg := w.Config()
	alt := w.Terrain().CellAltitude
	air := w.Atmosphere()
	for ci := range dst {
		switch layer {
		case LayerTemperature:
			dst[ci] = temperatureColor(air.Temperature[ci], cfg.Temperature)
		case LayerHumidity:
			dst[ci] = humidityColor(air.Humidity[ci])
		case LayerPressure:
			dst[ci] = pressureColor(air.Pressure[ci])
		case LayerRainfall:
			rain := air.RainfallLastYear[ci]
			if rain == 0 {
				rain = air.RainfallThisYear[ci]
			}
			dst[ci] = rainfallColor(terrainColor(alt[ci], cfg.Water.SeaLevel), rain, alt[ci] > cfg.Water.SeaLevel)
		default:
			dst[ci] = terrainColor(alt[ci], cfg.Water.SeaLevel)
		}
	}
	return dst
}

type colorStop struct {
	t   float64
	col color.RGBA
}

var (
	oceanStops = []colorStop{
		{0.0, color.RGBA{R: 12, G: 24, B: 70, A: 255}},
		{1.0, color.RGBA{R: 50, G: 100, B: 170, A: 255}},
	}
	landStops = []colorStop{
		{0.0, color.RGBA{R: 90, G: 150, B: 100, A: 255}},
		{0.5, color.RGBA{R: 190, G: 160, B: 80, A: 255}},
		{0.8, color.RGBA{R: 130, G: 120, B: 110, A: 255}},
		{1.0, color.RGBA{R: 240, G: 235, B: 215, A: 255}},
	}
	temperatureStops = []colorStop{
		{0.0, color.RGBA{R: 40, G: 60, B: 200, A: 255}},
		{0.4, color.RGBA{R: 200, G: 220, B: 240, A: 255}},
		{0.7, color.RGBA{R: 240, G: 200, B: 80, A: 255}},
		{1.0, color.RGBA{R: 200, G: 40, B: 30, A: 255}},
	}
)

func terrainColor(alt, sea float64) color.RGBA {
	if alt <= sea {
		if sea <= 0 {
			return oceanStops[0].col
		}
		return gradient(oceanStops, alt/sea)
	}
	return gradient(landStops, (alt-sea)/(1-sea))
}

func temperatureColor(temp float64, t config.TemperatureConfig) color.RGBA {
	return gradient(temperatureStops, (temp-t.Lowest)/(t.Highest-t.Lowest))
}

func humidityColor(h float64) color.RGBA {
	return lerpRGBA(color.RGBA{R: 200, G: 180, B: 140, A: 255}, color.RGBA{R: 30, G: 90, B: 200, A: 255}, h)
}

// pressureColor is a grey ramp from -1 (dark) to 1 (light).
func pressureColor(p float64) color.RGBA {
	v := uint8(math.Round(32 + 111*(core.Clamp(p, -1, 1)+1)))
	return color.RGBA{R: v, G: v, B: v, A: 255}
}

// rainfallColor tints land blue in proportion to a year of rain. Water is
// left as is.
func rainfallColor(base color.RGBA, rain float64, land bool) color.RGBA {
	if !land {
		return base
	}
	return lerpRGBA(base, color.RGBA{R: 40, G: 120, B: 255, A: 255}, 0.8*core.Clamp01(rain/1000))
}

func gradient(stops []colorStop, t float64) color.RGBA {
	t = core.Clamp01(t)
	for i := 1; i < len(stops); i++ {
		curr := stops[i]
		if t <= curr.t {
			prev := stops[i-1]
			span := curr.t - prev.t
			var local float64
			if span > 0 {
				local = (t - prev.t) / span
			}
			return lerpRGBA(prev.col, curr.col, local)
		}
	}
	return stops[len(stops)-1].col
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	t = core.Clamp01(t)
	return color.RGBA{
		R: lerpComponent(a.R, b.R, t),
		G: lerpComponent(a.G, b.G, t),
		B: lerpComponent(a.B, b.B, t),
		A: lerpComponent(a.A, b.A, t),
	}
}

func lerpComponent(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
