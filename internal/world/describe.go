package world

import (
	"fmt"
	"strings"

	"khaos-map/internal/core"
)

// Describe renders a multi-line readout of cell ci for the focus panel.
func (w *World) Describe(ci int) string {
	if ci < 0 || ci >= len(w.mesh.Cells) {
		return ""
	}
	c := w.mesh.Cells[ci]
	a := w.air
	var b strings.Builder
	fmt.Fprintf(&b, "Cell %d at (%.3f, %.3f)\n", ci, c.Pos.X(), c.Pos.Y())
	fmt.Fprintf(&b, "Altitude: %.3f\n", w.terrain.CellAltitude[ci])
	fmt.Fprintf(&b, "Temperature: %.1f  Humidity: %.2f  Pressure: %.3f\n", a.Temperature[ci], a.Humidity[ci], a.Pressure[ci])
	fmt.Fprintf(&b, "Wind heading: %.3f  magnitude: %.2f\n", core.Heading(a.Wind[ci]), a.Wind[ci].Len())
	fmt.Fprintf(&b, "Rainfall this year: %.2f  last year: %.2f\n", a.RainfallThisYear[ci], a.RainfallLastYear[ci])
	fmt.Fprintf(&b, "Watertable: %.0f\n", w.water.Watertable[ci])
	for i, v := range c.Region {
		lake := ""
		if w.water.IsLake[v] {
			lake = " (lake)"
		}
		fmt.Fprintf(&b, "Vertex %d water: %.0f  flow: %.1f%s\n", i+1, w.water.Water[v], w.water.FlowRate[v], lake)
	}
	return b.String()
}
