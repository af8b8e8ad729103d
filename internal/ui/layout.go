package ui

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"khaos-map/internal/core"
	"khaos-map/internal/world"
)

type lineKind int

const (
	lineTitle lineKind = iota
	lineHeader
	lineParam
	lineText
)

// panelLine is one row of the side panel. Params render left and right
// aligned, every other kind only uses left.
type panelLine struct {
	kind  lineKind
	left  string
	right string
}

// panelLines lays out the parameter snapshot followed by the focus readout.
func panelLines(title string, snap core.ParameterSnapshot, focus string) []panelLine {
	lines := []panelLine{{kind: lineTitle, left: title}}
	for _, g := range snap.Groups {
		header := g.Name
		if g.Summary != "" {
			header += " (" + g.Summary + ")"
		}
		lines = append(lines, panelLine{kind: lineHeader, left: header})
		for _, p := range g.Params {
			lines = append(lines, panelLine{kind: lineParam, left: p.Label, right: p.Value})
		}
	}
	if focus == "" {
		return lines
	}
	lines = append(lines, panelLine{kind: lineHeader, left: "Focus"})
	for _, row := range strings.Split(strings.TrimRight(focus, "\n"), "\n") {
		lines = append(lines, panelLine{kind: lineText, left: row})
	}
	return lines
}

const (
	minFlowToRender = 5.0
	flowPerWidth    = 50.0
)

// segment is a river stretch between two vertices in map coordinates.
type segment struct {
	from, to mgl64.Vec2
	width    float64
}

// riverSegments collects every land vertex carrying at least minFlow towards
// its lowest neighbour. Widths grow by one per flowPerWidth of flow.
func riverSegments(w *world.World, minFlow float64) []segment {
	m := w.Mesh()
	water := w.Hydrology()
	sea := w.Config().Water.SeaLevel
	alt := w.Terrain().VertexAltitude
	var out []segment
	for v, low := range water.LowestNeighbor {
		if low < 0 || alt[v] <= sea || water.FlowRate[v] < minFlow {
			continue
		}
		out = append(out, segment{
			from:  m.Vertices[v].Pos,
			to:    m.Vertices[low].Pos,
			width: 1 + math.Round(water.FlowRate[v]/flowPerWidth),
		})
	}
	return out
}
