package atmosphere

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"khaos-map/internal/config"
	"khaos-map/internal/core"
)

func init() {
	Register(config.StrategyLogCommit, func(env Env) Strategy { return NewLogCommit(env) })
}

type phase int

const (
	phaseCalculate phase = iota
	phaseApply
)

// logEntry is one pending transfer into a cell, recorded during the
// calculate phase from pre-tick values.
type logEntry struct {
	donor    int
	rate     float64
	wind     mgl64.Vec2
	moisture float64
	temp     float64
}

// outgoing remembers where a cell sent its transfer this tick.
type outgoing struct {
	target   int // -1 when the cell did not donate
	rate     float64
	recvTemp float64
}

// LogCommit is the two-phase strategy. The calculate phase reads committed
// state only and appends entries to the receiving cell's log; the apply phase
// visits every cell once and writes only that cell.
type LogCommit struct {
	env Env
	cfg config.LogCommitConfig

	pending [][]logEntry
	out     []outgoing
	mult    []float64
	multSet []bool
	applied []mgl64.Vec2

	phase  phase
	cursor int
	ticks  int
}

var _ Strategy = (*LogCommit)(nil)

// NewLogCommit builds the two-phase strategy over env.
func NewLogCommit(env Env) *LogCommit {
	n := len(env.Mesh.Cells)
	return &LogCommit{
		env:     env,
		cfg:     env.Config.LogCommit,
		pending: make([][]logEntry, n),
		out:     make([]outgoing, n),
		mult:    make([]float64, n),
		multSet: make([]bool, n),
		applied: make([]mgl64.Vec2, n),
	}
}

func (l *LogCommit) Name() string { return config.StrategyLogCommit }

func (l *LogCommit) Ticks() int { return l.ticks }

func (l *LogCommit) Tick() { tickAll(l) }

// Walk steps until budget is spent or a pass completes.
func (l *LogCommit) Walk(budget time.Duration) bool { return core.Walk(budget, l.Step) }

// Multiplier returns the admission multiplier applied to cell ci's incoming
// transfers during the last apply phase.
func (l *LogCommit) Multiplier(ci int) float64 { return l.mult[ci] }

// AppliedWind returns cell ci's wind after logged transfers and before
// forcing and resistance in the last apply phase.
func (l *LogCommit) AppliedWind(ci int) mgl64.Vec2 { return l.applied[ci] }

// Step performs one cell visit of the current phase and reports whether it
// completed a full pass.
func (l *LogCommit) Step() bool {
	n := len(l.pending)
	if n == 0 {
		l.ticks++
		return true
	}
	switch l.phase {
	case phaseCalculate:
		if l.cursor == 0 {
			for i := range l.multSet {
				l.multSet[i] = false
			}
		}
		l.calculate(l.cursor)
		l.cursor++
		if l.cursor == n {
			l.phase, l.cursor = phaseApply, 0
		}
		return false
	default:
		l.apply(l.cursor)
		l.cursor++
		if l.cursor == n {
			l.phase, l.cursor = phaseCalculate, 0
			l.ticks++
			return true
		}
		return false
	}
}

// calculate logs cell ci's transfer into its best-aligned neighbour, plus a
// zero-rate self entry.
func (l *LogCommit) calculate(ci int) {
	s := l.env.State
	cell := l.env.Mesh.Cells[ci]
	wind := s.Wind[ci]
	l.pending[ci] = append(l.pending[ci], logEntry{
		donor:    ci,
		wind:     wind,
		moisture: s.Humidity[ci],
		temp:     s.Temperature[ci],
	})
	l.out[ci] = outgoing{target: -1}

	speed := wind.Len()
	if speed == 0 || len(cell.Neighbors) == 0 {
		return
	}
	heading := core.Heading(wind)
	best, bestDiff := -1, math.Inf(1)
	for _, nb := range cell.Neighbors {
		dir := l.env.Mesh.Cells[nb].Pos.Sub(cell.Pos)
		if diff := core.AngleBetween(heading, core.Heading(dir)); diff < bestDiff {
			best, bestDiff = nb, diff
		}
	}

	ratio := 0.5
	if total := s.Humidity[ci] + s.Humidity[best]; total > 0 {
		ratio = s.Humidity[ci] / total
	}
	rate := core.Sigmoid(speed*ratio, l.cfg.TransferSlope, l.cfg.TransferOffset) - s.Wind[best].Len()
	rate = core.Clamp01(rate)
	if rate == 0 {
		return
	}
	l.pending[best] = append(l.pending[best], logEntry{
		donor:    ci,
		rate:     rate,
		wind:     wind,
		moisture: s.Humidity[ci],
		temp:     s.Temperature[ci],
	})
	l.out[ci] = outgoing{target: best, rate: rate, recvTemp: s.Temperature[best]}
}

// multiplier caps the total incoming wind magnitude of cell ci at the
// headroom left by its own pre-tick wind. Contributions are scaled down
// together when they would exceed it.
func (l *LogCommit) multiplier(ci int) float64 {
	if l.multSet[ci] {
		return l.mult[ci]
	}
	var selfSpeed, incoming float64
	for _, e := range l.pending[ci] {
		if e.donor == ci {
			selfSpeed = e.wind.Len()
			continue
		}
		incoming += e.rate * e.wind.Len()
	}
	headroom := math.Max(0, 1-selfSpeed)
	m := 1.0
	if incoming > headroom {
		m = headroom / incoming
	}
	l.mult[ci], l.multSet[ci] = m, true
	return m
}

func (l *LogCommit) self(ci int) logEntry {
	for _, e := range l.pending[ci] {
		if e.donor == ci {
			return e
		}
	}
	s := l.env.State
	return logEntry{donor: ci, wind: s.Wind[ci], moisture: s.Humidity[ci], temp: s.Temperature[ci]}
}

// apply commits cell ci: incoming transfers scaled by its multiplier, its own
// outgoing transfer scaled by its receiver's multiplier, then forcing.
func (l *LogCommit) apply(ci int) {
	s := l.env.State
	cfg := l.env.Config
	self := l.self(ci)
	m := l.multiplier(ci)

	wind, moisture, temp := self.wind, self.moisture, self.temp
	for _, e := range l.pending[ci] {
		if e.donor == ci {
			continue
		}
		k := e.rate * m
		wind = wind.Add(e.wind.Mul(k))
		moisture += e.moisture * k
		temp += (e.temp - self.temp) * k * l.cfg.TempMix
	}
	if o := l.out[ci]; o.target >= 0 {
		k := o.rate * l.multiplier(o.target)
		wind = wind.Sub(self.wind.Mul(k))
		moisture -= self.moisture * k
		temp -= (self.temp - o.recvTemp) * k * l.cfg.TempMix
	}
	l.applied[ci] = wind

	cell := l.env.Mesh.Cells[ci]
	alt := l.env.Terrain.CellAltitude[ci]
	lat := s.latitude(cell.Pos.Y())
	wind = wind.Add(mgl64.Vec2{LatitudeWind(lat) * l.cfg.LatitudeForcing, 0})
	if alt > cfg.Water.SeaLevel {
		wind = wind.Add(s.Deflection[ci].Mul(l.cfg.DeflectionWeight))
	}
	if speed := wind.Len() - l.cfg.Resistance; speed <= 0 {
		wind = mgl64.Vec2{}
	} else {
		wind = core.WithLen(wind, math.Min(speed, l.cfg.HardCap))
	}

	target := TargetTemperature(lat, l.env.Mesh.FarY, alt, cfg.Temperature)
	temp += (target - temp) * l.cfg.TempRelax
	temp = core.Clamp(temp, cfg.Temperature.Lowest, cfg.Temperature.Highest)

	moisture = math.Max(0, moisture)
	pressure := s.Pressure[ci]
	rain := Rainfall(moisture, alt, temp, cfg)
	moisture -= rain
	pressure -= rain
	volume := rain * cfg.Water.RainfallMod
	s.Rain[ci] += volume
	s.RainfallThisYear[ci] += volume
	if alt <= cfg.Water.SeaLevel {
		ef := EvaporationFactor(temp, cfg.Temperature)
		moisture += cfg.Water.HumidEvapRate * ef
		pressure += cfg.Water.BaroEvapRate * ef
	}

	s.Wind[ci] = wind
	s.Humidity[ci] = moisture
	s.Temperature[ci] = temp
	s.Pressure[ci] = core.Clamp(pressure, -0.999, 0.999)
	l.pending[ci] = l.pending[ci][:0]
}
