package atmosphere

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"khaos-map/internal/config"
	"khaos-map/internal/core"
)

func init() {
	Register(config.StrategyDirect, func(env Env) Strategy { return NewDirect(env) })
}

// Direct is the single-log strategy. While polling its neighbours a cell
// moves wind, pressure, humidity and heat between the delta accumulators
// immediately; a commit pass then folds the deltas into the state and applies
// the soft and hard wind caps.
type Direct struct {
	env Env
	cfg config.DirectConfig

	phase  phase
	cursor int
	ticks  int
}

var _ Strategy = (*Direct)(nil)

// NewDirect builds the single-log strategy over env.
func NewDirect(env Env) *Direct {
	env.State.ResetDeltas()
	return &Direct{env: env, cfg: env.Config.Direct}
}

func (d *Direct) Name() string { return config.StrategyDirect }

func (d *Direct) Ticks() int { return d.ticks }

func (d *Direct) Tick() { tickAll(d) }

// Walk steps until budget is spent or a pass completes.
func (d *Direct) Walk(budget time.Duration) bool { return core.Walk(budget, d.Step) }

// Step performs one cell visit of the current phase and reports whether it
// completed a full pass.
func (d *Direct) Step() bool {
	n := len(d.env.Mesh.Cells)
	if n == 0 {
		d.ticks++
		return true
	}
	if d.phase == phaseCalculate {
		d.calculate(d.cursor)
		d.cursor++
		if d.cursor == n {
			d.phase, d.cursor = phaseApply, 0
		}
		return false
	}
	d.commit(d.cursor)
	d.cursor++
	if d.cursor == n {
		d.phase, d.cursor = phaseCalculate, 0
		d.ticks++
		return true
	}
	return false
}

// calculate lets cell ci pull from every neighbour whose wind points at it
// within the critical angles, then adds the scalar forcing terms.
func (d *Direct) calculate(ci int) {
	s := d.env.State
	cfg := d.env.Config
	cell := d.env.Mesh.Cells[ci]

	for _, nb := range cell.Neighbors {
		wind := s.Wind[nb]
		if wind.Len() == 0 {
			continue
		}
		toSelf := cell.Pos.Sub(d.env.Mesh.Cells[nb].Pos)
		diff := core.AngleBetween(core.Heading(wind), core.Heading(toSelf))

		if diff < d.cfg.CriticalAngle {
			k := 1 - diff/d.cfg.CriticalAngle
			d.takeWind(nb, ci, k)
			d.takeBaro(nb, ci, k)
			d.takeHumidity(nb, ci, k)
		}
		if diff < d.cfg.TempsCriticalAngle {
			d.takeTemp(nb, ci, 1-diff/d.cfg.TempsCriticalAngle)
		}
	}

	t := cfg.Temperature
	lat := s.latitude(cell.Pos.Y())
	tropics := cfg.Atmosphere.TropicsExtent
	arcticStart := d.env.Mesh.FarY - cfg.Atmosphere.ArcticExtent
	jet := mgl64.Vec2{d.cfg.JetStream, 0}
	switch {
	case lat < tropics:
		strength := 1 - lat/tropics
		s.WindDelta[ci] = s.WindDelta[ci].Add(jet.Mul(strength))
		if s.Temperature[ci] < t.Equatorial {
			s.TemperatureDelta[ci] += t.EquatorialRise * strength
		}
	case lat > arcticStart:
		strength := core.Clamp01((lat - arcticStart) / cfg.Atmosphere.ArcticExtent)
		s.WindDelta[ci] = s.WindDelta[ci].Sub(jet.Mul(strength))
		s.TemperatureDelta[ci] -= t.ArcticCooling * strength
	}
	s.TemperatureDelta[ci] -= t.NaturalCooling

	if d.env.Terrain.CellAltitude[ci] > cfg.Water.SeaLevel {
		s.WindDelta[ci] = s.WindDelta[ci].Add(s.Deflection[ci].Mul(d.cfg.DeflectionWeight))
	} else {
		ef := EvaporationFactor(s.Temperature[ci]+s.TemperatureDelta[ci], t)
		s.PressureDelta[ci] += cfg.Water.BaroEvapRate * ef
		s.HumidityDelta[ci] += cfg.Water.HumidEvapRate * ef
	}
}

// takeWind moves a share of donor's wind into the receiver. Higher donor
// pressure pushes more air.
func (d *Direct) takeWind(donor, recv int, k float64) {
	s := d.env.State
	pressureFactor := math.Max(0, 1+s.Pressure[donor]*d.cfg.BaroWindEffect)
	delta := s.Wind[donor].Mul(k * d.cfg.TakeStrength * pressureFactor)
	s.WindDelta[donor] = s.WindDelta[donor].Sub(delta)
	s.WindDelta[recv] = s.WindDelta[recv].Add(delta)
}

// takeBaro moves pressure from donor to receiver. Warm donors push less, cool
// donors more:
//
//	base  = (p_d - p_r) * k * BaroTransferRate
//	tp    = (T_d - lowest) / (equatorial - lowest)
//	tp > 0.5:  base * (1 + p_d) / ((1 + p_r) + tp)
//	otherwise: base * ((1 + p_d) + (1 - tp)) / (1 + p_r)
//
// No transfer happens when it would push either side past +-1.
func (d *Direct) takeBaro(donor, recv int, k float64) {
	s := d.env.State
	t := d.env.Config.Temperature
	pd, pr := s.Pressure[donor], s.Pressure[recv]
	delta := (pd - pr) * k * d.cfg.BaroTransferRate
	tp := (s.Temperature[donor] - t.Lowest) / (t.Equatorial - t.Lowest)
	if tp > 0.5 {
		delta *= (1 + pd) / ((1 + pr) + tp)
	} else {
		delta *= ((1 + pd) + (1 - tp)) / (1 + pr)
	}
	nextRecv := pr + s.PressureDelta[recv] + delta
	nextDonor := pd + s.PressureDelta[donor] - delta
	if nextRecv >= 1 || nextRecv <= -1 || nextDonor >= 1 || nextDonor <= -1 {
		return
	}
	s.PressureDelta[donor] -= delta
	s.PressureDelta[recv] += delta
}

// takeHumidity moves humidity from donor to receiver, scaled by how much room
// the receiver has left.
func (d *Direct) takeHumidity(donor, recv int, k float64) {
	s := d.env.State
	have := s.Humidity[donor] + s.HumidityDelta[donor]
	room := 1 - (s.Humidity[recv] + s.HumidityDelta[recv])
	delta := core.Clamp(have*k*room, 0, math.Max(0, have))
	s.HumidityDelta[donor] -= delta
	s.HumidityDelta[recv] += delta
}

// takeTemp exchanges heat. Heat flowing into the receiver is multiplied by
// HeatBias, cold is divided by it.
func (d *Direct) takeTemp(donor, recv int, k float64) {
	s := d.env.State
	delta := ((s.Temperature[donor] + s.TemperatureDelta[donor]) -
		(s.Temperature[recv] + s.TemperatureDelta[recv])) * k * d.cfg.TempTransferRate
	if delta >= 0 {
		delta *= d.cfg.HeatBias
	} else {
		delta /= d.cfg.HeatBias
	}
	s.TemperatureDelta[donor] -= delta
	s.TemperatureDelta[recv] += delta
}

// commit folds cell ci's deltas into its state.
func (d *Direct) commit(ci int) {
	s := d.env.State
	cfg := d.env.Config
	t := cfg.Temperature
	alt := d.env.Terrain.CellAltitude[ci]

	wind := s.Wind[ci].Add(s.WindDelta[ci])
	if speed := wind.Len(); speed > d.cfg.SoftCap {
		wind = core.WithLen(wind, speed-(speed-d.cfg.SoftCap)*d.cfg.Resistance)
	}
	wind = core.ClampLen(wind, d.cfg.HardCap)

	temp := s.Temperature[ci] + s.TemperatureDelta[ci] - AltitudeCooling(alt, t)
	temp = core.Clamp(temp, t.Lowest, t.Highest)

	humidity := s.Humidity[ci] + s.HumidityDelta[ci]
	pressure := s.Pressure[ci] + s.PressureDelta[ci]
	rain := Rainfall(humidity, alt, temp, cfg)
	humidity -= rain
	pressure -= rain
	volume := rain * cfg.Water.RainfallMod
	s.Rain[ci] += volume
	s.RainfallThisYear[ci] += volume

	s.Wind[ci] = wind
	s.Temperature[ci] = temp
	s.Humidity[ci] = core.Clamp01(humidity)
	s.Pressure[ci] = core.Clamp(pressure, -0.999, 0.999)

	s.WindDelta[ci] = mgl64.Vec2{}
	s.TemperatureDelta[ci] = 0
	s.HumidityDelta[ci] = 0
	s.PressureDelta[ci] = 0
}
