package tectonics

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"khaos-map/internal/config"
	"khaos-map/internal/core"
	"khaos-map/internal/mesh"
)

const epsilon = 1e-6

// DeformCrawler walks the grid one cell per Step. Reads come from the source
// grid only; every write lands in the accumulator, which replaces the source
// once a sweep completes.
type DeformCrawler struct {
	source *core.Grid[Cell]
	accum  *core.Grid[Cell]
	cfg    config.DeformConfig
	rng    *core.RNG

	x, y   int
	sweeps int
}

var _ core.Crawler = (*DeformCrawler)(nil)

// NewDeformCrawler takes ownership of grid.
func NewDeformCrawler(grid *core.Grid[Cell], cfg config.DeformConfig, rng *core.RNG) *DeformCrawler {
	return &DeformCrawler{
		source: grid,
		accum:  grid.Clone(),
		cfg:    cfg,
		rng:    rng,
	}
}

// Grid returns the committed grid from the last completed sweep.
func (d *DeformCrawler) Grid() *core.Grid[Cell] { return d.source }

// Sweeps returns the number of completed sweeps.
func (d *DeformCrawler) Sweeps() int { return d.sweeps }

// Step deforms the current cell against its east and next-row neighbours and
// advances the cursor. It reports whether the step finished a sweep.
func (d *DeformCrawler) Step() bool {
	d.deform(core.East)
	d.deform(core.South)

	if d.x < d.source.W-1 {
		d.x++
		return false
	}
	if d.y < d.source.H-1 {
		d.x = 0
		d.y++
		return false
	}
	d.x, d.y = 0, 0
	d.source = d.accum
	d.accum = d.source.Clone()
	d.sweeps++
	return true
}

// Walk steps until budget is spent or a sweep completes.
func (d *DeformCrawler) Walk(budget time.Duration) bool {
	return core.Walk(budget, d.Step)
}

// Sweep finishes the current sweep.
func (d *DeformCrawler) Sweep() {
	for !d.Step() {
	}
}

func (d *DeformCrawler) deform(q core.Dir) {
	nx, ny := d.x+q.X, d.y+q.Y
	if d.cfg.WrapHorizontal {
		nx, _ = d.source.Wrap(nx, ny)
	}
	if !d.source.Contains(nx, ny) {
		return
	}
	self := [2]int{d.x, d.y}
	nb := [2]int{nx, ny}
	a := core.Cardinal(d.source.At(d.x, d.y).Vector)
	b := core.Cardinal(d.source.At(nx, ny).Vector)

	switch {
	case q == a:
		// Moving into the neighbour.
		if a != b && a.SameAxis(b) {
			d.collide(self, nb)
		} else {
			d.accrete(self, nb)
		}
	case q.SameAxis(a):
		// Moving away from the neighbour.
		if a == b {
			d.accrete(nb, self)
		} else if a.SameAxis(b) {
			d.growRidge(self, nb, q)
		}
	default:
		if a == b {
			return
		}
		if a.SameAxis(b) {
			d.rift(self, nb)
		} else if b != q {
			d.accrete(nb, self)
		}
	}
}

// accrete moves part of donor's vector, density and altitude into target.
// Dense donors give slowly; tall or fast donors relative to the target give
// quickly.
func (d *DeformCrawler) accrete(donor, target [2]int) {
	src := d.source.At(donor[0], donor[1])
	dst := d.source.At(target[0], target[1])

	ratio := (src.Altitude+src.Vector.Len())/(dst.Altitude+dst.Vector.Len()+epsilon) - src.Density
	rate := core.Sigmoid(ratio, d.cfg.Weight, 0) * d.cfg.Speed

	give := d.accum.At(donor[0], donor[1])
	give.Density = core.Clamp01(give.Density - src.Density*rate)
	give.Altitude = core.Clamp01(give.Altitude - src.Altitude*rate)
	give.Vector = core.ClampLen(give.Vector.Sub(src.Vector.Mul(rate)), 1)

	take := d.accum.At(target[0], target[1])
	take.Density = core.Clamp01(take.Density + src.Density*rate)
	take.Altitude = core.Clamp01(take.Altitude + src.Altitude*rate)
	take.Vector = core.ClampLen(take.Vector.Add(src.Vector.Mul(rate)), 1)
}

// collide bounces the two vectors off each other. Cells of similar density
// buckle and both rise; otherwise the denser cell subducts and hands
// altitude to the lighter one.
func (d *DeformCrawler) collide(aXY, bXY [2]int) {
	a := d.source.At(aXY[0], aXY[1])
	b := d.source.At(bXY[0], bXY[1])
	am, bm := a.Vector.Len(), b.Vector.Len()

	var addA, addB mgl64.Vec2
	rate := core.Sigmoid(am/math.Max(bm, 1e-5), d.cfg.Weight, 1) * d.cfg.Speed
	if bm > 0.001 {
		addA = core.Reflect(a.Vector, b.Vector)
	}
	if am > 0.001 {
		addB = core.Reflect(b.Vector, a.Vector)
	}
	accA := d.accum.At(aXY[0], aXY[1])
	accB := d.accum.At(bXY[0], bXY[1])
	accA.Vector = core.ClampLen(accA.Vector.Add(addA.Mul(rate)), 1)
	accB.Vector = core.ClampLen(accB.Vector.Add(addB.Mul(rate)), 1)

	if math.Abs(a.Density-b.Density) < d.cfg.DensityDeviance {
		gainA := buckleGain(am+bm, a.Altitude) * d.cfg.Speed
		gainB := buckleGain(am+bm, b.Altitude) * d.cfg.Speed
		accA.Altitude = core.Clamp01(accA.Altitude + gainA)
		accB.Altitude = core.Clamp01(accB.Altitude + gainB)
		return
	}

	donor, target := a, b
	accDonor, accTarget := accA, accB
	if b.Density > a.Density {
		donor, target = b, a
		accDonor, accTarget = accB, accA
	}
	change := math.Min(donor.Altitude/2, 1-target.Altitude)
	accDonor.Altitude = core.Clamp01(accDonor.Altitude - change)
	accTarget.Altitude = core.Clamp01(accTarget.Altitude + change)
}

// buckleGain is the altitude a buckling cell gains per unit of speed. Fast
// collisions push past the cell's height; slower ones still rise in
// proportion to the closing speed and the headroom left below 1.
func buckleGain(closing, alt float64) float64 {
	return math.Max(closing-2*alt, closing/2*(1-alt))
}

// growRidge raises a spreading boundary. Both cells gain altitude and turn to
// point away from each other; q points from self towards the neighbour.
func (d *DeformCrawler) growRidge(self, nb [2]int, q core.Dir) {
	step := d.cfg.Growth * d.cfg.Speed
	for _, side := range []struct {
		xy  [2]int
		dir mgl64.Vec2
	}{
		{self, q.Vec().Mul(-1)},
		{nb, q.Vec()},
	} {
		c := d.accum.At(side.xy[0], side.xy[1])
		c.Altitude = core.Clamp01(c.Altitude + d.cfg.Growth)
		c.Vector = core.WithLen(side.dir, math.Min(1, c.Vector.Len()+step))
	}
}

// rift exchanges a random, signed amount of altitude between the two cells.
func (d *DeformCrawler) rift(aXY, bXY [2]int) {
	f := (d.rng.Float64()*2 - 1) * d.cfg.FaultMagnitude * d.cfg.Speed
	a := d.accum.At(aXY[0], aXY[1])
	b := d.accum.At(bXY[0], bXY[1])
	a.Altitude = core.Clamp01(a.Altitude + f)
	b.Altitude = core.Clamp01(b.Altitude - f)
}

// Generate seeds a grid, runs cfg.Sweeps full sweeps and resamples the result
// onto the mesh vertices.
func Generate(m *mesh.Mesh, cfg config.DeformConfig, rng *core.RNG, logger *slog.Logger) ([]float64, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(m.Vertices) == 0 {
		return nil, errors.New("tectonics: mesh has no vertices")
	}
	grid := NewGrid(cfg.Width, cfg.Height, cfg.Plates, rng)
	crawler := NewDeformCrawler(grid, cfg, rng)
	for i := 0; i < cfg.Sweeps; i++ {
		crawler.Sweep()
		logger.Debug("deformation sweep", "sweep", crawler.Sweeps())
	}
	return Resample(crawler.Grid(), m), nil
}
