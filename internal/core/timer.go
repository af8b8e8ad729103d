package core

import "time"

// now is swapped in tests that need a controllable clock.
var now = time.Now

// FixedStep helps run simulation updates at a steady ticks-per-second rate.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	if tps <= 0 {
		tps = 60
	}
	fs := &FixedStep{}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// Interval returns the duration of a single tick.
func (f *FixedStep) Interval() time.Duration { return f.step }

// ShouldStep reports whether the simulation should advance by one tick.
func (f *FixedStep) ShouldStep() bool {
	t := now()
	if f.last.IsZero() {
		f.last = t
	}
	delta := t.Sub(f.last)
	f.last = t
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}

// Walk calls step until it reports a completed pass or until another call
// would likely overrun the budget. The duration of the previous call is used
// as the estimate for the next one. Walk reports whether a pass completed.
func Walk(budget time.Duration, step func() bool) bool {
	start := now()
	var last time.Duration
	for now().Sub(start)+last < budget {
		began := now()
		if step() {
			return true
		}
		last = now().Sub(began)
	}
	return false
}
