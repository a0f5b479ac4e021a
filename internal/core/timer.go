package core

import "time"

// FixedStep helps run simulation updates at a steady ticks-per-second rate.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	maxCatchUp  int

	now func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	if tps <= 0 {
		tps = 60
	}
	fs := &FixedStep{maxCatchUp: 4, now: time.Now}
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

// SetMaxCatchUp bounds how many ticks Due reports after a stall.
func (f *FixedStep) SetMaxCatchUp(n int) {
	if n <= 0 {
		n = 1
	}
	f.maxCatchUp = n
}

// Interval returns the duration of one tick.
func (f *FixedStep) Interval() time.Duration { return f.step }

func (f *FixedStep) advance() {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
}

// ShouldStep reports whether the simulation should advance by one tick.
func (f *FixedStep) ShouldStep() bool {
	f.advance()
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}

// Due consumes and returns the number of whole ticks owed since the last
// call. Backlog beyond the catch-up limit is dropped so a slow frame cannot
// snowball into a longer one.
func (f *FixedStep) Due() int {
	f.advance()
	n := int(f.accumulator / f.step)
	if n > f.maxCatchUp {
		n = f.maxCatchUp
		f.accumulator = 0
		return n
	}
	f.accumulator -= time.Duration(n) * f.step
	return n
}
