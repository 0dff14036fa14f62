package motion

import (
	"sync"
	"time"
)

// FrameDriver is the per-frame loop. It only advances the scroll tracker;
// element springs are stepped elsewhere, through a Scheduler.
type FrameDriver struct {
	scroll   *Scroll
	interval time.Duration

	seq    uint64
	active bool
	frames uint64
}

// NewFrameDriver returns a stopped driver for scroll at fps frames per second.
func NewFrameDriver(scroll *Scroll, fps int) *FrameDriver {
	if fps <= 0 {
		fps = 60
	}
	return &FrameDriver{scroll: scroll, interval: time.Second / time.Duration(fps)}
}

// Interval is the nominal time between frames.
func (d *FrameDriver) Interval() time.Duration { return d.interval }

// Lease is a running frame loop. Release stops it exactly once.
type Lease struct {
	d    *FrameDriver
	seq  uint64
	once sync.Once
}

// Acquire starts the loop. A new lease supersedes any earlier one, whose
// Release then does nothing.
func (d *FrameDriver) Acquire() *Lease {
	d.seq++
	d.active = true
	return &Lease{d: d, seq: d.seq}
}

// Seq identifies the lease; hosts tag scheduled ticks with it.
func (l *Lease) Seq() uint64 { return l.seq }

// Release stops the loop if this lease is still the current one.
func (l *Lease) Release() {
	l.once.Do(func() {
		if l.d.seq == l.seq {
			l.d.active = false
		}
	})
}

// Running reports whether a lease is held.
func (d *FrameDriver) Running() bool { return d.active }

// Current reports whether seq belongs to the live lease. Ticks carrying any
// other seq are stale and must not be rescheduled.
func (d *FrameDriver) Current(seq uint64) bool { return d.active && seq == d.seq }

// Frames returns the number of frames that did work.
func (d *FrameDriver) Frames() uint64 { return d.frames }

// Tick runs one frame covering dt. It reports whether the scroll display
// moved.
func (d *FrameDriver) Tick(dt time.Duration) bool {
	if !d.active {
		return false
	}
	if dt <= 0 {
		dt = d.interval
	}
	if !d.scroll.Advance(dt.Seconds()) {
		return false
	}
	d.frames++
	return true
}
