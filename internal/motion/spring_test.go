package motion

import (
	"math"
	"testing"
)

func TestDefaultSpringIsCriticallyDamped(t *testing.T) {
	if got := DefaultSpring.DampingRatio(); math.Abs(got-1) > 1e-12 {
		t.Fatalf("DampingRatio() = %v, want 1", got)
	}
	if got := DefaultSpring.AngularFrequency(); math.Abs(got-20) > 1e-12 {
		t.Fatalf("AngularFrequency() = %v, want 20", got)
	}
}

func TestSpringSettlesWithoutOvershoot(t *testing.T) {
	s := NewSpring(DefaultSpring)
	pos, vel := 1.0, 0.0
	const target = 2.0
	for step := 1; step <= 120; step++ {
		var rest bool
		pos, vel, rest = s.Update(pos, vel, target)
		if pos > target+1e-6 {
			t.Fatalf("step %d: overshoot to %v", step, pos)
		}
		if rest {
			if pos != target || vel != 0 {
				t.Fatalf("rest state = (%v, %v), want (%v, 0)", pos, vel, target)
			}
			return
		}
	}
	t.Fatalf("spring did not settle within 120 steps, pos=%v vel=%v", pos, vel)
}

func TestSpringIntervalFallsBackToDefaultFPS(t *testing.T) {
	c := DefaultSpring
	c.FPS = 0
	if got, want := c.Interval(), DefaultSpring.Interval(); got != want {
		t.Fatalf("Interval() = %v, want %v", got, want)
	}
}
