package motion

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

const (
	// RestDelta is the distance to target under which a spring may settle.
	RestDelta = 0.001
	// RestSpeed is the speed under which a spring may settle.
	RestSpeed = 0.01
)

// SpringConfig describes a damped spring in physical terms.
type SpringConfig struct {
	Stiffness float64
	Damping   float64
	Mass      float64
	FPS       int
}

// DefaultSpring is critically damped (damping ratio 1).
var DefaultSpring = SpringConfig{Stiffness: 400, Damping: 40, Mass: 1, FPS: 60}

// AngularFrequency returns sqrt(k/m).
func (c SpringConfig) AngularFrequency() float64 {
	return math.Sqrt(c.Stiffness / c.Mass)
}

// DampingRatio returns c / (2*sqrt(k*m)). One is critical damping.
func (c SpringConfig) DampingRatio() float64 {
	return c.Damping / (2 * math.Sqrt(c.Stiffness*c.Mass))
}

// Interval is the simulated time of one spring step.
func (c SpringConfig) Interval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / time.Duration(DefaultSpring.FPS)
	}
	return time.Second / time.Duration(c.FPS)
}

// Spring integrates position and velocity toward a target at a fixed step.
type Spring struct {
	spring harmonica.Spring
}

// NewSpring builds a Spring from physical parameters.
func NewSpring(c SpringConfig) Spring {
	if c.FPS <= 0 {
		c.FPS = DefaultSpring.FPS
	}
	return Spring{spring: harmonica.NewSpring(harmonica.FPS(c.FPS), c.AngularFrequency(), c.DampingRatio())}
}

// Update advances one step and reports whether the motion came to rest, in
// which case the returned position is exactly target.
func (s Spring) Update(pos, vel, target float64) (float64, float64, bool) {
	pos, vel = s.spring.Update(pos, vel, target)
	if math.Abs(pos-target) < RestDelta && math.Abs(vel) < RestSpeed {
		return target, 0, true
	}
	return pos, vel, false
}
