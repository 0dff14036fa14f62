package motion

import "math"

// Transformer maps a signed distance between a signal and an element to an
// output value. initial is the element's captured baseline and base its rest
// value.
type Transformer interface {
	Transform(distance, initial, base, intensity float64) float64
}

// TransformerFunc adapts a plain function to Transformer.
type TransformerFunc func(distance, initial, base, intensity float64) float64

func (f TransformerFunc) Transform(distance, initial, base, intensity float64) float64 {
	return f(distance, initial, base, intensity)
}

// Falloff shapes a normalized closeness n in [0, 1] (1 at zero distance).
type Falloff func(n float64) float64

// Quadratic rolls off smoother than linear and softer than cubic.
func Quadratic(n float64) float64 { return n * n }

// Linear is the identity falloff.
func Linear(n float64) float64 { return n }

// Proximity is the default Transformer. Beyond Limit it returns base, and at
// |distance| == Limit the falloff is zero, so the output is continuous there.
type Proximity struct {
	Limit    float64
	MaxValue float64
	Divisor  float64
	Falloff  Falloff
	// Ceiling caps the output when non-zero.
	Ceiling float64
}

// ScaleProximity is the quadratic transform used for the scale channel.
func ScaleProximity(limit float64) Proximity {
	return Proximity{Limit: limit, MaxValue: 2, Divisor: 10, Falloff: Quadratic}
}

// OpacityProximity is the linear transform used for the opacity channel.
func OpacityProximity(limit float64) Proximity {
	return Proximity{Limit: limit, MaxValue: 1, Divisor: 1, Falloff: Linear, Ceiling: 1}
}

// Transform ignores initial: the cutoff always resets to base.
func (p Proximity) Transform(distance, initial, base, intensity float64) float64 {
	d := math.Abs(distance)
	if d > p.Limit {
		return base
	}
	falloff := p.Falloff
	if falloff == nil {
		falloff = Quadratic
	}
	n := 1 - d/p.Limit
	v := base + intensity*falloff(n)*(p.MaxValue-base)/p.Divisor
	if p.Ceiling != 0 && v > p.Ceiling {
		return p.Ceiling
	}
	return v
}
