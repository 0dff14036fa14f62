package motion

// Step moves current toward target by rate, the fraction of the remaining gap
// closed per call. A rate of 1 or more lands exactly on target.
func Step(current, target, rate float64) float64 {
	switch {
	case current == target || rate <= 0:
		return current
	case rate >= 1:
		return target
	}
	return current + (target-current)*rate
}

// Lerp interpolates from a to b with t clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	return Step(a, b, Clamp(t, 0, 1))
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
