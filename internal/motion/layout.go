package motion

import (
	"errors"
	"fmt"
	"math"
)

// ErrTooFewElements is returned when a layout has fewer than two elements,
// which would leave the strip with no travel range.
var ErrTooFewElements = errors.New("layout needs at least 2 elements")

// Layout holds the fixed geometry of a strip of lines. All lengths share one
// unit (pixels on a screen, sub-cell units in the terminal).
type Layout struct {
	ElementWidth float64
	ElementGap   float64
	ElementCount int
	BaseHeight   float64
	ActiveHeight float64
}

// NewLayout validates l and returns it.
func NewLayout(l Layout) (Layout, error) {
	if l.ElementCount < 2 {
		return Layout{}, fmt.Errorf("%w: got %d", ErrTooFewElements, l.ElementCount)
	}
	if l.ElementWidth <= 0 || l.ElementGap < 0 {
		return Layout{}, fmt.Errorf("invalid element width %v / gap %v", l.ElementWidth, l.ElementGap)
	}
	return l, nil
}

// Pitch is the distance between the left edges of two neighbouring lines.
func (l Layout) Pitch() float64 { return l.ElementWidth + l.ElementGap }

// TravelRange is the distance the scroll indicator can move.
func (l Layout) TravelRange() float64 { return l.Pitch() * float64(l.ElementCount-1) }

// Width is the total extent of the strip from the first line's left edge to
// the last line's right edge.
func (l Layout) Width() float64 { return l.TravelRange() + l.ElementWidth }

// Center returns the strip-relative horizontal center of line i.
func (l Layout) Center(i int) float64 {
	return float64(i)*l.Pitch() + l.ElementWidth/2
}

// Height returns the resting height of line i.
func (l Layout) Height(i int) float64 {
	if l.IsActive(i) {
		return l.ActiveHeight
	}
	return l.BaseHeight
}

// IsActive reports whether line i is a major tick. The first and last lines
// always are; the rest are spread evenly, roughly one per ElementGap lines.
func (l Layout) IsActive(i int) bool {
	count := l.ElementCount
	if i == 0 || i == count-1 {
		return true
	}
	gap := int(l.ElementGap)
	if gap < 1 {
		gap = 1
	}
	step := float64(count) / float64(count/gap+1)
	rem := math.Mod(float64(i), step)
	return math.Abs(rem) < 0.5 || math.Abs(rem-step) < 0.5
}
