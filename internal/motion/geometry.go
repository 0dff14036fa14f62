package motion

// Rect is an element's horizontal extent on screen.
type Rect struct {
	X     float64
	Width float64
}

// CenterX returns the horizontal center of r.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// Geometry is a read-only handle to a rendered element. ok is false until the
// element has been measured.
type Geometry interface {
	Bounds() (r Rect, ok bool)
}

// GeometryFunc adapts a plain function to Geometry.
type GeometryFunc func() (Rect, bool)

func (f GeometryFunc) Bounds() (Rect, bool) { return f() }

// Strip measures a row of lines laid out from an on-screen origin. Hosts
// call Measure whenever the row moves (window resize, re-layout).
type Strip struct {
	layout   Layout
	origin   float64
	measured bool
}

// NewStrip returns an unmeasured strip.
func NewStrip(l Layout) *Strip {
	return &Strip{layout: l}
}

// Measure places the strip's left edge at origin.
func (s *Strip) Measure(origin float64) {
	s.origin = origin
	s.measured = true
}

// Forget drops the measurement, as when the row leaves the screen.
func (s *Strip) Forget() { s.measured = false }

// Origin returns the left edge and whether the strip is measured.
func (s *Strip) Origin() (float64, bool) { return s.origin, s.measured }

// Element returns the live geometry handle of line i.
func (s *Strip) Element(i int) Geometry {
	return GeometryFunc(func() (Rect, bool) {
		if !s.measured {
			return Rect{}, false
		}
		return Rect{X: s.origin + float64(i)*s.layout.Pitch(), Width: s.layout.ElementWidth}, true
	})
}
