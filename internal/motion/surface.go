package motion

import "time"

// Options collects every tunable of a surface.
type Options struct {
	Layout Layout

	DistanceLimit float64
	Intensity     float64
	MaxScale      float64
	ScaleDivisor  float64

	OpacityBase      float64
	OpacityIntensity float64

	ScrollSmoothing   float64
	ScrollEpsilon     float64
	VelocityThreshold float64
	NoReset           bool

	Spring   SpringConfig
	FrameFPS int

	// ScaleTransformer and OpacityTransformer replace the default
	// proximity transforms when set.
	ScaleTransformer   Transformer
	OpacityTransformer Transformer
}

// DefaultOptions returns the stock 40-line strip.
func DefaultOptions() Options {
	return Options{
		Layout: Layout{
			ElementWidth: 2,
			ElementGap:   8,
			ElementCount: 40,
			BaseHeight:   24,
			ActiveHeight: 32,
		},
		DistanceLimit:     100,
		Intensity:         10,
		MaxScale:          2,
		ScaleDivisor:      10,
		OpacityBase:       0.45,
		OpacityIntensity:  1,
		ScrollSmoothing:   0.5,
		ScrollEpsilon:     DefaultScrollEpsilon,
		VelocityThreshold: DefaultVelocityThreshold,
		Spring:            DefaultSpring,
		FrameFPS:          60,
	}
}

// ElementState is what a render surface draws for one line.
type ElementState struct {
	Index   int
	Active  bool
	Height  float64
	Scale   float64
	Opacity float64
}

// Surface owns the trackers, frame driver and bindings of one rendered strip.
// It is driven from a single goroutine.
type Surface struct {
	opts    Options
	layout  Layout
	pointer *Pointer
	scroll  *Scroll
	driver  *FrameDriver
	strip   *Strip
	spring  Spring
	sched   Scheduler

	bindings []*Binding
	lease    *Lease
}

// NewSurface validates opts and builds an unmounted surface. sched receives
// element values that need spring steps.
func NewSurface(opts Options, sched Scheduler) (*Surface, error) {
	layout, err := NewLayout(opts.Layout)
	if err != nil {
		return nil, err
	}
	scroll := NewScroll(layout.TravelRange(), opts.ScrollSmoothing)
	if opts.ScrollEpsilon > 0 {
		scroll.SetEpsilon(opts.ScrollEpsilon)
	}
	return &Surface{
		opts:    opts,
		layout:  layout,
		pointer: NewPointer(),
		scroll:  scroll,
		driver:  NewFrameDriver(scroll, opts.FrameFPS),
		strip:   NewStrip(layout),
		spring:  NewSpring(opts.Spring),
		sched:   sched,
	}, nil
}

func (s *Surface) scaleTransformer() Transformer {
	if s.opts.ScaleTransformer != nil {
		return s.opts.ScaleTransformer
	}
	p := ScaleProximity(s.opts.DistanceLimit)
	p.MaxValue = s.opts.MaxScale
	p.Divisor = s.opts.ScaleDivisor
	return p
}

func (s *Surface) opacityTransformer() Transformer {
	if s.opts.OpacityTransformer != nil {
		return s.opts.OpacityTransformer
	}
	return OpacityProximity(s.opts.DistanceLimit)
}

// Mount creates one binding per line and starts the frame loop. The
// returned lease is released by Close; hosts tag frame ticks with its Seq.
func (s *Surface) Mount() *Lease {
	if s.lease != nil {
		return s.lease
	}
	scale, opacity := s.scaleTransformer(), s.opacityTransformer()
	s.bindings = make([]*Binding, s.layout.ElementCount)
	for i := range s.bindings {
		s.bindings[i] = NewBinding(BindingConfig{
			Index:     i,
			Layout:    s.layout,
			Geometry:  s.strip.Element(i),
			Pointer:   s.pointer,
			Scroll:    s.scroll,
			Spring:    s.spring,
			Scheduler: s.sched,
			Scale: Channel{
				Base:        1,
				Intensity:   s.opts.Intensity,
				Transformer: scale,
			},
			Opacity: Channel{
				Base:        s.opts.OpacityBase,
				Intensity:   s.opts.OpacityIntensity,
				Transformer: opacity,
			},
			VelocityThreshold: s.opts.VelocityThreshold,
			NoReset:           s.opts.NoReset,
		})
	}
	s.lease = s.driver.Acquire()
	return s.lease
}

// Close stops the frame loop and tears down every binding. A later Mount
// starts over with fresh bindings and a new lease.
func (s *Surface) Close() {
	if s.lease != nil {
		s.lease.Release()
		s.lease = nil
	}
	for _, b := range s.bindings {
		b.Close()
	}
	s.bindings = nil
}

// Layout returns the validated layout.
func (s *Surface) Layout() Layout { return s.layout }

// Pointer returns the pointer tracker.
func (s *Surface) Pointer() *Pointer { return s.pointer }

// Scroll returns the scroll tracker.
func (s *Surface) Scroll() *Scroll { return s.scroll }

// Driver returns the frame driver.
func (s *Surface) Driver() *FrameDriver { return s.driver }

// Strip returns the strip geometry.
func (s *Surface) Strip() *Strip { return s.strip }

// Bindings returns the mounted bindings.
func (s *Surface) Bindings() []*Binding { return s.bindings }

// Measure places the strip's left edge at origin on screen.
func (s *Surface) Measure(origin float64) { s.strip.Measure(origin) }

// PointerMove forwards an on-screen pointer position.
func (s *Surface) PointerMove(x float64) { s.pointer.Move(x) }

// PointerLeave marks the pointer idle.
func (s *Surface) PointerLeave() { s.pointer.Leave() }

// ScrollTo records a raw scroll offset.
func (s *Surface) ScrollTo(raw float64) { s.scroll.Scroll(raw) }

// Frame runs one frame of the driver.
func (s *Surface) Frame(dt time.Duration) bool { return s.driver.Tick(dt) }

// Marker returns the smoothed indicator position along the travel range.
func (s *Surface) Marker() float64 { return s.scroll.Display() }

// Elements returns the current drawable state of every line.
func (s *Surface) Elements() []ElementState {
	out := make([]ElementState, len(s.bindings))
	for i, b := range s.bindings {
		out[i] = ElementState{
			Index:   i,
			Active:  s.layout.IsActive(i),
			Height:  s.layout.Height(i),
			Scale:   b.Scale().Get(),
			Opacity: b.Opacity().Get(),
		}
	}
	return out
}
