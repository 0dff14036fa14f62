package motion

import "math"

// DefaultVelocityThreshold is the scroll speed, in units per second, at which
// a scroll-driven target stops blending and follows the transform exactly.
const DefaultVelocityThreshold = 300

// Channel configures one sprung output of a binding.
type Channel struct {
	Base        float64
	Intensity   float64
	Transformer Transformer
}

// BindingConfig wires one element to the surface's trackers.
type BindingConfig struct {
	Index     int
	Layout    Layout
	Geometry  Geometry
	Pointer   *Pointer
	Scroll    *Scroll
	Spring    Spring
	Scheduler Scheduler

	Scale   Channel
	Opacity Channel

	VelocityThreshold float64
	// NoReset makes scroll updates take the transformed target directly
	// instead of blending by scroll velocity.
	NoReset bool
}

type channel struct {
	Channel
	initial float64
	value   *Value
}

func (c *channel) transform(distance float64) float64 {
	return c.Transformer.Transform(distance, c.initial, c.Base, c.Intensity)
}

// Binding drives one element's scale and opacity from pointer and scroll.
// Both subscriptions write the same targets; the most recent one wins.
type Binding struct {
	index     int
	center    float64
	geom      Geometry
	scroll    *Scroll
	threshold float64
	reset     bool

	scale   channel
	opacity channel

	release []func()
}

// NewBinding creates the element's values and subscribes to both trackers.
func NewBinding(cfg BindingConfig) *Binding {
	threshold := cfg.VelocityThreshold
	if threshold <= 0 {
		threshold = DefaultVelocityThreshold
	}
	b := &Binding{
		index:     cfg.Index,
		center:    cfg.Layout.Center(cfg.Index),
		geom:      cfg.Geometry,
		scroll:    cfg.Scroll,
		threshold: threshold,
		reset:     !cfg.NoReset,
		scale:     newChannel(cfg.Scale, cfg.Spring, cfg.Scheduler),
		opacity:   newChannel(cfg.Opacity, cfg.Spring, cfg.Scheduler),
	}
	b.release = append(b.release,
		cfg.Pointer.Subscribe(b.onPointer),
		cfg.Scroll.Subscribe(b.onScroll),
	)
	return b
}

func newChannel(c Channel, spring Spring, sched Scheduler) channel {
	if c.Transformer == nil {
		c.Transformer = ScaleProximity(100)
	}
	return channel{Channel: c, initial: c.Base, value: NewValue(c.Base, spring, sched)}
}

// Index returns the element index.
func (b *Binding) Index() int { return b.index }

// Center returns the layout-derived center used for scroll distance.
func (b *Binding) Center() float64 { return b.center }

// Scale returns the sprung scale value.
func (b *Binding) Scale() *Value { return b.scale.value }

// Opacity returns the sprung opacity value.
func (b *Binding) Opacity() *Value { return b.opacity.value }

func (b *Binding) channels() [2]*channel { return [2]*channel{&b.scale, &b.opacity} }

func (b *Binding) onPointer(x float64) {
	if x == PointerIdle {
		for _, c := range b.channels() {
			c.value.Set(c.initial)
		}
		return
	}
	r, ok := b.geom.Bounds()
	if !ok {
		return
	}
	d := x - r.CenterX()
	for _, c := range b.channels() {
		c.value.Set(c.transform(d))
	}
}

func (b *Binding) onScroll(display float64) {
	d := display - b.center
	velocity := b.scroll.Velocity()
	for _, c := range b.channels() {
		candidate := c.transform(d)
		if b.reset {
			candidate = VelocityBlend(c.value.Get(), candidate, velocity, b.threshold)
		}
		c.value.Set(candidate)
	}
}

// VelocityBlend moves from previous toward candidate in proportion to how
// close |velocity| is to threshold. At zero velocity it returns previous; at
// or above the threshold it returns candidate exactly.
func VelocityBlend(previous, candidate, velocity, threshold float64) float64 {
	return Lerp(previous, candidate, math.Abs(velocity)/threshold)
}

// Close releases both subscriptions and stops both values. It is safe to
// call more than once.
func (b *Binding) Close() {
	for _, release := range b.release {
		release()
	}
	b.release = nil
	b.scale.value.Close()
	b.opacity.value.Close()
}
