package motion

import "math"

// PointerIdle is the pointer value meaning "no pointer over the strip".
const PointerIdle = -1.0

// DefaultScrollEpsilon is the display-to-target gap below which the scroll
// tracker stops stepping.
const DefaultScrollEpsilon = 0.01

type listener struct {
	id uint64
	fn func(float64)
}

// listeners is the subscriber list shared by both trackers. Trackers are
// owned by a single surface loop, so it is not locked.
type listeners struct {
	next uint64
	subs []listener
}

func (l *listeners) subscribe(fn func(float64)) func() {
	l.next++
	id := l.next
	l.subs = append(l.subs, listener{id: id, fn: fn})
	return func() { l.unsubscribe(id) }
}

func (l *listeners) unsubscribe(id uint64) {
	for i, s := range l.subs {
		if s.id == id {
			l.subs = append(l.subs[:i], l.subs[i+1:]...)
			return
		}
	}
}

func (l *listeners) notify(v float64) {
	subs := make([]listener, len(l.subs))
	copy(subs, l.subs)
	for _, s := range subs {
		s.fn(v)
	}
}

func (l *listeners) len() int { return len(l.subs) }

// Pointer tracks the last horizontal pointer coordinate over the strip.
type Pointer struct {
	x    float64
	subs listeners
}

// NewPointer returns an idle pointer tracker.
func NewPointer() *Pointer {
	return &Pointer{x: PointerIdle}
}

// X returns the current coordinate or PointerIdle.
func (p *Pointer) X() float64 { return p.x }

// Idle reports whether no pointer is present.
func (p *Pointer) Idle() bool { return p.x == PointerIdle }

// Move records a pointer position and notifies subscribers if it changed.
func (p *Pointer) Move(x float64) {
	if x == p.x {
		return
	}
	p.x = x
	p.subs.notify(x)
}

// Leave marks the pointer idle.
func (p *Pointer) Leave() { p.Move(PointerIdle) }

// Subscribe registers fn for pointer changes and returns its release func.
func (p *Pointer) Subscribe(fn func(x float64)) func() { return p.subs.subscribe(fn) }

// Subscribers returns the number of live subscriptions.
func (p *Pointer) Subscribers() int { return p.subs.len() }

// Scroll keeps a clamped scroll target and a display value that is eased
// toward it once per frame.
type Scroll struct {
	max      float64
	rate     float64
	epsilon  float64
	target   float64
	display  float64
	velocity float64
	subs     listeners
}

// NewScroll returns a tracker for offsets in [0, max], easing at rate.
func NewScroll(max, rate float64) *Scroll {
	return &Scroll{max: max, rate: rate, epsilon: DefaultScrollEpsilon}
}

// SetEpsilon overrides the settle gap.
func (s *Scroll) SetEpsilon(eps float64) { s.epsilon = eps }

// Scroll stores raw, clamped to the travel range, as the new target.
func (s *Scroll) Scroll(raw float64) {
	s.target = Clamp(raw, 0, s.max)
}

// Target returns the clamped target.
func (s *Scroll) Target() float64 { return s.target }

// Display returns the smoothed value.
func (s *Scroll) Display() float64 { return s.display }

// Velocity returns the display value's rate of change in units per second
// over the last advance.
func (s *Scroll) Velocity() float64 { return s.velocity }

// Max returns the travel range.
func (s *Scroll) Max() float64 { return s.max }

// Settled reports whether the display value is within epsilon of target.
func (s *Scroll) Settled() bool {
	return math.Abs(s.target-s.display) <= s.epsilon
}

// Advance runs one smoothing step covering dt seconds. It returns false,
// without notifying anyone, when the display is already settled.
func (s *Scroll) Advance(dt float64) bool {
	if s.Settled() {
		s.velocity = 0
		return false
	}
	prev := s.display
	s.display = Step(s.display, s.target, s.rate)
	if dt > 0 {
		s.velocity = (s.display - prev) / dt
	}
	s.subs.notify(s.display)
	return true
}

// Subscribe registers fn for display changes and returns its release func.
func (s *Scroll) Subscribe(fn func(display float64)) func() { return s.subs.subscribe(fn) }

// Subscribers returns the number of live subscriptions.
func (s *Scroll) Subscribers() int { return s.subs.len() }
