package motion

// Scheduler receives values that need spring steps. A host steps each woken
// value on its own cadence until Step reports it has come to rest.
type Scheduler interface {
	Wake(v *Value)
}

// SchedulerFunc adapts a plain function to Scheduler.
type SchedulerFunc func(v *Value)

func (f SchedulerFunc) Wake(v *Value) { f(v) }

// Value is a sprung scalar: a displayed position chasing a target.
type Value struct {
	spring Spring
	sched  Scheduler

	pos    float64
	vel    float64
	target float64

	awake  bool
	closed bool
}

// NewValue returns a value resting at initial.
func NewValue(initial float64, spring Spring, sched Scheduler) *Value {
	return &Value{spring: spring, sched: sched, pos: initial, target: initial}
}

// Get returns the displayed value.
func (v *Value) Get() float64 { return v.pos }

// Target returns the value being chased.
func (v *Value) Target() float64 { return v.target }

// Velocity returns the current spring velocity.
func (v *Value) Velocity() float64 { return v.vel }

// Awake reports whether the value is waiting on further steps.
func (v *Value) Awake() bool { return v.awake }

// Closed reports whether the owning binding has been torn down.
func (v *Value) Closed() bool { return v.closed }

// Set changes the target and wakes the value if it was asleep.
func (v *Value) Set(target float64) {
	if v.closed {
		return
	}
	v.target = target
	if v.awake || (v.pos == target && v.vel == 0) {
		return
	}
	v.awake = true
	if v.sched != nil {
		v.sched.Wake(v)
	}
}

// Jump places the value on target with no motion.
func (v *Value) Jump(target float64) {
	v.pos, v.vel, v.target = target, 0, target
}

// Step advances the spring by one step and reports whether more steps are
// needed.
func (v *Value) Step() bool {
	if v.closed || !v.awake {
		return false
	}
	var rest bool
	v.pos, v.vel, rest = v.spring.Update(v.pos, v.vel, v.target)
	if rest {
		v.awake = false
	}
	return v.awake
}

// Close stops the value; later Set and Step calls do nothing.
func (v *Value) Close() {
	v.closed = true
	v.awake = false
}
