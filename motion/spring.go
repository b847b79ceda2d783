package motion

import "math"

// MaxStep bounds the time (seconds) a single Step may integrate. Longer gaps,
// such as a backgrounded window, are treated as MaxStep.
const MaxStep = 0.1

// subStep is the largest interval integrated in one pass.
const subStep = 1.0 / 120

// SpringConfig holds the physical constants of a spring.
type SpringConfig struct {
	Stiffness float64
	Damping   float64
	// RestDelta is the threshold below which both distance to target and
	// velocity count as settled.
	RestDelta float64
}

// DefaultSpringConfig is the pointer parallax tuning.
var DefaultSpringConfig = SpringConfig{Stiffness: 100, Damping: 30, RestDelta: 0.001}

// SpringState is the complete state of one animated property.
type SpringState struct {
	Current  float64
	Target   float64
	Velocity float64

	Stiffness float64
	Damping   float64
	RestDelta float64

	// Idle is set once the spring has settled on Target.
	Idle bool
}

// NewSpringState returns a settled state at value using cfg.
func NewSpringState(value float64, cfg SpringConfig) SpringState {
	return SpringState{
		Current:   value,
		Target:    value,
		Stiffness: cfg.Stiffness,
		Damping:   cfg.Damping,
		RestDelta: cfg.RestDelta,
		Idle:      true,
	}
}

// WithTarget returns s chasing target. Velocity is preserved so motion stays
// continuous when the target moves mid-flight.
func (s SpringState) WithTarget(target float64) SpringState {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return s
	}
	if target == s.Target && s.Idle {
		return s
	}
	s.Target = target
	s.Idle = false
	return s
}

// AtRest reports whether both displacement and velocity are under RestDelta.
func (s SpringState) AtRest() bool {
	return math.Abs(s.Target-s.Current) < s.RestDelta && math.Abs(s.Velocity) < s.RestDelta
}

// Step advances s by dt seconds:
//
//	a = stiffness*(target-current) - damping*velocity
//	velocity += a*dt; current += velocity*dt
//
// dt is clamped to MaxStep and integrated in sub-steps of at most 1/120 s.
// Idle states are returned unchanged.
func Step(s SpringState, dt float64) SpringState {
	if s.Idle {
		return s
	}
	if math.IsNaN(dt) || dt < 0 {
		dt = 0
	}
	if dt > MaxStep {
		dt = MaxStep
	}

	for dt > 0 {
		h := dt
		if h > subStep {
			h = subStep
		}
		a := s.Stiffness*(s.Target-s.Current) - s.Damping*s.Velocity
		s.Velocity += a * h
		s.Current += s.Velocity * h
		dt -= h
	}

	if math.IsNaN(s.Current) || math.IsNaN(s.Velocity) {
		s.Current = s.Target
		s.Velocity = 0
	}

	if s.AtRest() {
		s.Current = s.Target
		s.Velocity = 0
		s.Idle = true
	}
	return s
}

// Spring owns one SpringState and publishes its current value on Output after
// every advance.
type Spring struct {
	state SpringState
	out   *Signal
}

// NewSpring creates a settled spring at initial.
func NewSpring(name string, initial float64, cfg SpringConfig) *Spring {
	return &Spring{
		state: NewSpringState(initial, cfg),
		out:   NewSignal(name, initial),
	}
}

func (s *Spring) Name() string { return s.out.Name() }

// Value returns the current animated value.
func (s *Spring) Value() float64 { return s.state.Current }

// Target returns the value the spring is moving toward.
func (s *Spring) Target() float64 { return s.state.Target }

// Idle reports whether the spring has settled and needs no further steps.
func (s *Spring) Idle() bool { return s.state.Idle }

// State returns a copy of the spring state.
func (s *Spring) State() SpringState { return s.state }

// Output is the signal carrying the animated value.
func (s *Spring) Output() *Signal { return s.out }

// SetTarget retargets the spring, waking it if idle.
func (s *Spring) SetTarget(v float64) {
	s.state = s.state.WithTarget(v)
}

// Jump moves the spring to v immediately, discarding velocity.
func (s *Spring) Jump(v float64) {
	cfg := SpringConfig{Stiffness: s.state.Stiffness, Damping: s.state.Damping, RestDelta: s.state.RestDelta}
	s.state = NewSpringState(v, cfg)
	s.out.Set(v)
}

// Advance integrates dt seconds. It reports whether the spring moved.
func (s *Spring) Advance(dt float64) bool {
	if s.state.Idle {
		return false
	}
	s.state = Step(s.state, dt)
	s.out.Set(s.state.Current)
	return true
}

// Follow retargets the spring on every snapshot of sig.
func (s *Spring) Follow(sig *Signal) (cancel func()) {
	s.SetTarget(sig.Value())
	return sig.Subscribe(s.SetTarget)
}

// SpringGroup steps a set of springs from a shared frame clock, skipping idle
// ones.
type SpringGroup struct {
	springs []*Spring
	last    float64
	started bool
}

// Add registers springs with the group.
func (g *SpringGroup) Add(springs ...*Spring) {
	for _, s := range springs {
		if s != nil {
			g.springs = append(g.springs, s)
		}
	}
}

// Len reports how many springs the group holds.
func (g *SpringGroup) Len() int { return len(g.springs) }

// Active reports how many springs are still moving.
func (g *SpringGroup) Active() int {
	n := 0
	for _, s := range g.springs {
		if !s.Idle() {
			n++
		}
	}
	return n
}

// Tick advances every non-idle spring by the time since the previous Tick.
// elapsed is seconds on a monotonic frame clock.
func (g *SpringGroup) Tick(elapsed float64) {
	if math.IsNaN(elapsed) || math.IsInf(elapsed, 0) {
		return
	}
	if !g.started {
		g.started = true
		g.last = elapsed
		return
	}
	dt := elapsed - g.last
	g.last = elapsed
	if dt <= 0 {
		return
	}
	for _, s := range g.springs {
		s.Advance(dt)
	}
}
