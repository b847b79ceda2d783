package motion

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrTooFewPoints is returned when a derivation has fewer than two control points.
	ErrTooFewPoints = errors.New("motion: at least two control points required")
	// ErrUnsortedPoints is returned when control point inputs are not strictly increasing.
	ErrUnsortedPoints = errors.New("motion: control points must be sorted by input")
	// ErrInvalidPoint is returned when a control point holds NaN or Inf.
	ErrInvalidPoint = errors.New("motion: control point must be finite")
	// ErrNilSource is returned when a derivation has no source signal.
	ErrNilSource = errors.New("motion: nil source signal")
)

// Signal is a named continuous scalar.
//
// Set publishes a new snapshot and synchronously notifies subscribers in
// registration order. A Signal is not safe for concurrent use; it belongs to
// the frame loop that owns the view.
type Signal struct {
	name  string
	value float64

	subs   []subscription
	nextID int
}

type subscription struct {
	id int
	fn func(float64)
}

// NewSignal creates a signal with an initial value.
func NewSignal(name string, initial float64) *Signal {
	return &Signal{name: name, value: initial}
}

func (s *Signal) Name() string { return s.name }

// Value returns the last published snapshot.
func (s *Signal) Value() float64 { return s.value }

// Set publishes v. NaN and infinite values are dropped and the previous
// snapshot is kept.
func (s *Signal) Set(v float64) {
	if !finite(v) {
		return
	}
	s.value = v

	// Subscribers may unsubscribe while being notified; iterate a snapshot.
	subs := s.subs
	for _, sub := range subs {
		sub.fn(v)
	}
}

// Subscribe registers fn to receive every published snapshot. The returned
// function removes the subscription and is safe to call more than once.
func (s *Signal) Subscribe(fn func(float64)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id != id {
				continue
			}
			next := make([]subscription, 0, len(s.subs)-1)
			next = append(next, s.subs[:i]...)
			next = append(next, s.subs[i+1:]...)
			s.subs = next
			return
		}
	}
}

// Subscribers reports the number of live subscriptions.
func (s *Signal) Subscribers() int { return len(s.subs) }

// ControlPoint maps an input value to an output value.
type ControlPoint struct {
	In  float64
	Out float64
}

// Points builds control points from parallel input/output ranges, matching the
// usual "[0, 0.1] -> [0, -100]" notation.
func Points(in, out []float64) []ControlPoint {
	n := len(in)
	if len(out) < n {
		n = len(out)
	}
	pts := make([]ControlPoint, n)
	for i := 0; i < n; i++ {
		pts[i] = ControlPoint{In: in[i], Out: out[i]}
	}
	return pts
}

// DerivedSignal is a Signal computed from a source by piecewise-linear
// interpolation. It can itself be used as the source of another derivation.
type DerivedSignal struct {
	*Signal

	source *Signal
	points []ControlPoint
	cancel func()
}

// Derive creates a derived signal bound to source. Configuration errors are
// reported here, never at evaluation time.
func Derive(name string, source *Signal, points ...ControlPoint) (*DerivedSignal, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("derive %q: %w", name, ErrTooFewPoints)
	}
	for i, p := range points {
		if !finite(p.In) || !finite(p.Out) {
			return nil, fmt.Errorf("derive %q: point %d (%g, %g): %w", name, i, p.In, p.Out, ErrInvalidPoint)
		}
	}
	for i := 1; i < len(points); i++ {
		if !(points[i].In > points[i-1].In) {
			return nil, fmt.Errorf("derive %q: point %d (in=%g) after in=%g: %w",
				name, i, points[i].In, points[i-1].In, ErrUnsortedPoints)
		}
	}

	pts := make([]ControlPoint, len(points))
	copy(pts, points)

	d := &DerivedSignal{source: source, points: pts}
	d.Signal = NewSignal(name, d.Eval(source.Value()))
	d.cancel = source.Subscribe(func(v float64) {
		d.Signal.Set(d.Eval(v))
	})
	return d, nil
}

// MustDerive is Derive for statically known control points; it panics on a
// configuration error.
func MustDerive(name string, source *Signal, points ...ControlPoint) *DerivedSignal {
	d, err := Derive(name, source, points...)
	if err != nil {
		panic(err)
	}
	return d
}

// Source returns the signal this one is derived from.
func (d *DerivedSignal) Source() *Signal { return d.source }

// Eval maps x through the control points without touching any state.
// Inputs outside the first/last point clamp to the boundary outputs.
func (d *DerivedSignal) Eval(x float64) float64 {
	return interpolate(d.points, x)
}

// Detach stops following the source. The last value is kept.
func (d *DerivedSignal) Detach() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func interpolate(pts []ControlPoint, x float64) float64 {
	first := pts[0]
	last := pts[len(pts)-1]
	if math.IsNaN(x) {
		return first.Out
	}
	if x <= first.In {
		return first.Out
	}
	if x >= last.In {
		return last.Out
	}

	for i := 1; i < len(pts); i++ {
		hi := pts[i]
		if x > hi.In {
			continue
		}
		lo := pts[i-1]
		t := (x - lo.In) / (hi.In - lo.In)
		return lo.Out + t*(hi.Out-lo.Out)
	}
	return last.Out
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
