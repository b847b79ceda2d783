package motion

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestDeriveInterpolatesLinearly(t *testing.T) {
	scroll := NewSignal("scroll", 0)
	titleY, err := Derive("titleY", scroll, ControlPoint{0, 0}, ControlPoint{1, -100})
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	scroll.Set(0.05)
	if got := titleY.Value(); !approx(got, -5) {
		t.Fatalf("expected -5, got %v", got)
	}
}

func TestDeriveClampsOutsideDomain(t *testing.T) {
	scroll := NewSignal("scroll", 0)
	opacity := MustDerive("titleOpacity", scroll, Points([]float64{0, 0.1}, []float64{1, 0})...)

	tests := []struct {
		in   float64
		want float64
	}{
		{-1, 1},
		{0, 1},
		{0.05, 0.5},
		{0.1, 0},
		{0.7, 0},
		{5, 0},
	}
	for _, tt := range tests {
		scroll.Set(tt.in)
		if got := opacity.Value(); !approx(got, tt.want) {
			t.Fatalf("input %v: expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestDeriveMultiSegment(t *testing.T) {
	src := NewSignal("src", 0)
	d := MustDerive("d", src,
		ControlPoint{0, 0},
		ControlPoint{1, 10},
		ControlPoint{3, 0},
	)
	if got := d.Eval(0.5); !approx(got, 5) {
		t.Fatalf("expected 5, got %v", got)
	}
	if got := d.Eval(2); !approx(got, 5) {
		t.Fatalf("expected 5 on the falling segment, got %v", got)
	}
	if got := d.Eval(1); !approx(got, 10) {
		t.Fatalf("expected 10 at the knot, got %v", got)
	}
}

func TestDeriveInitialValueFollowsSource(t *testing.T) {
	src := NewSignal("src", 0.5)
	d := MustDerive("bgY", src, ControlPoint{0, 0}, ControlPoint{1, 300})
	if got := d.Value(); !approx(got, 150) {
		t.Fatalf("expected derived value computed at setup, got %v", got)
	}
}

func TestDeriveRejectsBadConfiguration(t *testing.T) {
	src := NewSignal("src", 0)

	if _, err := Derive("one", src, ControlPoint{0, 0}); !errors.Is(err, ErrTooFewPoints) {
		t.Fatalf("expected ErrTooFewPoints, got %v", err)
	}
	if _, err := Derive("none", src); !errors.Is(err, ErrTooFewPoints) {
		t.Fatalf("expected ErrTooFewPoints, got %v", err)
	}
	if _, err := Derive("unsorted", src, ControlPoint{1, 0}, ControlPoint{0, 1}); !errors.Is(err, ErrUnsortedPoints) {
		t.Fatalf("expected ErrUnsortedPoints, got %v", err)
	}
	if _, err := Derive("dup", src, ControlPoint{0, 0}, ControlPoint{0, 1}); !errors.Is(err, ErrUnsortedPoints) {
		t.Fatalf("expected ErrUnsortedPoints for duplicate inputs, got %v", err)
	}
	if _, err := Derive("nil", nil, ControlPoint{0, 0}, ControlPoint{1, 1}); !errors.Is(err, ErrNilSource) {
		t.Fatalf("expected ErrNilSource, got %v", err)
	}
	if src.Subscribers() != 0 {
		t.Fatalf("rejected derivations must not subscribe, got %d", src.Subscribers())
	}
}

func TestDeriveRejectsNonFinitePoints(t *testing.T) {
	src := NewSignal("src", 0)
	cases := map[string][]ControlPoint{
		"nan out": {{0, math.NaN()}, {1, 1}},
		"inf out": {{0, 0}, {1, math.Inf(-1)}},
		"nan in":  {{math.NaN(), 0}, {1, 1}},
		"inf in":  {{0, 0}, {math.Inf(1), 1}},
	}
	for name, pts := range cases {
		if _, err := Derive(name, src, pts...); !errors.Is(err, ErrInvalidPoint) {
			t.Fatalf("%s: expected ErrInvalidPoint, got %v", name, err)
		}
	}
	if src.Subscribers() != 0 {
		t.Fatalf("rejected derivations must not subscribe, got %d", src.Subscribers())
	}
}

func TestDerivedSignalsShareOneSnapshot(t *testing.T) {
	scroll := NewSignal("scroll", 0)
	y := MustDerive("bgY", scroll, ControlPoint{0, 0}, ControlPoint{1, 300})
	scale := MustDerive("bgScale", scroll, ControlPoint{0, 1}, ControlPoint{1, 1.2})

	// An observer on the second derivation must already see the first one updated.
	var seenY []float64
	scale.Subscribe(func(float64) { seenY = append(seenY, y.Value()) })

	scroll.Set(0.5)
	scroll.Set(1)

	if len(seenY) != 2 || !approx(seenY[0], 150) || !approx(seenY[1], 300) {
		t.Fatalf("expected consistent reads [150 300], got %v", seenY)
	}
	if !approx(scale.Value(), 1.2) {
		t.Fatalf("expected scale 1.2, got %v", scale.Value())
	}
}

func TestDerivedSignalChains(t *testing.T) {
	src := NewSignal("src", 0)
	a := MustDerive("a", src, ControlPoint{0, 0}, ControlPoint{1, 10})
	b := MustDerive("b", a.Signal, ControlPoint{0, 100}, ControlPoint{10, 0})

	src.Set(0.25)
	if !approx(b.Value(), 75) {
		t.Fatalf("expected chained value 75, got %v", b.Value())
	}
	if b.Source() != a.Signal {
		t.Fatal("expected b to report a as its source")
	}
}

func TestSignalIgnoresNonFinite(t *testing.T) {
	s := NewSignal("pointer", 3)
	calls := 0
	s.Subscribe(func(float64) { calls++ })

	s.Set(math.NaN())
	s.Set(math.Inf(1))
	if s.Value() != 3 || calls != 0 {
		t.Fatalf("expected value 3 and no notifications, got %v / %d", s.Value(), calls)
	}
}

func TestSubscribeCancel(t *testing.T) {
	s := NewSignal("s", 0)
	var got []float64
	cancel := s.Subscribe(func(v float64) { got = append(got, v) })
	s.Set(1)
	cancel()
	cancel()
	s.Set(2)

	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected only the first update, got %v", got)
	}
	if s.Subscribers() != 0 {
		t.Fatalf("expected no subscribers, got %d", s.Subscribers())
	}
}

func TestUnsubscribeDuringNotify(t *testing.T) {
	s := NewSignal("s", 0)
	var cancelA func()
	var order []string
	cancelA = s.Subscribe(func(float64) {
		order = append(order, "a")
		cancelA()
	})
	s.Subscribe(func(float64) { order = append(order, "b") })

	s.Set(1)
	s.Set(2)

	want := []string{"a", "b", "b"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestDetachStopsUpdates(t *testing.T) {
	src := NewSignal("src", 0)
	d := MustDerive("d", src, ControlPoint{0, 0}, ControlPoint{1, 1})
	src.Set(0.5)
	d.Detach()
	src.Set(1)
	if !approx(d.Value(), 0.5) {
		t.Fatalf("expected detached value to stay 0.5, got %v", d.Value())
	}
}

func TestPointsTruncatesToShorter(t *testing.T) {
	pts := Points([]float64{0, 1, 2}, []float64{5, 6})
	if len(pts) != 2 || pts[1] != (ControlPoint{1, 6}) {
		t.Fatalf("unexpected points %v", pts)
	}
}
