package scene

import (
	"errors"
	"math"
	"testing"
)

// recordingScene is an in-memory backend that records calls.
type recordingScene struct {
	prims      []Primitive
	transforms map[NodeID]Transform
	sets       int
	disposed   int
	limit      int
}

func newRecordingScene() *recordingScene {
	return &recordingScene{transforms: make(map[NodeID]Transform)}
}

func (s *recordingScene) Add(p Primitive) (NodeID, error) {
	if s.disposed > 0 {
		return -1, ErrSceneDisposed
	}
	if err := p.Validate(); err != nil {
		return -1, err
	}
	if s.limit > 0 && len(s.prims) >= s.limit {
		return -1, ErrSceneFull
	}
	s.prims = append(s.prims, p)
	return NodeID(len(s.prims) - 1), nil
}

func (s *recordingScene) SetTransform(id NodeID, t Transform) {
	if s.disposed > 0 {
		panic("SetTransform after Dispose")
	}
	s.transforms[id] = t
	s.sets++
}

func (s *recordingScene) Dispose() { s.disposed++ }

func TestHex(t *testing.T) {
	c, err := Hex("#8B7E74")
	if err != nil {
		t.Fatalf("Hex: %v", err)
	}
	if c != (Color{R: 0x8B, G: 0x7E, B: 0x74}) {
		t.Fatalf("unexpected color %+v", c)
	}
	if _, err := Hex("#12345"); err == nil {
		t.Fatal("expected error for short hex")
	}
	if _, err := Hex("zzzzzz"); err == nil {
		t.Fatal("expected error for non-hex digits")
	}
}

func TestPrimitiveValidate(t *testing.T) {
	tests := []struct {
		name string
		p    Primitive
		ok   bool
	}{
		{"cylinder", Cylinder(0.5, 0.5, 2, 32), true},
		{"cone", Cylinder(0, 0.3, 1, 16), true},
		{"flat cylinder", Cylinder(0.5, 0.5, 0, 32), false},
		{"zero radii", Cylinder(0, 0, 1, 32), false},
		{"sphere", Sphere(0.15, 16, 16), true},
		{"empty sphere", Sphere(0, 16, 16), false},
		{"no shape", Primitive{}, false},
		{"nan position", Sphere(1, 8, 8).At(V(math.NaN(), 0, 0)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidPrimitive) {
				t.Fatalf("expected ErrInvalidPrimitive, got %v", err)
			}
		})
	}
}

func TestBottleParts(t *testing.T) {
	parts := BottleParts()
	if len(parts) != 4 {
		t.Fatalf("expected 4 parts, got %d", len(parts))
	}
	if parts[1].RadiusTop != 0.2 || parts[1].RadiusBottom != 0.3 || parts[1].Position.Y != 1.25 {
		t.Fatalf("unexpected neck: %+v", parts[1])
	}
	if parts[3].Shape != ShapeSphere || parts[3].Position.Y != 1.8 {
		t.Fatalf("unexpected pump: %+v", parts[3])
	}
	if parts[2].Material.Metalness != 0.6 || parts[0].Material.Roughness != 0.2 {
		t.Fatal("unexpected materials")
	}
}

func TestNewBottlePropagatesBackendErrors(t *testing.T) {
	sc := newRecordingScene()
	sc.limit = 2
	if _, err := NewBottle(sc, DefaultSpin); !errors.Is(err, ErrSceneFull) {
		t.Fatalf("expected ErrSceneFull, got %v", err)
	}
	if _, err := NewBottle(nil, DefaultSpin); err == nil {
		t.Fatal("expected error for nil scene")
	}
}

func TestBottleFrameMovesAllParts(t *testing.T) {
	sc := newRecordingScene()
	b, err := NewBottle(sc, Spin{Rate: 1, BobAmplitude: 0.1, BobFrequency: 1})
	if err != nil {
		t.Fatalf("NewBottle: %v", err)
	}
	b.Offset = V(2, 0, 0)

	b.Frame(math.Pi / 2)
	for _, id := range b.Nodes() {
		tr, ok := sc.transforms[id]
		if !ok {
			t.Fatalf("node %d not transformed", id)
		}
		if math.Abs(tr.Rotation.Y-math.Pi/2) > 1e-12 {
			t.Fatalf("unexpected rotation %v", tr.Rotation.Y)
		}
		if math.Abs(tr.Position.Y-0.1) > 1e-12 || tr.Position.X != 2 {
			t.Fatalf("unexpected position %+v", tr.Position)
		}
		if tr.Scale != 1 {
			t.Fatalf("expected unit scale, got %v", tr.Scale)
		}
	}
}

func TestBottleFrameSkipsNonFinitePose(t *testing.T) {
	sc := newRecordingScene()
	b, _ := NewBottle(sc, DefaultSpin)
	b.Frame(1)
	before := sc.sets
	good := b.Current()

	b.Frame(math.NaN())
	if sc.sets != before {
		t.Fatal("NaN pose must not reach the backend")
	}
	if b.Current() != good {
		t.Fatal("expected previous pose to be kept")
	}
}

func TestNewModelRejectsEmptyParts(t *testing.T) {
	if _, err := NewModel(newRecordingScene(), nil, DefaultSpin); err == nil {
		t.Fatal("expected error for a model without parts")
	}
	sc := newRecordingScene()
	m, err := NewModel(sc, []Primitive{Sphere(1, 8, 8)}, DefaultSpin)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if len(m.Nodes()) != 1 || len(sc.prims) != 1 {
		t.Fatalf("nodes=%d prims=%d", len(m.Nodes()), len(sc.prims))
	}
}
