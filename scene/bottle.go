package scene

import "fmt"

var (
	bottleGlass = Material{Color: MustHex("#8B7E74"), Metalness: 0.4, Roughness: 0.2}
	bottleCap   = Material{Color: MustHex("#413F3D"), Metalness: 0.6, Roughness: 0.1}
)

// BottleParts returns the primitives of the pump bottle: body, neck, cap and
// pump top, stacked along Y.
func BottleParts() []Primitive {
	return []Primitive{
		Cylinder(0.5, 0.5, 2, 32).With(bottleGlass),
		Cylinder(0.2, 0.3, 0.5, 32).At(V(0, 1.25, 0)).With(bottleGlass),
		Cylinder(0.25, 0.25, 0.2, 32).At(V(0, 1.6, 0)).With(bottleCap),
		Sphere(0.15, 16, 16).At(V(0, 1.8, 0)).With(bottleCap),
	}
}

// Bottle is a product model: a group of primitives moved together.
type Bottle struct {
	scene Scene
	nodes []NodeID
	spin  Spin

	// Offset is added to the group position every frame.
	Offset Vec3
	// Scale is applied to the whole group; zero means 1.
	Scale float64

	pose Transform
}

// NewBottle adds the bottle primitives to sc.
func NewBottle(sc Scene, spin Spin) (*Bottle, error) {
	return NewModel(sc, BottleParts(), spin)
}

// NewModel adds parts to sc as one spinning group.
func NewModel(sc Scene, parts []Primitive, spin Spin) (*Bottle, error) {
	if sc == nil {
		return nil, fmt.Errorf("bottle: nil scene")
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("bottle: no parts")
	}
	b := &Bottle{scene: sc, spin: spin, pose: Identity}
	for _, p := range parts {
		id, err := sc.Add(p)
		if err != nil {
			return nil, fmt.Errorf("bottle: add %s: %w", p.Shape, err)
		}
		b.nodes = append(b.nodes, id)
	}
	return b, nil
}

// Nodes returns the node ids of the parts.
func (b *Bottle) Nodes() []NodeID {
	out := make([]NodeID, len(b.nodes))
	copy(out, b.nodes)
	return out
}

// Pose returns the group transform for elapsed seconds.
func (b *Bottle) Pose(elapsed float64) Transform {
	angle, bob := b.spin.At(elapsed)
	scale := b.Scale
	if scale == 0 {
		scale = 1
	}
	return Transform{
		Position: b.Offset.Add(V(0, bob, 0)),
		Rotation: V(0, angle, 0),
		Scale:    scale,
	}
}

// Frame is the bottle's FrameFunc. Non-finite poses are dropped for the tick
// and the previous pose stays on screen.
func (b *Bottle) Frame(elapsed float64) {
	t := b.Pose(elapsed)
	if !t.Valid() {
		return
	}
	b.pose = t
	for _, id := range b.nodes {
		b.scene.SetTransform(id, t)
	}
}

// Current returns the last applied pose.
func (b *Bottle) Current() Transform { return b.pose }
