// Package scene drives per-frame updates of 3D product scenes.
//
// A Scene is any rendering backend that can hold primitives and accept
// transforms; quarkgl provides the software one. The Driver owns the frame
// callbacks and hands each one the wall-clock time elapsed since its scene was
// mounted, so motion does not depend on frame rate.
package scene

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrSceneDisposed is returned when adding to a disposed scene.
	ErrSceneDisposed = errors.New("scene: disposed")
	// ErrSceneFull is returned when a backend has no room for another node.
	ErrSceneFull = errors.New("scene: no free node slots")
	// ErrInvalidPrimitive is returned for primitives with degenerate dimensions.
	ErrInvalidPrimitive = errors.New("scene: invalid primitive")
)

// NodeID identifies a primitive inside one Scene.
type NodeID int

// Scene is the rendering backend contract.
type Scene interface {
	// Add inserts a primitive and returns its node id.
	Add(p Primitive) (NodeID, error)
	// SetTransform places a node. Unknown ids are ignored.
	SetTransform(id NodeID, t Transform)
	// Dispose releases the scene. Further Adds fail with ErrSceneDisposed.
	Dispose()
}

// Vec3 is a point or direction in scene units.
type Vec3 struct {
	X, Y, Z float64
}

func V(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) finite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// Color is an opaque 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Hex parses "#RRGGBB" (the leading # is optional).
func Hex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("scene: bad hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("scene: bad hex color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustHex is Hex for constants.
func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Material describes a physically based surface.
type Material struct {
	Color Color
	// Roughness in [0,1]; lower is glossier.
	Roughness float64
	// Metalness in [0,1].
	Metalness float64
}

// Shape selects the primitive geometry.
type Shape uint8

const (
	ShapeCylinder Shape = iota + 1
	ShapeSphere
)

func (s Shape) String() string {
	switch s {
	case ShapeCylinder:
		return "cylinder"
	case ShapeSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// Primitive is a geometry description positioned relative to its node origin.
type Primitive struct {
	Shape Shape

	// Cylinder dimensions.
	RadiusTop    float64
	RadiusBottom float64
	Height       float64

	// Sphere radius.
	Radius float64

	// Segments around the axis; Rings along it (spheres only).
	Segments int
	Rings    int

	Position Vec3
	Material Material
}

// Cylinder describes a (possibly tapered) cylinder centered on its origin.
func Cylinder(radiusTop, radiusBottom, height float64, segments int) Primitive {
	return Primitive{
		Shape:        ShapeCylinder,
		RadiusTop:    radiusTop,
		RadiusBottom: radiusBottom,
		Height:       height,
		Segments:     segments,
	}
}

// Sphere describes a UV sphere centered on its origin.
func Sphere(radius float64, segments, rings int) Primitive {
	return Primitive{Shape: ShapeSphere, Radius: radius, Segments: segments, Rings: rings}
}

// At returns p offset to pos.
func (p Primitive) At(pos Vec3) Primitive { p.Position = pos; return p }

// With returns p with material m.
func (p Primitive) With(m Material) Primitive { p.Material = m; return p }

// Validate rejects degenerate dimensions.
func (p Primitive) Validate() error {
	if !p.Position.finite() {
		return fmt.Errorf("%w: non-finite position", ErrInvalidPrimitive)
	}
	switch p.Shape {
	case ShapeCylinder:
		if p.Height <= 0 || p.RadiusTop < 0 || p.RadiusBottom < 0 || p.RadiusTop+p.RadiusBottom == 0 {
			return fmt.Errorf("%w: cylinder %gx%g/%g", ErrInvalidPrimitive, p.RadiusTop, p.RadiusBottom, p.Height)
		}
	case ShapeSphere:
		if p.Radius <= 0 {
			return fmt.Errorf("%w: sphere radius %g", ErrInvalidPrimitive, p.Radius)
		}
	default:
		return fmt.Errorf("%w: shape %d", ErrInvalidPrimitive, p.Shape)
	}
	return nil
}

// Transform places a node: world = translate(Position) * rotate(Rotation) *
// scale(Scale) * translate(primitive.Position).
type Transform struct {
	Position Vec3
	// Rotation holds Euler angles in radians, applied Y, then X, then Z.
	Rotation Vec3
	// Scale is uniform; zero means 1.
	Scale float64
}

// Identity is the neutral transform.
var Identity = Transform{Scale: 1}

// Valid reports whether every component is finite.
func (t Transform) Valid() bool {
	return t.Position.finite() && t.Rotation.finite() && isFinite(t.Scale)
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
