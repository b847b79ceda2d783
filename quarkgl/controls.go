package quarkgl

import "math"

// maxPitch keeps the orbit short of the poles, where the view's up vector
// degenerates.
const maxPitch = math.Pi/2 - 0.01

// OrbitController places a camera on a sphere around Target. Yaw turns about
// +Y, Pitch lifts the camera (negative is above the target).
//
// Zoom is ignored unless EnableZoom is set.
type OrbitController struct {
	Target Vec3
	Yaw    float32
	Pitch  float32
	Radius float32

	MinRadius  float32
	MaxRadius  float32
	EnableZoom bool
}

// NewOrbit returns a controller that reproduces cam's current placement.
func NewOrbit(cam Camera) *OrbitController {
	off := cam.Position.Sub(cam.Target)
	c := &OrbitController{Target: cam.Target, Radius: off.Len()}
	if c.Radius > 0 {
		c.Yaw = float32(math.Atan2(float64(off.X), float64(off.Z)))
		c.Pitch = float32(math.Asin(float64(-off.Y / c.Radius)))
	}
	return c
}

// Apply moves cam onto the orbit, looking at Target.
func (c *OrbitController) Apply(cam *Camera) {
	if cam == nil {
		return
	}
	r := c.Radius
	if r == 0 {
		r = 3
	}
	m := RotateY(c.Yaw).Mul(RotateX(c.Pitch))
	cam.Position = c.Target.Add(m.Dir(V3(0, 0, r)))
	cam.Target = c.Target
	if cam.Up == (Vec3{}) {
		cam.Up = V3(0, 1, 0)
	}
}

// Rotate adds to yaw and pitch. Pitch is clamped short of the poles.
func (c *OrbitController) Rotate(deltaYaw, deltaPitch float32) {
	if isNaN32(deltaYaw) || isNaN32(deltaPitch) {
		return
	}
	c.Yaw = float32(math.Remainder(float64(c.Yaw+deltaYaw), 2*math.Pi))
	c.Pitch = min(max(c.Pitch+deltaPitch, -maxPitch), maxPitch)
}

// Drag rotates for a pointer drag of (dx, dy) pixels over a viewport of the
// given height: a drag across the full height turns the orbit once.
// Dragging right swings the camera left around the target.
func (c *OrbitController) Drag(dx, dy float32, height int) {
	if height <= 0 {
		return
	}
	k := -2 * math.Pi / float32(height)
	c.Rotate(dx*k, dy*k)
}

// Zoom changes the radius within [MinRadius, MaxRadius] when zoom is enabled.
func (c *OrbitController) Zoom(delta float32) {
	if !c.EnableZoom {
		return
	}
	c.Radius += delta
	if c.MinRadius != 0 && c.Radius < c.MinRadius {
		c.Radius = c.MinRadius
	}
	if c.MaxRadius != 0 && c.Radius > c.MaxRadius {
		c.Radius = c.MaxRadius
	}
}

func isNaN32(v float32) bool { return v != v }
