package quarkgl

import (
	"fmt"

	"vitrine/scene"
)

// Camera describes the viewing transform.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3

	FOVY float32 // radians
	Near float32
	Far  float32
}

// View returns the camera view matrix.
func (c Camera) View() Mat4 {
	up := c.Up
	if up == (Vec3{}) {
		up = V3(0, 1, 0)
	}
	return LookAt(c.Position, c.Target, up)
}

// Projection returns the projection matrix for a target aspect.
func (c Camera) Projection(aspect float32) Mat4 {
	fov := c.FOVY
	if fov == 0 {
		fov = 1.3
	}
	return Perspective(fov, aspect, c.Near, c.Far)
}

// Light is ambient fill plus one directional key light.
type Light struct {
	Ambient float32 // 0..1
	// Dir points from the light toward the scene.
	Dir       Vec3
	Intensity float32 // 0..1
}

type node struct {
	alive    bool
	mesh     Mesh
	offset   Vec3
	material scene.Material
	base     Color
	model    Mat4
	center   Vec3
}

// Scene is a fixed-capacity set of nodes. It implements scene.Scene.
type Scene struct {
	Camera Camera
	Light  Light

	nodes    []node
	disposed bool
}

var _ scene.Scene = (*Scene)(nil)

// NewScene allocates a scene holding at most maxNodes primitives, lit like a
// studio product shot: soft ambient plus a key light from the upper right.
func NewScene(maxNodes int) *Scene {
	if maxNodes < 0 {
		maxNodes = 0
	}
	return &Scene{
		Camera: Camera{
			Position: V3(0, 0.4, 5),
			Target:   V3(0, 0.4, 0),
			Up:       V3(0, 1, 0),
			FOVY:     1.3,
			Near:     0.1,
			Far:      100,
		},
		Light: Light{
			Ambient:   0.5,
			Dir:       V3(-10, -10, -10).Unit(),
			Intensity: 0.8,
		},
		nodes: make([]node, maxNodes),
	}
}

// Add tessellates p into a free slot.
func (s *Scene) Add(p scene.Primitive) (scene.NodeID, error) {
	if s.disposed {
		return -1, scene.ErrSceneDisposed
	}
	mesh, err := Tessellate(p)
	if err != nil {
		return -1, err
	}
	for i := range s.nodes {
		if s.nodes[i].alive {
			continue
		}
		offset := V3(float32(p.Position.X), float32(p.Position.Y), float32(p.Position.Z))
		n := node{
			alive:    true,
			mesh:     mesh,
			offset:   offset,
			material: p.Material,
			base:     FromScene(p.Material.Color),
		}
		n.setModel(Identity())
		s.nodes[i] = n
		return scene.NodeID(i), nil
	}
	return -1, fmt.Errorf("%w (capacity %d)", scene.ErrSceneFull, len(s.nodes))
}

// SetTransform places node id. Unknown ids, disposed scenes and non-finite
// transforms are ignored.
func (s *Scene) SetTransform(id scene.NodeID, t scene.Transform) {
	if s.disposed || id < 0 || int(id) >= len(s.nodes) || !s.nodes[id].alive || !t.Valid() {
		return
	}
	sc := float32(t.Scale)
	if sc == 0 {
		sc = 1
	}
	m := Translate(V3(float32(t.Position.X), float32(t.Position.Y), float32(t.Position.Z))).
		Mul(RotateY(float32(t.Rotation.Y))).
		Mul(RotateX(float32(t.Rotation.X))).
		Mul(RotateZ(float32(t.Rotation.Z))).
		Mul(Scale(sc))
	s.nodes[id].setModel(m)
}

// Remove frees node id.
func (s *Scene) Remove(id scene.NodeID) {
	if id < 0 || int(id) >= len(s.nodes) {
		return
	}
	s.nodes[id] = node{}
}

// Dispose drops every node. The scene renders nothing afterwards.
func (s *Scene) Dispose() {
	s.disposed = true
	for i := range s.nodes {
		s.nodes[i] = node{}
	}
}

// Disposed reports whether Dispose was called.
func (s *Scene) Disposed() bool { return s.disposed }

// Len reports the number of live nodes.
func (s *Scene) Len() int {
	n := 0
	for i := range s.nodes {
		if s.nodes[i].alive {
			n++
		}
	}
	return n
}

// Model returns the full model matrix of node id.
func (s *Scene) Model(id scene.NodeID) (Mat4, bool) {
	if id < 0 || int(id) >= len(s.nodes) || !s.nodes[id].alive {
		return Mat4{}, false
	}
	return s.nodes[id].model, true
}

func (n *node) setModel(group Mat4) {
	n.model = group.Mul(Translate(n.offset))
	n.center = n.model.Point(Vec3{})
}

func (s *Scene) eachNode(fn func(n *node)) {
	for i := range s.nodes {
		if s.nodes[i].alive {
			fn(&s.nodes[i])
		}
	}
}
