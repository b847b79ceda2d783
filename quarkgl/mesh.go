package quarkgl

import (
	"math"

	"vitrine/scene"
)

// Mesh is an indexed triangle list in local coordinates.
type Mesh struct {
	Vertices []Vec3
	Indices  []uint16
}

// Triangles returns the number of triangles in m.
func (m Mesh) Triangles() int { return len(m.Indices) / 3 }

// Tessellate converts a primitive into a mesh centered on the origin. The
// primitive's Position is not applied here.
func Tessellate(p scene.Primitive) (Mesh, error) {
	if err := p.Validate(); err != nil {
		return Mesh{}, err
	}
	switch p.Shape {
	case scene.ShapeSphere:
		return sphereMesh(float32(p.Radius), p.Segments, p.Rings), nil
	default:
		return cylinderMesh(float32(p.RadiusTop), float32(p.RadiusBottom), float32(p.Height), p.Segments), nil
	}
}

// cylinderMesh builds a capped cylinder along Y spanning [-h/2, h/2] with
// radiusTop at +Y.
func cylinderMesh(radiusTop, radiusBottom, height float32, segments int) Mesh {
	if segments < 3 {
		segments = 3
	}
	half := height / 2
	verts := make([]Vec3, 0, 2*segments+2)
	for ring := 0; ring < 2; ring++ {
		y, r := -half, radiusBottom
		if ring == 1 {
			y, r = half, radiusTop
		}
		for i := 0; i < segments; i++ {
			theta := 2 * math.Pi * float64(i) / float64(segments)
			s, c := math.Sincos(theta)
			verts = append(verts, V3(r*float32(c), y, r*float32(s)))
		}
	}
	bottomCenter := uint16(len(verts))
	verts = append(verts, V3(0, -half, 0))
	topCenter := uint16(len(verts))
	verts = append(verts, V3(0, half, 0))

	seg := uint16(segments)
	indices := make([]uint16, 0, segments*12)
	for i := uint16(0); i < seg; i++ {
		next := (i + 1) % seg
		a, b := i, next
		c, d := seg+next, seg+i
		indices = append(indices, a, b, c, a, c, d)
		indices = append(indices, bottomCenter, b, a)
		indices = append(indices, topCenter, d, c)
	}
	return Mesh{Vertices: verts, Indices: indices}
}

// sphereMesh builds a UV sphere with rings+1 latitude rows.
func sphereMesh(radius float32, segments, rings int) Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}
	verts := make([]Vec3, 0, (rings+1)*segments)
	for j := 0; j <= rings; j++ {
		phi := math.Pi * float64(j) / float64(rings)
		sp, cp := math.Sincos(phi)
		for i := 0; i < segments; i++ {
			theta := 2 * math.Pi * float64(i) / float64(segments)
			st, ct := math.Sincos(theta)
			verts = append(verts, V3(
				radius*float32(sp*ct),
				radius*float32(cp),
				radius*float32(sp*st),
			))
		}
	}

	idx := func(j, i int) uint16 { return uint16(j*segments + i%segments) }
	indices := make([]uint16, 0, rings*segments*6)
	for j := 0; j < rings; j++ {
		for i := 0; i < segments; i++ {
			a, b := idx(j, i), idx(j, i+1)
			c, d := idx(j+1, i+1), idx(j+1, i)
			indices = append(indices, a, b, c, a, c, d)
		}
	}
	return Mesh{Vertices: verts, Indices: indices}
}
