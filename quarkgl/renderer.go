package quarkgl

import "math"

// Renderer is a software rasterizer with flat Blinn-Phong shading.
//
// Create it once and reuse it; the depth buffer grows to the largest target
// seen.
type Renderer struct {
	Mode       RenderMode
	ClearColor Color

	depthBuf []float32

	// Triangles counts triangles submitted to the rasterizer by the last
	// Render call.
	Triangles int
}

func NewRenderer() *Renderer {
	return &Renderer{Mode: RenderSolid, ClearColor: RGBA(0, 0, 0, 0)}
}

func (r *Renderer) resizeDepth(n int) {
	if cap(r.depthBuf) < n {
		r.depthBuf = make([]float32, n)
	}
	r.depthBuf = r.depthBuf[:n]
	for i := range r.depthBuf {
		r.depthBuf[i] = math.MaxFloat32
	}
}

// Render draws s into t. Disposed scenes draw nothing.
func (r *Renderer) Render(t Target, s *Scene) {
	r.Triangles = 0
	if t == nil || s == nil || s.Disposed() {
		return
	}
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return
	}
	t.Clear(r.ClearColor)
	r.resizeDepth(w * h)

	viewProj := s.Camera.Projection(float32(w) / float32(h)).Mul(s.Camera.View())
	s.eachNode(func(n *node) {
		r.renderNode(t, w, h, viewProj, s.Camera.Position, s.Light, n)
	})
}

func (r *Renderer) renderNode(t Target, w, h int, viewProj Mat4, eye Vec3, light Light, n *node) {
	m := n.mesh
	mvp := viewProj.Mul(n.model)
	shininess, specular := surface(n.material.Roughness, n.material.Metalness)

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := int(m.Indices[i]), int(m.Indices[i+1]), int(m.Indices[i+2])
		if i0 >= len(m.Vertices) || i1 >= len(m.Vertices) || i2 >= len(m.Vertices) {
			continue
		}
		v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]

		c0 := mvp.Apply(Vec4{v0.X, v0.Y, v0.Z, 1})
		c1 := mvp.Apply(Vec4{v1.X, v1.Y, v1.Z, 1})
		c2 := mvp.Apply(Vec4{v2.X, v2.Y, v2.Z, 1})
		// Drop anything touching the near plane instead of clipping it.
		if c0.W <= 1e-4 || c1.W <= 1e-4 || c2.W <= 1e-4 {
			continue
		}
		x0, y0, z0 := toScreen(c0, w, h)
		x1, y1, z1 := toScreen(c1, w, h)
		x2, y2, z2 := toScreen(c2, w, h)

		p0, p1, p2 := n.model.Point(v0), n.model.Point(v1), n.model.Point(v2)
		normal := p1.Sub(p0).Cross(p2.Sub(p0)).Unit()
		if normal == (Vec3{}) {
			continue
		}
		centroid := p0.Add(p1).Add(p2).Scale(1.0 / 3)
		if normal.Dot(centroid.Sub(n.center)) < 0 {
			normal = normal.Scale(-1)
		}
		c := lit(n.base, light, normal, eye.Sub(centroid).Unit(), shininess, specular)

		r.Triangles++
		if r.Mode == RenderWireframe {
			drawLine(t, x0, y0, x1, y1, c)
			drawLine(t, x1, y1, x2, y2, c)
			drawLine(t, x2, y2, x0, y0, c)
			continue
		}
		r.fillTriangle(t, w, h, x0, y0, z0, x1, y1, z1, x2, y2, z2, c)
	}
}

// surface maps PBR parameters onto Blinn-Phong terms.
func surface(roughness, metalness float64) (shininess, specular float32) {
	rough := clamp01(float32(roughness))
	metal := clamp01(float32(metalness))
	shininess = 4 + (1-rough)*(1-rough)*124
	specular = 0.15 + 0.6*metal
	return shininess, specular
}

func lit(base Color, l Light, normal, toEye Vec3, shininess, specular float32) Color {
	amb := clamp01(l.Ambient)
	toLight := l.Dir.Unit().Scale(-1)
	if toLight == (Vec3{}) {
		return shade(base, amb, 0)
	}
	diffuse := normal.Dot(toLight)
	if diffuse < 0 {
		diffuse = 0
	}
	k := amb + diffuse*clamp01(l.Intensity)

	var spec float32
	if diffuse > 0 {
		half := toLight.Add(toEye).Unit()
		if d := normal.Dot(half); d > 0 {
			spec = float32(math.Pow(float64(d), float64(shininess))) * specular * clamp01(l.Intensity)
		}
	}
	return shade(base, k, spec*255)
}

func toScreen(c Vec4, w, h int) (x, y int, z float32) {
	inv := 1 / c.W
	nx, ny, nz := c.X*inv, c.Y*inv, c.Z*inv
	sx := (nx*0.5 + 0.5) * float32(w-1)
	sy := (1 - (ny*0.5 + 0.5)) * float32(h-1)
	return int(sx + 0.5), int(sy + 0.5), nz
}

func (r *Renderer) depthTest(w, x, y int, z float32) bool {
	idx := y*w + x
	if idx < 0 || idx >= len(r.depthBuf) {
		return false
	}
	if z >= r.depthBuf[idx] {
		return false
	}
	r.depthBuf[idx] = z
	return true
}

func (r *Renderer) fillTriangle(t Target, w, h int, x0, y0 int, z0 float32, x1, y1 int, z1 float32, x2, y2 int, z2 float32, c Color) {
	area := edgeFn(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}
	if area < 0 {
		x1, y1, z1, x2, y2, z2 = x2, y2, z2, x1, y1, z1
		area = -area
	}

	minX, maxX := max(min(x0, x1, x2), 0), min(max(x0, x1, x2), w-1)
	minY, maxY := max(min(y0, y1, y2), 0), min(max(y0, y1, y2), h-1)
	if minX > maxX || minY > maxY {
		return
	}
	invArea := 1 / float32(area)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edgeFn(x1, y1, x2, y2, x, y)
			w1 := edgeFn(x2, y2, x0, y0, x, y)
			w2 := edgeFn(x0, y0, x1, y1, x, y)
			if (w0 | w1 | w2) < 0 {
				continue
			}
			z := (float32(w0)*z0 + float32(w1)*z1 + float32(w2)*z2) * invArea
			if !r.depthTest(w, x, y, z) {
				continue
			}
			t.SetPixel(x, y, c)
		}
	}
}

func drawLine(t Target, x0, y0, x1, y1 int, c Color) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		t.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func edgeFn(x0, y0, x1, y1, x, y int) int {
	return (x-x0)*(y1-y0) - (y-y0)*(x1-x0)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
