package app

import (
	"image"

	"vitrine/quarkgl"
	"vitrine/scene"
)

// modelView is one independently animated 3D scene on the page: a spinning
// bottle seen through a camera the user can orbit by dragging.
type modelView struct {
	scene  *quarkgl.Scene
	orbit  *quarkgl.OrbitController
	bottle *scene.Bottle
	mount  *scene.Mount
}

// mountModel builds a bottle scene and registers its frame loop under name.
func (a *App) mountModel(name string, parts []scene.Primitive, scale float64) (modelView, error) {
	sc := quarkgl.NewScene(len(parts))
	b, err := scene.NewModel(sc, parts, a.spin)
	if err != nil {
		sc.Dispose()
		return modelView{}, err
	}
	if scale != 0 {
		b.Scale = scale
	}
	return modelView{
		scene:  sc,
		orbit:  quarkgl.NewOrbit(sc.Camera),
		bottle: b,
		mount:  a.driver.Mount(name, sc, b.Frame),
	}, nil
}

// drag orbits the camera for a pointer drag over viewport vp. Zoom stays off.
func (m *modelView) drag(dx, dy float64, vp image.Rectangle) {
	if m.scene == nil || m.orbit == nil {
		return
	}
	m.orbit.Drag(float32(dx), float32(dy), vp.Dy())
	m.orbit.Apply(&m.scene.Camera)
}

// draw renders the scene into vp of dst.
func (m *modelView) draw(r *quarkgl.Renderer, dst *image.RGBA, vp image.Rectangle, clear quarkgl.Color) {
	if m.scene == nil {
		return
	}
	r.ClearColor = clear
	r.Render(quarkgl.NewRGBATarget(dst, vp), m.scene)
}
