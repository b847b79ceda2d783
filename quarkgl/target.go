package quarkgl

import "image"

// Target is a minimal pixel target for software rendering.
//
// Implementations clip out-of-bounds coordinates.
type Target interface {
	Size() (w, h int)
	SetPixel(x, y int, c Color)
	Clear(c Color)
}

// RenderMode selects the rasterization mode.
type RenderMode uint8

const (
	RenderSolid RenderMode = iota
	RenderWireframe
)

// RGBATarget renders into a rectangle of an *image.RGBA. Coordinates are
// relative to Rect.Min; pixels outside the image are dropped, so a viewport
// partly scrolled off the frame keeps its projection.
type RGBATarget struct {
	Img  *image.RGBA
	Rect image.Rectangle
}

func NewRGBATarget(img *image.RGBA, rect image.Rectangle) *RGBATarget {
	return &RGBATarget{Img: img, Rect: rect.Canon()}
}

func (t *RGBATarget) Size() (w, h int) {
	if t == nil || t.Img == nil {
		return 0, 0
	}
	return t.Rect.Dx(), t.Rect.Dy()
}

func (t *RGBATarget) visible() image.Rectangle {
	return t.Rect.Intersect(t.Img.Bounds())
}

// Clear fills the viewport. A fully transparent color leaves the existing
// pixels in place so scenes can be layered over a background.
func (t *RGBATarget) Clear(c Color) {
	if t == nil || t.Img == nil || c.A == 0 {
		return
	}
	r := t.visible()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := t.Img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			p := t.Img.Pix[off : off+4 : off+4]
			p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
			off += 4
		}
	}
}

func (t *RGBATarget) SetPixel(x, y int, c Color) {
	if t == nil || t.Img == nil {
		return
	}
	pt := image.Pt(x+t.Rect.Min.X, y+t.Rect.Min.Y)
	if !pt.In(t.visible()) {
		return
	}
	off := t.Img.PixOffset(pt.X, pt.Y)
	p := t.Img.Pix[off : off+4 : off+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// At reads back a viewport pixel.
func (t *RGBATarget) At(x, y int) Color {
	if t == nil || t.Img == nil {
		return Color{}
	}
	pt := image.Pt(x+t.Rect.Min.X, y+t.Rect.Min.Y)
	if !pt.In(t.visible()) {
		return Color{}
	}
	off := t.Img.PixOffset(pt.X, pt.Y)
	p := t.Img.Pix[off : off+4 : off+4]
	return Color{R: p[0], G: p[1], B: p[2], A: p[3]}
}
