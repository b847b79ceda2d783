// Package ui draws 2D page elements (text, cards, fills) onto RGBA frames.
package ui

import (
	"image"
	"image/color"
	"strings"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	// Body is the small text face.
	Body tinyfont.Fonter = &proggy.TinySZ8pt7b
	// Heading is the title face.
	Heading tinyfont.Fonter = &freesans.Bold9pt7b
)

// Canvas adapts an *image.RGBA to tinyfont's display interface. Pixels with
// alpha below 255 are blended over what is already there.
type Canvas struct {
	img *image.RGBA
}

var _ drivers.Displayer = (*Canvas)(nil)

func NewCanvas(img *image.RGBA) *Canvas { return &Canvas{img: img} }

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Size() (x, y int16) {
	if c.img == nil {
		return 0, 0
	}
	b := c.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	c.blend(int(x), int(y), col)
}

func (c *Canvas) Display() error { return nil }

func (c *Canvas) blend(x, y int, col color.RGBA) {
	if c.img == nil || col.A == 0 {
		return
	}
	b := c.img.Bounds()
	x += b.Min.X
	y += b.Min.Y
	if !(image.Point{X: x, Y: y}).In(b) {
		return
	}
	off := c.img.PixOffset(x, y)
	p := c.img.Pix[off : off+4 : off+4]
	if col.A == 0xFF {
		p[0], p[1], p[2], p[3] = col.R, col.G, col.B, 0xFF
		return
	}
	a := uint32(col.A)
	inv := 255 - a
	p[0] = uint8((uint32(col.R)*a + uint32(p[0])*inv) / 255)
	p[1] = uint8((uint32(col.G)*a + uint32(p[1])*inv) / 255)
	p[2] = uint8((uint32(col.B)*a + uint32(p[2])*inv) / 255)
	p[3] = uint8(a + uint32(p[3])*inv/255)
}

// Fill paints the whole canvas.
func (c *Canvas) Fill(col color.RGBA) {
	if c.img == nil {
		return
	}
	c.FillRect(c.img.Bounds().Sub(c.img.Bounds().Min), col)
}

// FillRect paints r (canvas coordinates).
func (c *Canvas) FillRect(r image.Rectangle, col color.RGBA) {
	if c.img == nil {
		return
	}
	w, h := c.Size()
	r = r.Intersect(image.Rect(0, 0, int(w), int(h)))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c.blend(x, y, col)
		}
	}
}

// StrokeRect draws a one pixel outline of r.
func (c *Canvas) StrokeRect(r image.Rectangle, col color.RGBA) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		c.blend(x, r.Min.Y, col)
		c.blend(x, r.Max.Y-1, col)
	}
	for y := r.Min.Y + 1; y < r.Max.Y-1; y++ {
		c.blend(r.Min.X, y, col)
		c.blend(r.Max.X-1, y, col)
	}
}

// Text draws s with its baseline at y.
func (c *Canvas) Text(f tinyfont.Fonter, x, y int, s string, col color.RGBA) {
	tinyfont.WriteLine(c, f, int16(x), int16(y), s, col)
}

// TextWidth returns the advance width of s in pixels.
func TextWidth(f tinyfont.Fonter, s string) int {
	_, outbox := tinyfont.LineWidth(f, s)
	return int(outbox)
}

// Wrap breaks s into lines no wider than width. Words longer than width get a
// line of their own.
func Wrap(f tinyfont.Fonter, s string, width int) []string {
	var lines []string
	var cur string
	for _, word := range strings.Fields(s) {
		next := word
		if cur != "" {
			next = cur + " " + word
		}
		if cur != "" && TextWidth(f, next) > width {
			lines = append(lines, cur)
			cur = word
			continue
		}
		cur = next
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// WithAlpha scales col's alpha by a in [0,1].
func WithAlpha(col color.RGBA, a float64) color.RGBA {
	switch {
	case a <= 0:
		col.A = 0
	case a < 1:
		col.A = uint8(float64(col.A) * a)
	}
	return col
}
