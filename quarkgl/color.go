package quarkgl

import "vitrine/scene"

// Color is an RGBA color in 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color     { return Color{R: r, G: g, B: b, A: 0xFF} }
func RGBA(r, g, b, a uint8) Color { return Color{R: r, G: g, B: b, A: a} }

// FromScene converts a scene color to an opaque Color.
func FromScene(c scene.Color) Color { return RGB(c.R, c.G, c.B) }

// shade returns base*k + add (per channel, 0..255 space), saturating.
func shade(base Color, k float32, add float32) Color {
	ch := func(v uint8) uint8 {
		f := float32(v)*k + add
		if f < 0 {
			return 0
		}
		if f > 255 {
			return 255
		}
		return uint8(f)
	}
	return Color{R: ch(base.R), G: ch(base.G), B: ch(base.B), A: base.A}
}
