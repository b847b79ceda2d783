package motion

// Rect is a container rectangle in host pixels.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// PointerOffset maps a pointer position to a centered offset scaled so that
// the container edges yield ±scale. Zero-width or zero-height containers
// produce zero on that axis.
func PointerOffset(px, py float64, r Rect, scale float64) (dx, dy float64) {
	cx := r.Width / 2
	cy := r.Height / 2
	if cx > 0 {
		dx = ((px - r.X - cx) / cx) * scale
	}
	if cy > 0 {
		dy = ((py - r.Y - cy) / cy) * scale
	}
	return dx, dy
}
