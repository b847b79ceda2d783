// Package hal is the boundary between the showcase and the host: it turns
// window input into Events, steps the app once per tick and presents the
// frames it renders.
package hal

import (
	"errors"
	"image"
)

// ErrQuit ends a run without reporting an error.
var ErrQuit = errors.New("hal: quit")

// App is what a host drives. All methods are called from one goroutine.
type App interface {
	// Size is the logical canvas size in pixels.
	Size() (w, h int)
	HandleEvent(ev Event)
	// Step advances one tick. Returning ErrQuit stops the host cleanly.
	Step() error
	// Render draws the current frame.
	Render() *image.RGBA
}

// CursorApp is implemented by apps that want the host to draw a cursor
// centered at (x, y) with radius r.
type CursorApp interface {
	Cursor() (x, y, r float64, ok bool)
}

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Title string
	// Scale multiplies the canvas size for the initial window size.
	Scale int
	TPS   int
	// Debug overlays the measured TPS.
	Debug bool
}
