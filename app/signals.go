package app

import (
	"vitrine/motion"
)

// CursorSize is the diameter of the custom cursor; the cursor signals hold its
// top-left corner.
const CursorSize = 32

// pageSignals is the page's motion graph: scroll progress and its derived
// parallax values, the cursor, and the pointer-driven story tilt.
type pageSignals struct {
	scroll *motion.Signal

	titleY          *motion.DerivedSignal
	titleOpacity    *motion.DerivedSignal
	backgroundY     *motion.DerivedSignal
	backgroundScale *motion.DerivedSignal

	cursorX *motion.Signal
	cursorY *motion.Signal

	// Story panel targets, set from pointer position.
	offsetX *motion.Signal
	offsetY *motion.Signal
	tiltX   *motion.Signal
	tiltY   *motion.Signal

	// Springs chasing the targets; only their outputs drive visuals.
	x       *motion.Spring
	y       *motion.Spring
	rotateX *motion.Spring
	rotateY *motion.Spring
	springs motion.SpringGroup
}

func newPageSignals(spring motion.SpringConfig) (*pageSignals, error) {
	s := &pageSignals{
		scroll:  motion.NewSignal("scroll", 0),
		cursorX: motion.NewSignal("cursorX", -100),
		cursorY: motion.NewSignal("cursorY", -100),
		offsetX: motion.NewSignal("storyX", 0),
		offsetY: motion.NewSignal("storyY", 0),
		tiltX:   motion.NewSignal("storyRotateX", 0),
		tiltY:   motion.NewSignal("storyRotateY", 0),
	}

	derived := []struct {
		dst     **motion.DerivedSignal
		name    string
		in, out []float64
	}{
		{&s.titleY, "titleY", []float64{0, 0.1}, []float64{0, -100}},
		{&s.titleOpacity, "titleOpacity", []float64{0, 0.1}, []float64{1, 0}},
		{&s.backgroundY, "backgroundY", []float64{0, 1}, []float64{0, 300}},
		{&s.backgroundScale, "backgroundScale", []float64{0, 1}, []float64{1, 1.2}},
	}
	for _, d := range derived {
		sig, err := motion.Derive(d.name, s.scroll, motion.Points(d.in, d.out)...)
		if err != nil {
			return nil, err
		}
		*d.dst = sig
	}

	s.x = motion.NewSpring("x", 0, spring)
	s.y = motion.NewSpring("y", 0, spring)
	s.rotateX = motion.NewSpring("rotateX", 0, spring)
	s.rotateY = motion.NewSpring("rotateY", 0, spring)
	s.x.Follow(s.offsetX)
	s.y.Follow(s.offsetY)
	s.rotateX.Follow(s.tiltX)
	s.rotateY.Follow(s.tiltY)
	s.springs.Add(s.x, s.y, s.rotateX, s.rotateY)
	return s, nil
}

// pointer updates the cursor and, when the pointer is over the story panel,
// the tilt targets.
func (s *pageSignals) pointer(px, py float64, story motion.Rect, tiltRange float64) {
	s.cursorX.Set(px - CursorSize/2)
	s.cursorY.Set(py - CursorSize/2)
	if !story.Contains(px, py) {
		return
	}
	dx, dy := motion.PointerOffset(px, py, story, tiltRange)
	s.offsetX.Set(dx)
	s.offsetY.Set(dy)
	s.tiltX.Set(dy)
	s.tiltY.Set(dx)
}
