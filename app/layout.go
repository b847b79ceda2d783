package app

import (
	"image"

	"vitrine/motion"
)

// The page is four screens tall: hero, products, story, contact.
const (
	sectionHero = iota
	sectionProducts
	sectionStory
	sectionContact
	sections
)

const (
	scrollStep = 40 // px per wheel notch

	cardMargin = 12
	cardHeader = 36
	cardFooter = 64
)

// layout derives on-screen geometry from the canvas size and scroll offset.
type layout struct {
	w, h   int
	offset float64
}

// maxScroll is the scroll range in px.
func (l layout) maxScroll() float64 { return float64((sections - 1) * l.h) }

// sectionTop returns the screen y of section i.
func (l layout) sectionTop(i int) int {
	return i*l.h - int(l.offset+0.5)
}

func (l layout) section(i int) image.Rectangle {
	top := l.sectionTop(i)
	return image.Rect(0, top, l.w, top+l.h)
}

// card returns the product card i of n.
func (l layout) card(i, n int) image.Rectangle {
	if n <= 0 {
		return image.Rectangle{}
	}
	width := (l.w - cardMargin*(n+1)) / n
	top := l.sectionTop(sectionProducts) + cardHeader
	x := cardMargin + i*(width+cardMargin)
	return image.Rect(x, top, x+width, top+l.h-cardHeader-cardMargin)
}

// cardViewport is the part of card i that shows the 3D model.
func (l layout) cardViewport(i, n int) image.Rectangle {
	c := l.card(i, n)
	c.Max.Y -= cardFooter
	return c
}

// story is the tilt panel in the story section.
func (l layout) story() image.Rectangle {
	s := l.section(sectionStory)
	return image.Rect(s.Min.X+l.w/2+cardMargin, s.Min.Y+40, s.Max.X-cardMargin*2, s.Max.Y-40)
}

func (l layout) storyRect() motion.Rect {
	r := l.story()
	return motion.Rect{X: float64(r.Min.X), Y: float64(r.Min.Y), Width: float64(r.Dx()), Height: float64(r.Dy())}
}

// contactViewport is the contact section's model pane, the right half.
func (l layout) contactViewport() image.Rectangle {
	s := l.section(sectionContact)
	return image.Rect(s.Min.X+l.w/2, s.Min.Y+40, s.Max.X-cardMargin, s.Max.Y-40)
}

// modal is the overlay card at rest; the entrance offset is added by the
// caller.
func (l layout) modal() image.Rectangle {
	mx, my := l.w/12, l.h/10
	return image.Rect(mx, my, l.w-mx, l.h-my)
}

// modalViewport is the right half of the modal, where the detail model goes.
func (l layout) modalViewport(m image.Rectangle) image.Rectangle {
	return image.Rect(m.Min.X+m.Dx()/2, m.Min.Y+8, m.Max.X-8, m.Max.Y-8)
}

// closeButton is the modal's close control.
func (l layout) closeButton(m image.Rectangle) image.Rectangle {
	return image.Rect(m.Min.X+12, m.Max.Y-28, m.Min.X+m.Dx()/2-12, m.Max.Y-10)
}

// cardAt returns the index of the product card containing (x, y).
func (l layout) cardAt(x, y, n int) (int, bool) {
	p := image.Pt(x, y)
	for i := 0; i < n; i++ {
		if p.In(l.card(i, n)) {
			return i, true
		}
	}
	return 0, false
}

func clampScroll(v, limit float64) float64 {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
