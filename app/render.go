package app

import (
	"image"
	"image/color"
	"math"

	"tinygo.org/x/tinyfont"

	"vitrine/lazy"
	"vitrine/quarkgl"
	"vitrine/ui"
)

var (
	black      = color.RGBA{A: 255}
	white      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	offWhite   = color.RGBA{R: 0xF3, G: 0xF1, B: 0xEE, A: 255}
	stone      = color.RGBA{R: 0x8B, G: 0x7E, B: 0x74, A: 255}
	charcoal   = color.RGBA{R: 0x41, G: 0x3F, B: 0x3D, A: 255}
	muted      = color.RGBA{R: 0x9A, G: 0x94, B: 0x8E, A: 255}
	cardFill   = color.RGBA{R: 0x1C, G: 0x1B, B: 0x1A, A: 255}
	cardClear  = quarkgl.RGB(0x1C, 0x1B, 0x1A)
	night      = color.RGBA{R: 0x11, G: 0x18, B: 0x27, A: 255}
	nightClear = quarkgl.RGB(0x11, 0x18, 0x27)
)

// pagePx converts the page's reference pixel units (an 800 px tall viewport)
// into canvas pixels.
func (a *App) pagePx(v float64) float64 { return v * float64(a.layout.h) / 800 }

// Render draws the current frame.
func (a *App) Render() *image.RGBA {
	c := ui.NewCanvas(a.frame)
	if a.fatal != nil {
		a.drawPanic(c)
		return a.frame
	}
	c.Fill(black)
	a.drawHero(c)
	a.drawProducts(c)
	a.drawStory(c)
	a.drawContact(c)
	a.drawHeader(c)
	a.drawModal(c)
	return a.frame
}

func (a *App) drawHero(c *ui.Canvas) {
	sec := a.layout.section(sectionHero)
	if !sec.Overlaps(a.frame.Bounds()) {
		return
	}
	s := a.signals
	shift := int(a.pagePx(s.backgroundY.Value()))
	scale := s.backgroundScale.Value()

	// Storefront backdrop: vertical bays that drift down and widen with scroll.
	bay := int(float64(a.layout.w/8) * scale)
	cx := a.layout.w / 2
	for i := -5; i <= 5; i++ {
		x := cx + i*bay - bay/2
		shade := uint8(0x24 + 0x0C*(i&1))
		r := image.Rect(x+2, sec.Min.Y+shift+12, x+bay-2, sec.Max.Y+shift)
		c.FillRect(r.Intersect(sec), color.RGBA{R: shade + 0x10, G: shade + 0x08, B: shade, A: 255})
	}

	alpha := s.titleOpacity.Value()
	y := sec.Min.Y + a.layout.h/2 + int(a.pagePx(s.titleY.Value()))
	a.centered(c, ui.Heading, y, a.brand, ui.WithAlpha(white, alpha))
	a.centered(c, ui.Body, y+18, a.tagline, ui.WithAlpha(offWhite, alpha))
}

// navItem is one header link and the section it scrolls to.
type navItem struct {
	label   string
	section int
	rect    image.Rectangle
}

const headerBaseline = 16

// navItems lays out the header links right to left.
func (a *App) navItems() []navItem {
	links := []navItem{
		{label: "Contact", section: sectionContact},
		{label: "Story", section: sectionStory},
		{label: "Products", section: sectionProducts},
	}
	x := a.layout.w - cardMargin
	for i := range links {
		w := ui.TextWidth(ui.Body, links[i].label)
		x -= w
		links[i].rect = image.Rect(x-4, headerBaseline-12, x+w+4, headerBaseline+4)
		x -= 12
	}
	return links
}

func (a *App) drawHeader(c *ui.Canvas) {
	alpha := a.signals.titleOpacity.Value()
	if alpha <= 0 {
		return
	}
	c.Text(ui.Body, cardMargin, headerBaseline, a.brand, ui.WithAlpha(white, alpha))
	for _, item := range a.navItems() {
		c.Text(ui.Body, item.rect.Min.X+4, headerBaseline, item.label, ui.WithAlpha(offWhite, alpha))
	}
}

func (a *App) drawProducts(c *ui.Canvas) {
	sec := a.layout.section(sectionProducts)
	if !sec.Overlaps(a.frame.Bounds()) {
		return
	}
	a.centered(c, ui.Heading, sec.Min.Y+24, "Featured Products", white)

	n := len(a.products)
	for i, p := range a.products {
		card := a.layout.card(i, n)
		if !card.Overlaps(a.frame.Bounds()) {
			continue
		}
		c.FillRect(card, cardFill)

		p.draw(a.renderer, a.frame, a.layout.cardViewport(i, n), cardClear)

		foot := image.Rect(card.Min.X, card.Max.Y-cardFooter, card.Max.X, card.Max.Y)
		c.FillRect(foot, color.RGBA{A: 0xBF})
		y := foot.Min.Y + 12
		for _, line := range firstLines(ui.Wrap(ui.Body, p.product.Name, foot.Dx()-8), 2) {
			c.Text(ui.Body, foot.Min.X+4, y, line, white)
			y += 10
		}
		btn := image.Rect(foot.Min.X+4, foot.Max.Y-20, foot.Max.X-4, foot.Max.Y-4)
		c.StrokeRect(btn, white)
		label := "Learn more"
		c.Text(ui.Body, btn.Min.X+(btn.Dx()-ui.TextWidth(ui.Body, label))/2, btn.Max.Y-4, label, white)
	}
}

func (a *App) drawStory(c *ui.Canvas) {
	sec := a.layout.section(sectionStory)
	if !sec.Overlaps(a.frame.Bounds()) {
		return
	}
	c.FillRect(sec, white)
	c.Text(ui.Heading, sec.Min.X+cardMargin, sec.Min.Y+56, "Our Story", black)
	y := sec.Min.Y + 80
	text := "Established in Melbourne in 1987 with a quest to create a range of superlative products for skin, hair and body."
	for _, line := range ui.Wrap(ui.Body, text, a.layout.w/2-cardMargin*2) {
		c.Text(ui.Body, sec.Min.X+cardMargin, y, line, charcoal)
		y += 12
	}

	s := a.signals
	panel := a.layout.story().Add(image.Pt(int(s.x.Value()/2), int(s.y.Value()/2)))
	c.FillRect(panel, stone)
	// A sheen band slides with the panel's tilt.
	band := panel.Dx() / 5
	bx := panel.Min.X + panel.Dx()/2 - band/2 + int(s.rotateY.Value()*float64(panel.Dx())/80)
	by := int(s.rotateX.Value() * float64(panel.Dy()) / 80)
	c.FillRect(image.Rect(bx, panel.Min.Y+by, bx+band, panel.Max.Y+by).Intersect(panel), color.RGBA{R: 255, G: 255, B: 255, A: 0x30})
	c.StrokeRect(panel, charcoal)
}

func (a *App) drawContact(c *ui.Canvas) {
	sec := a.layout.section(sectionContact)
	if !sec.Overlaps(a.frame.Bounds()) {
		return
	}
	c.FillRect(sec, night)
	c.Text(ui.Heading, sec.Min.X+cardMargin, sec.Min.Y+56, "Stay Connected", white)
	y := sec.Min.Y + 80
	text := "Sign up to receive communications about Aesop products, services, stores, events and matters of cultural interest."
	for _, line := range ui.Wrap(ui.Body, text, a.layout.w/2-cardMargin*2) {
		c.Text(ui.Body, sec.Min.X+cardMargin, y, line, offWhite)
		y += 12
	}
	a.contact.draw(a.renderer, a.frame, a.layout.contactViewport(), nightClear)
}

func (a *App) modalRect() image.Rectangle {
	return a.layout.modal().Add(image.Pt(0, int(a.panel.Y())))
}

func (a *App) drawModal(c *ui.Canvas) {
	if !a.panel.Visible() || a.shown.IsZero() {
		return
	}
	alpha := a.panel.Opacity()
	c.Fill(color.RGBA{A: uint8(0x80 * alpha)})

	m := a.modalRect()
	c.FillRect(m, ui.WithAlpha(white, alpha))
	p := a.shown
	left := m.Min.X + 12
	width := m.Dx()/2 - 24
	ink := ui.WithAlpha(black, alpha)
	grey := ui.WithAlpha(muted, alpha)

	y := m.Min.Y + 20
	for _, line := range firstLines(ui.Wrap(ui.Heading, p.Name, width), 2) {
		c.Text(ui.Heading, left, y, line, ink)
		y += 16
	}
	for _, line := range ui.Wrap(ui.Body, p.Description, width) {
		c.Text(ui.Body, left, y, line, grey)
		y += 10
	}
	y += 4
	c.FillRect(image.Rect(left, y, left+width, y+1), grey)
	y += 14
	c.Text(ui.Body, left, y, "Key Benefits", ink)
	y += 12
	for _, d := range p.Details {
		for j, line := range ui.Wrap(ui.Body, d, width-8) {
			prefix := "  "
			if j == 0 {
				prefix = "- "
			}
			c.Text(ui.Body, left, y, prefix+line, ink)
			y += 10
		}
	}

	btn := a.layout.closeButton(m)
	c.FillRect(btn, ui.WithAlpha(black, alpha))
	c.Text(ui.Body, btn.Min.X+(btn.Dx()-ui.TextWidth(ui.Body, "Close"))/2, btn.Max.Y-5, "Close", ui.WithAlpha(white, alpha))

	a.drawDetail(c, a.layout.modalViewport(m), alpha)
}

// drawDetail fills the modal's model pane: the live model when loaded and the
// panel has settled, a placeholder while loading, a neutral silhouette when
// the model failed.
func (a *App) drawDetail(c *ui.Canvas, vp image.Rectangle, alpha float64) {
	c.FillRect(vp, ui.WithAlpha(offWhite, alpha))
	v := a.detail
	if v == nil {
		return
	}
	switch v.state.State {
	case lazy.Ready:
		if v.scene != nil && alpha >= 1 {
			v.draw(a.renderer, a.frame, vp, quarkgl.RGB(offWhite.R, offWhite.G, offWhite.B))
			return
		}
		a.drawSilhouette(c, vp, ui.WithAlpha(stone, alpha))
	case lazy.Failed:
		a.drawSilhouette(c, vp, ui.WithAlpha(muted, alpha*0.6))
		label := "Preview unavailable"
		c.Text(ui.Body, vp.Min.X+(vp.Dx()-ui.TextWidth(ui.Body, label))/2, vp.Max.Y-8, label, ui.WithAlpha(muted, alpha))
	default:
		label := "Loading model..."
		c.Text(ui.Body, vp.Min.X+(vp.Dx()-ui.TextWidth(ui.Body, label))/2, vp.Min.Y+vp.Dy()/2, label, ui.WithAlpha(muted, alpha))
		// Indeterminate bar driven by the frame counter.
		w := vp.Dx() / 4
		x := vp.Min.X + int(float64(vp.Dx()-w)*(0.5+0.5*math.Sin(float64(a.driver.Frames())/10)))
		bar := image.Rect(x, vp.Min.Y+vp.Dy()/2+8, x+w, vp.Min.Y+vp.Dy()/2+10)
		c.FillRect(bar, ui.WithAlpha(stone, alpha))
	}
}

// drawSilhouette draws a flat bottle outline centered in vp.
func (a *App) drawSilhouette(c *ui.Canvas, vp image.Rectangle, col color.RGBA) {
	cx := vp.Min.X + vp.Dx()/2
	unit := vp.Dy() / 8
	body := image.Rect(cx-unit, vp.Min.Y+3*unit, cx+unit, vp.Max.Y-unit)
	neck := image.Rect(cx-unit/2, body.Min.Y-unit, cx+unit/2, body.Min.Y)
	top := image.Rect(cx-unit/2, neck.Min.Y-unit/2, cx+unit/2, neck.Min.Y)
	c.FillRect(body, col)
	c.FillRect(neck, col)
	c.FillRect(top, col)
}

func (a *App) centered(c *ui.Canvas, f tinyfont.Fonter, y int, s string, col color.RGBA) {
	c.Text(f, (a.layout.w-ui.TextWidth(f, s))/2, y, s, col)
}

func firstLines(lines []string, n int) []string {
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}
