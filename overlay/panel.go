package overlay

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

const (
	// PanelOffset is how far below its resting place the panel starts, in px.
	PanelOffset = 50

	panelFrequency = 8.0
	panelDamping   = 1.0
	panelRest      = 1e-3
)

// Panel animates the modal card in and out. Progress 0 is hidden (offset by
// PanelOffset, transparent); 1 is shown.
type Panel struct {
	spring   harmonica.Spring
	progress float64
	velocity float64
	target   float64
}

// NewPanel creates a hidden panel stepped fps times per second.
func NewPanel(fps int) *Panel {
	if fps <= 0 {
		fps = 60
	}
	return &Panel{spring: harmonica.NewSpring(harmonica.FPS(fps), panelFrequency, panelDamping)}
}

// Open animates the panel in. A panel that is already shown stays put, so a
// product replace does not replay the entrance.
func (p *Panel) Open() { p.target = 1 }

// Close animates the panel out.
func (p *Panel) Close() { p.target = 0 }

// Hide snaps the panel to hidden.
func (p *Panel) Hide() {
	p.progress, p.velocity, p.target = 0, 0, 0
}

// Step advances one frame and reports whether the panel is still moving.
func (p *Panel) Step() bool {
	if p.Settled() {
		return false
	}
	p.progress, p.velocity = p.spring.Update(p.progress, p.velocity, p.target)
	if math.Abs(p.target-p.progress) < panelRest && math.Abs(p.velocity) < panelRest {
		p.progress, p.velocity = p.target, 0
		return false
	}
	return true
}

// Settled reports whether the panel is at rest on its target.
func (p *Panel) Settled() bool { return p.progress == p.target && p.velocity == 0 }

// Progress returns the raw spring position (may overshoot slightly).
func (p *Panel) Progress() float64 { return p.progress }

// Y returns the vertical offset of the card in px.
func (p *Panel) Y() float64 { return PanelOffset * (1 - p.progress) }

// Opacity returns the card opacity in [0,1].
func (p *Panel) Opacity() float64 { return math.Max(0, math.Min(1, p.progress)) }

// Visible reports whether any part of the card should be drawn.
func (p *Panel) Visible() bool { return p.target > 0 || p.Opacity() > 0 }
