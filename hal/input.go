//go:build cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// dragSlop is how far (px, Manhattan) the pointer must move while pressed
// before a press becomes a drag instead of a click.
const dragSlop = 4

// inputPoller converts ebiten's polled input state into Events.
type inputPoller struct {
	x, y int
	seen bool

	down           bool
	dragging       bool
	pressX, pressY int
	lastX, lastY   int
}

func (p *inputPoller) poll(emit func(Event)) {
	x, y := ebiten.CursorPosition()
	if !p.seen || x != p.x || y != p.y {
		p.x, p.y, p.seen = x, y, true
		emit(PointerEvent(float64(x), float64(y)))
	}

	// ebiten reports wheel-up as positive; events use positive for down.
	if _, dy := ebiten.Wheel(); dy != 0 {
		emit(ScrollEvent(-dy))
	}
	p.pollButton(x, y, emit)

	keys := []struct {
		key  ebiten.Key
		code KeyCode
	}{
		{ebiten.KeyEscape, KeyEscape},
		{ebiten.KeyArrowUp, KeyUp},
		{ebiten.KeyArrowDown, KeyDown},
		{ebiten.KeyEnter, KeyEnter},
	}
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k.key) {
			emit(KeyEvent(k.code))
		}
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		emit(RuneEvent(r))
	}
}

// pollButton turns the left button into clicks (press and release without
// moving) and drags anchored at the press position.
func (p *inputPoller) pollButton(x, y int, emit func(Event)) {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		p.down, p.dragging = true, false
		p.pressX, p.pressY = x, y
		p.lastX, p.lastY = x, y
	}
	if !p.down {
		return
	}
	if x != p.lastX || y != p.lastY {
		if !p.dragging && absInt(x-p.pressX)+absInt(y-p.pressY) > dragSlop {
			p.dragging = true
		}
		if p.dragging {
			emit(DragEvent(float64(p.pressX), float64(p.pressY), float64(x-p.lastX), float64(y-p.lastY)))
			p.lastX, p.lastY = x, y
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if !p.dragging {
			emit(ClickEvent(float64(p.pressX), float64(p.pressY)))
		}
		p.down, p.dragging = false, false
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
