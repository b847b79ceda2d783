package hal

import (
	"fmt"
	"strconv"
	"strings"
)

// EventKind selects which fields of an Event are meaningful.
type EventKind uint8

const (
	// EventPointer carries the cursor position in X, Y.
	EventPointer EventKind = iota + 1
	// EventScroll carries wheel notches in Delta; positive scrolls down.
	EventScroll
	// EventClick carries the click position in X, Y.
	EventClick
	// EventKey carries Code, or Rune for printable keys.
	EventKey
	// EventDrag carries the press position in X, Y and the pointer movement
	// since the previous drag event in DX, DY.
	EventDrag
)

func (k EventKind) String() string {
	switch k {
	case EventPointer:
		return "pointer"
	case EventScroll:
		return "scroll"
	case EventClick:
		return "click"
	case EventKey:
		return "key"
	case EventDrag:
		return "drag"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyEscape
	KeyUp
	KeyDown
	KeyEnter
)

// Event is one input event in canvas coordinates.
type Event struct {
	Kind  EventKind
	X, Y  float64
	Delta float64
	DX    float64
	DY    float64
	Code  KeyCode
	Rune  rune
}

func PointerEvent(x, y float64) Event { return Event{Kind: EventPointer, X: x, Y: y} }
func ScrollEvent(delta float64) Event { return Event{Kind: EventScroll, Delta: delta} }
func ClickEvent(x, y float64) Event   { return Event{Kind: EventClick, X: x, Y: y} }
func KeyEvent(code KeyCode) Event     { return Event{Kind: EventKey, Code: code} }
func RuneEvent(r rune) Event          { return Event{Kind: EventKey, Rune: r} }

func DragEvent(x, y, dx, dy float64) Event {
	return Event{Kind: EventDrag, X: x, Y: y, DX: dx, DY: dy}
}

func (e Event) String() string {
	switch e.Kind {
	case EventPointer, EventClick:
		return fmt.Sprintf("%s(%g,%g)", e.Kind, e.X, e.Y)
	case EventScroll:
		return fmt.Sprintf("scroll(%g)", e.Delta)
	case EventDrag:
		return fmt.Sprintf("drag(%g,%g%+g%+g)", e.X, e.Y, e.DX, e.DY)
	case EventKey:
		if e.Rune != 0 {
			return fmt.Sprintf("key(%q)", e.Rune)
		}
		return fmt.Sprintf("key(%d)", e.Code)
	default:
		return e.Kind.String()
	}
}

// ScriptedEvent is delivered by the headless runner before the given tick
// (ticks count from 1).
type ScriptedEvent struct {
	Tick  uint64
	Event Event
}

// ParseScript parses a comma-separated event script such as
//
//	10:pointer:120:80,30:scroll:2,60:key:1,90:click:40:200,100:drag:60:150:12:0,120:key:esc
func ParseScript(s string) ([]ScriptedEvent, error) {
	var out []ScriptedEvent
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		ev, err := parseScripted(item)
		if err != nil {
			return nil, fmt.Errorf("script %q: %w", item, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

func parseScripted(item string) (ScriptedEvent, error) {
	parts := strings.Split(item, ":")
	if len(parts) < 2 {
		return ScriptedEvent{}, fmt.Errorf("want tick:kind[:args]")
	}
	tick, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil || tick == 0 {
		return ScriptedEvent{}, fmt.Errorf("bad tick %q", parts[0])
	}
	args := parts[2:]
	floats := func(n int) ([]float64, error) {
		if len(args) != n {
			return nil, fmt.Errorf("%s wants %d args", parts[1], n)
		}
		vals := make([]float64, n)
		for i, a := range args {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return nil, fmt.Errorf("bad number %q", a)
			}
			vals[i] = v
		}
		return vals, nil
	}

	var ev Event
	switch strings.ToLower(parts[1]) {
	case "pointer", "click":
		v, err := floats(2)
		if err != nil {
			return ScriptedEvent{}, err
		}
		ev = PointerEvent(v[0], v[1])
		if strings.EqualFold(parts[1], "click") {
			ev = ClickEvent(v[0], v[1])
		}
	case "scroll":
		v, err := floats(1)
		if err != nil {
			return ScriptedEvent{}, err
		}
		ev = ScrollEvent(v[0])
	case "drag":
		v, err := floats(4)
		if err != nil {
			return ScriptedEvent{}, err
		}
		ev = DragEvent(v[0], v[1], v[2], v[3])
	case "key":
		if len(args) != 1 || args[0] == "" {
			return ScriptedEvent{}, fmt.Errorf("key wants 1 arg")
		}
		switch strings.ToLower(args[0]) {
		case "esc", "escape":
			ev = KeyEvent(KeyEscape)
		case "up":
			ev = KeyEvent(KeyUp)
		case "down":
			ev = KeyEvent(KeyDown)
		case "enter":
			ev = KeyEvent(KeyEnter)
		default:
			r := []rune(args[0])
			if len(r) != 1 {
				return ScriptedEvent{}, fmt.Errorf("unknown key %q", args[0])
			}
			ev = RuneEvent(r[0])
		}
	default:
		return ScriptedEvent{}, fmt.Errorf("unknown event kind %q", parts[1])
	}
	return ScriptedEvent{Tick: tick, Event: ev}, nil
}
