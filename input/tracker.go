// Package input turns per-frame pointer, touch and window samples into
// field events.
package input

// Sink receives pointer and viewport events. *game.Game implements it.
type Sink interface {
	PointerMove(x, y float64)
	PointerLeave()
	TouchStart(x, y float64)
	TouchMove(x, y float64)
	TouchEnd()
	Resize(width, height int)
}

// Sample is the input state observed during one frame.
type Sample struct {
	MouseX, MouseY float64
	MouseOnScreen  bool

	Touches        int // Active touch points; only the first is tracked
	TouchX, TouchY float64

	Resized       bool
	Width, Height int
}

// Tracker emits events for changes between consecutive samples, the way a
// browser fires mousemove, mouseleave and touch events.
type Tracker struct {
	hovering bool
	touching bool
	lastX    float64
	lastY    float64
}

// Apply compares s with the previous sample and forwards the differences
// to sink. Touch takes precedence over the mouse while a contact is down.
func (t *Tracker) Apply(s Sample, sink Sink) {
	if s.Resized {
		sink.Resize(s.Width, s.Height)
	}

	if s.Touches > 0 {
		switch {
		case !t.touching:
			sink.TouchStart(s.TouchX, s.TouchY)
		case s.TouchX != t.lastX || s.TouchY != t.lastY:
			sink.TouchMove(s.TouchX, s.TouchY)
		}
		t.touching = true
		t.hovering = false
		t.lastX, t.lastY = s.TouchX, s.TouchY
		return
	}

	if t.touching {
		t.touching = false
		sink.TouchEnd()
		return
	}

	if !s.MouseOnScreen {
		if t.hovering {
			t.hovering = false
			sink.PointerLeave()
		}
		return
	}

	if !t.hovering || s.MouseX != t.lastX || s.MouseY != t.lastY {
		sink.PointerMove(s.MouseX, s.MouseY)
	}
	t.hovering = true
	t.lastX, t.lastY = s.MouseX, s.MouseY
}
