package game

import (
	"sync"

	"github.com/pthm-cable/pixeldust/components"
)

type eventKind uint8

const (
	evPointerMove eventKind = iota
	evPointerLeave
	evTouchStart
	evTouchMove
	evTouchEnd
	evResize
	evLoadPattern
	evLoaded
)

// event is an inbound request or a completed load. Inbound calls may come
// from any goroutine; the game applies events in order at the start of Update.
type event struct {
	kind eventKind

	x, y          float64
	width, height int

	ref    string
	origin *components.Position

	// evLoaded
	gen   uint64
	seeds []components.Seed
	err   error
}

type eventQueue struct {
	mu     sync.Mutex
	events []event
}

func (q *eventQueue) push(ev event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// drain moves pending events into buf and returns it.
func (q *eventQueue) drain(buf []event) []event {
	q.mu.Lock()
	buf = append(buf[:0], q.events...)
	clear(q.events)
	q.events = q.events[:0]
	q.mu.Unlock()
	return buf
}
