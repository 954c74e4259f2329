package runtime

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/baml-go/baml-runtime/engine"
)

// EventKind classifies a completion event.
type EventKind uint8

const (
	EventResult EventKind = iota
	EventError
	EventTick
)

func (k EventKind) String() string {
	switch k {
	case EventResult:
		return "result"
	case EventError:
		return "error"
	case EventTick:
		return "tick"
	}
	return "unknown"
}

// Event is one asynchronous completion event, tagged with the call
// identifier it belongs to. Code and Data are the library's own payload,
// uninterpreted except that EventError is terminal for a stream.
type Event struct {
	CallID uint32
	Kind   EventKind
	Code   int32
	Data   []byte
}

// Router owns the process-wide callback registration and fans events out
// to per-call listeners by identifier. Because the library keeps only the
// last registration, create one Router per process and share it between
// runtimes.
type Router struct {
	mu      sync.RWMutex
	pending map[uint32]*entry
	nextID  atomic.Uint32
}

type entry struct {
	ch     chan Event
	stream bool
}

// streamBacklog bounds how many undrained events a stream buffers before
// delivery starts dropping.
const streamBacklog = 64

// NewRouter builds a Router and installs it as the library's callback
// sink. Installation is a no-op when the library lacks the registration
// entry point; calls then simply never complete and rely on caller
// context deadlines.
func NewRouter(lib Library) *Router {
	r := &Router{pending: make(map[uint32]*entry)}
	lib.RegisterCallbacks(engine.CallbackHandlers{
		OnResult: func(id uint32, code int32, data []byte) {
			r.deliver(Event{CallID: id, Kind: EventResult, Code: code, Data: data})
		},
		OnError: func(id uint32, code int32, data []byte) {
			r.deliver(Event{CallID: id, Kind: EventError, Code: code, Data: data})
		},
		OnTick: func(id uint32) {
			r.deliver(Event{CallID: id, Kind: EventTick})
		},
	})
	return r
}

// register allocates an identifier for a unary call. The first result or
// error event resolves it; ticks are heartbeat only and not buffered.
func (r *Router) register() (uint32, <-chan Event) {
	id := r.nextID.Add(1)
	e := &entry{ch: make(chan Event, 1)}
	r.mu.Lock()
	r.pending[id] = e
	r.mu.Unlock()
	return id, e.ch
}

// openStream allocates an identifier for a streaming call. All event
// kinds are delivered; an error event is terminal.
func (r *Router) openStream() (uint32, chan Event) {
	id := r.nextID.Add(1)
	e := &entry{ch: make(chan Event, streamBacklog), stream: true}
	r.mu.Lock()
	r.pending[id] = e
	r.mu.Unlock()
	return id, e.ch
}

// drop abandons a listener. Events arriving for the identifier afterwards
// are discarded.
func (r *Router) drop(id uint32) {
	r.mu.Lock()
	delete(r.pending, id)
	r.mu.Unlock()
}

func (r *Router) deliver(ev Event) {
	r.mu.Lock()
	e, ok := r.pending[ev.CallID]
	if ok {
		// unary listeners resolve on the first result or error;
		// stream listeners end on error
		if !e.stream && ev.Kind != EventTick {
			delete(r.pending, ev.CallID)
		}
		if e.stream && ev.Kind == EventError {
			delete(r.pending, ev.CallID)
		}
	}
	r.mu.Unlock()

	if !ok {
		Logger().Debug("event for unknown call dropped",
			zap.Uint32("call_id", ev.CallID), zap.String("kind", ev.Kind.String()))
		return
	}
	if !e.stream && ev.Kind == EventTick {
		return
	}

	select {
	case e.ch <- ev:
	default:
		Logger().Debug("listener backlog full, event dropped",
			zap.Uint32("call_id", ev.CallID), zap.String("kind", ev.Kind.String()))
	}
}
