package runtime

import "sync"

// Stream delivers the events of one streaming call, in the order the
// library handed them to the process-wide callbacks. An EventError is the
// last event the stream will ever carry. Close releases the listener;
// events arriving afterwards are discarded by the Router.
type Stream struct {
	id        uint32
	router    *Router
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// CallID returns the identifier correlating this stream's events.
func (s *Stream) CallID() uint32 {
	return s.id
}

// Events returns the event channel. It is never closed; select against
// the caller's context or watch for an EventError.
func (s *Stream) Events() <-chan Event {
	return s.events
}

// Close abandons the stream. Idempotent. The underlying call keeps
// running inside the library; there is no cancellation primitive at the
// boundary beyond the identifier the library may match itself.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		s.router.drop(s.id)
		close(s.done)
	})
}
