package livesource

import "context"

// Stream is one open room connection. Events delivers typed events
// until the connection ends; the channel is closed after a
// DisconnectedEvent (or on Close). Err reports the terminal error, if
// any, once Events is closed.
type Stream struct {
	Events <-chan Event

	close func()
	err   func() error
}

// NewStream wraps an event channel with close/err hooks. Intended for
// client implementations and test fakes.
func NewStream(events <-chan Event, closeFn func(), errFn func() error) *Stream {
	return &Stream{Events: events, close: closeFn, err: errFn}
}

// Close tears the connection down. Safe to call more than once.
func (s *Stream) Close() {
	if s.close != nil {
		s.close()
	}
}

// Err returns the terminal error once Events has been closed
func (s *Stream) Err() error {
	if s.err != nil {
		return s.err()
	}
	return nil
}

// Client opens live-broadcast connections. Open blocks until the room
// connection is established or fails with one of the typed errors.
type Client interface {
	Open(ctx context.Context, handle string) (*Stream, error)
}
