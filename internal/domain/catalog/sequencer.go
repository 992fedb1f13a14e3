// internal/domain/catalog/sequencer.go
package catalog

import (
	"context"
	"sync"
)

// Ticket identifies one call issued through a Sequencer
type Ticket struct {
	key string
	seq uint64
}

type inflight struct {
	seq    uint64
	cancel context.CancelFunc
}

// Sequencer keeps only the latest call per query key meaningful. Starting a
// call cancels the previous in-flight call for the same key, and a call that
// finishes after a newer one started is reported as superseded.
type Sequencer struct {
	mu      sync.Mutex
	next    uint64
	current map[string]inflight
}

// NewSequencer creates an empty sequencer
func NewSequencer() *Sequencer {
	return &Sequencer{current: make(map[string]inflight)}
}

// Begin registers a new call for key and returns the context it must run
// under. Finish must be called with the returned ticket.
func (s *Sequencer) Begin(ctx context.Context, key string) (context.Context, Ticket) {
	callCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	if prev, ok := s.current[key]; ok {
		prev.cancel()
	}
	s.current[key] = inflight{seq: s.next, cancel: cancel}

	return callCtx, Ticket{key: key, seq: s.next}
}

// Finish releases the ticket and returns ErrSuperseded when a newer call
// for the same key was started in the meantime.
func (s *Sequencer) Finish(t Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.current[t.key]
	if !ok || cur.seq != t.seq {
		return ErrSuperseded
	}
	cur.cancel()
	delete(s.current, t.key)
	return nil
}

// Latest runs fn as the newest call for key. Results of a call overtaken by
// a newer one are discarded in favour of ErrSuperseded.
func Latest[T any](ctx context.Context, s *Sequencer, key string, fn func(context.Context) (T, error)) (T, error) {
	callCtx, ticket := s.Begin(ctx, key)
	result, err := fn(callCtx)

	if finishErr := s.Finish(ticket); finishErr != nil {
		var zero T
		return zero, finishErr
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
