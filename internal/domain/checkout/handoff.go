// internal/domain/checkout/handoff.go
package checkout

import (
	"context"
	"sync"
	"time"
)

// Handoff passes a placed order to the confirmation view exactly once.
// Orders are filed under the session that placed them and only that
// session can take them back.
type Handoff interface {
	Stash(ctx context.Context, sessionID string, order *Order) error
	// Take returns the order and forgets it. ErrOrderNotFound when absent
	// or stashed by another session.
	Take(ctx context.Context, sessionID, id string) (*Order, error)
}

type stashed struct {
	order     Order
	expiresAt time.Time
}

// MemoryHandoff keeps stashed orders in process memory
type MemoryHandoff struct {
	mu     sync.Mutex
	ttl    time.Duration
	orders map[string]stashed
	now    func() time.Time
}

// NewMemoryHandoff creates a handoff whose entries expire after ttl
func NewMemoryHandoff(ttl time.Duration) *MemoryHandoff {
	return &MemoryHandoff{
		ttl:    ttl,
		orders: make(map[string]stashed),
		now:    time.Now,
	}
}

func handoffKey(sessionID, id string) string {
	return sessionID + ":" + id
}

func (h *MemoryHandoff) Stash(ctx context.Context, sessionID string, order *Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	for key, entry := range h.orders {
		if now.After(entry.expiresAt) {
			delete(h.orders, key)
		}
	}
	h.orders[handoffKey(sessionID, order.ID)] = stashed{order: *order, expiresAt: now.Add(h.ttl)}
	return nil
}

func (h *MemoryHandoff) Take(ctx context.Context, sessionID, id string) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	key := handoffKey(sessionID, id)
	entry, ok := h.orders[key]
	if !ok {
		return nil, ErrOrderNotFound
	}
	delete(h.orders, key)

	if h.now().After(entry.expiresAt) {
		return nil, ErrOrderNotFound
	}
	order := entry.order
	return &order, nil
}
