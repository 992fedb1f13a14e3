// internal/infrastructure/database/redis/order_handoff.go
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/your-org/eventhub-storefront/internal/domain/checkout"
)

const orderKeyPrefix = "eventhub-order:"

// OrderHandoff passes orders to the confirmation view through Redis. GETDEL
// makes the read and the delete one step, so an order is consumed once even
// with several server instances.
type OrderHandoff struct {
	client *redis.Client
	ttl    time.Duration
}

var _ checkout.Handoff = (*OrderHandoff)(nil)

// NewOrderHandoff creates a handoff whose entries expire after ttl
func NewOrderHandoff(client *redis.Client, ttl time.Duration) *OrderHandoff {
	return &OrderHandoff{client: client, ttl: ttl}
}

func orderKey(sessionID, id string) string {
	return orderKeyPrefix + sessionID + ":" + id
}

func (h *OrderHandoff) Stash(ctx context.Context, sessionID string, order *checkout.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to encode order: %w", err)
	}
	return h.client.Set(ctx, orderKey(sessionID, order.ID), data, h.ttl).Err()
}

func (h *OrderHandoff) Take(ctx context.Context, sessionID, id string) (*checkout.Order, error) {
	data, err := h.client.GetDel(ctx, orderKey(sessionID, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, checkout.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	var order checkout.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	return &order, nil
}
