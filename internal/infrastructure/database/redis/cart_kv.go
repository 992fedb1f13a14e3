// internal/infrastructure/database/redis/cart_kv.go
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/your-org/eventhub-storefront/internal/domain/cart"
)

// CartKV stores cart snapshots in Redis. Every write refreshes the TTL, so
// a cart lives for ttl after its last change.
type CartKV struct {
	client *redis.Client
	ttl    time.Duration
}

var _ cart.KV = (*CartKV)(nil)

// NewCartKV creates a cart snapshot store; ttl 0 keeps snapshots forever
func NewCartKV(client *redis.Client, ttl time.Duration) *CartKV {
	return &CartKV{client: client, ttl: ttl}
}

func (s *CartKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *CartKV) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, s.ttl).Err()
}

func (s *CartKV) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
