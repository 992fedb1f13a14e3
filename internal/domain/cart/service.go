// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/your-org/eventhub-storefront/internal/config"
)

// Service opens the cart belonging to a storefront session
type Service struct {
	kv     KV
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new cart service
func NewService(kv KV, cfg *config.Config, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		kv:     kv,
		config: cfg,
		logger: logger,
	}
}

// Key returns the snapshot key for a session
func (s *Service) Key(sessionID string) string {
	return fmt.Sprintf("%s:%s", s.config.Cart.Namespace, sessionID)
}

// Open loads the session's cart and attaches the change log hook
func (s *Service) Open(ctx context.Context, sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for cart")
	}

	store, err := Open(ctx, s.kv, s.Key(sessionID), s.logger)
	if err != nil {
		return nil, err
	}

	store.Subscribe(func(v View) {
		s.logger.WithFields(logrus.Fields{
			"session_id": sessionID,
			"lines":      len(v.Items),
			"count":      v.Count,
			"total":      v.Total,
			"open":       v.Open,
		}).Debug("Cart updated")
	})

	return store, nil
}
