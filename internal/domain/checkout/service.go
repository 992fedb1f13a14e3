// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"

	"github.com/your-org/eventhub-storefront/internal/config"
	"github.com/your-org/eventhub-storefront/internal/domain/cart"
)

const fingerprintLength = 16

// Service turns carts into orders
type Service struct {
	handoff Handoff
	config  *config.Config
	logger  *logrus.Logger
	now     func() time.Time

	mu     sync.Mutex
	lastID int64
	key    []byte
}

// NewService creates a new checkout service
func NewService(handoff Handoff, cfg *config.Config, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	key := blake2b.Sum256([]byte(cfg.Session.Secret))
	return &Service{
		handoff: handoff,
		config:  cfg,
		logger:  logger,
		now:     time.Now,
		key:     key[:],
	}
}

// PlaceOrder validates the form, snapshots the cart into an order, stashes
// it for the session's confirmation view and empties the cart.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, store *cart.Store, form Form) (*Order, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for checkout")
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	lines := store.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	digits := CardDigits(form.CardNumber)
	subtotal := cart.Total(lines)
	fee := ServiceFee(subtotal, s.config.Checkout.ServiceFeePercent)

	order := &Order{
		ID: s.nextOrderID(),
		Customer: Customer{
			FirstName: strings.TrimSpace(form.FirstName),
			LastName:  strings.TrimSpace(form.LastName),
			Email:     strings.TrimSpace(form.Email),
			Phone:     strings.TrimSpace(form.Phone),
		},
		Billing: Billing{
			Address: strings.TrimSpace(form.Address),
			City:    strings.TrimSpace(form.City),
			Region:  strings.TrimSpace(form.Region),
			ZipCode: strings.TrimSpace(form.ZipCode),
		},
		Payment: PaymentSummary{
			CardName:        strings.TrimSpace(form.CardName),
			CardLast4:       digits[len(digits)-4:],
			CardFingerprint: s.Fingerprint(digits),
			ExpiryDate:      strings.TrimSpace(form.ExpiryDate),
		},
		Items:      lines,
		Subtotal:   subtotal,
		ServiceFee: fee,
		Total:      subtotal + fee,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.handoff.Stash(ctx, sessionID, order); err != nil {
		return nil, fmt.Errorf("failed to stash order: %w", err)
	}

	if err := store.ClearCart(ctx); err != nil {
		s.logger.WithFields(logrus.Fields{
			"order_id": order.ID,
			"cart":     store.Key(),
			"error":    err.Error(),
		}).Warn("Order placed but cart could not be cleared")
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"tickets":  order.TicketCount(),
		"total":    order.Total,
	}).Info("Order placed")

	return order, nil
}

// ConsumeOrder returns an order stashed by the same session once. Later
// calls and other sessions get ErrOrderNotFound.
func (s *Service) ConsumeOrder(ctx context.Context, sessionID, id string) (*Order, error) {
	order, err := s.handoff.Take(ctx, sessionID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to consume order %s: %w", id, err)
	}
	return order, nil
}

// RestoreOrder stashes a consumed order again for the same session, so a
// confirmation that could not be delivered can be read later
func (s *Service) RestoreOrder(ctx context.Context, sessionID string, order *Order) error {
	if err := s.handoff.Stash(ctx, sessionID, order); err != nil {
		return fmt.Errorf("failed to restore order %s: %w", order.ID, err)
	}
	return nil
}

// Fingerprint returns a keyed hash of the card digits that identifies a card
// without revealing it
func (s *Service) Fingerprint(digits string) string {
	h, err := blake2b.New256(s.key)
	if err != nil {
		// Only possible with a key longer than 64 bytes
		panic(err)
	}
	h.Write([]byte(digits))
	return hex.EncodeToString(h.Sum(nil))[:fingerprintLength]
}

// ServiceFee returns percent of subtotal rounded to the nearest unit
func ServiceFee(subtotal, percent int64) int64 {
	return (subtotal*percent + 50) / 100
}

// nextOrderID returns "ORD-" plus the current unix millis, bumped when two
// orders land in the same millisecond
func (s *Service) nextOrderID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return "ORD-" + strconv.FormatInt(id, 10)
}
