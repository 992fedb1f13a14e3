// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/your-org/eventhub-storefront/internal/domain/event"
)

const (
	openFlagSuffix = ":ui"
	flagOpen       = "1"
	flagClosed     = "0"
)

// Store owns one cart. Every mutation swaps in a new line list under the
// store mutex and then rewrites the whole snapshot.
type Store struct {
	mu    sync.Mutex
	kv    KV
	key   string
	lines []Line
	open  bool

	subMu   sync.Mutex
	subs    map[int]func(View)
	nextSub int

	logger *logrus.Logger
}

// Open rehydrates the cart stored under key. A missing or unreadable
// snapshot yields an empty cart.
func Open(ctx context.Context, kv KV, key string, logger *logrus.Logger) (*Store, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Store{
		kv:     kv,
		key:    key,
		lines:  []Line{},
		subs:   make(map[int]func(View)),
		logger: logger,
	}

	data, err := kv.Get(ctx, key)
	switch {
	case errors.Is(err, ErrSnapshotNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to load cart snapshot: %w", err)
	default:
		var lines []Line
		if err := json.Unmarshal(data, &lines); err != nil {
			logger.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Debug("Discarding unreadable cart snapshot")
		} else if lines != nil {
			s.lines = lines
		}
	}

	flag, err := kv.Get(ctx, key+openFlagSuffix)
	switch {
	case errors.Is(err, ErrSnapshotNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to load cart state: %w", err)
	default:
		s.open = string(flag) == flagOpen
	}

	return s, nil
}

// Key returns the snapshot key of this cart
func (s *Store) Key() string {
	return s.key
}

// AddToCart adds quantity tickets for ev, merging into an existing line for
// the same event, and opens the cart.
func (s *Store) AddToCart(ctx context.Context, ev event.Event, quantity int) error {
	return s.mutate(ctx, true, func(lines []Line) []Line {
		if i := indexOf(lines, ev.ID); i >= 0 {
			lines[i].Quantity += quantity
			return lines
		}
		copied := ev.Clone()
		copied.Seq = 0
		return append(lines, Line{Event: copied, Quantity: quantity})
	}, func() { s.open = true })
}

// RemoveFromCart drops the line for id; absent ids are ignored
func (s *Store) RemoveFromCart(ctx context.Context, id event.ID) error {
	return s.mutate(ctx, false, func(lines []Line) []Line {
		return removeLine(lines, id)
	}, nil)
}

// UpdateQuantity sets the quantity for id. Zero or less removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, id event.ID, quantity int) error {
	return s.mutate(ctx, false, func(lines []Line) []Line {
		if quantity <= 0 {
			return removeLine(lines, id)
		}
		if i := indexOf(lines, id); i >= 0 {
			lines[i].Quantity = quantity
		}
		return lines
	}, nil)
}

// ClearCart empties the cart and drops its snapshot. The open flag is left
// as is.
func (s *Store) ClearCart(ctx context.Context) error {
	return s.mutate(ctx, false, func([]Line) []Line {
		return []Line{}
	}, nil)
}

// ToggleCart flips the open flag
func (s *Store) ToggleCart(ctx context.Context) error {
	s.mu.Lock()
	open := !s.open
	s.mu.Unlock()
	return s.SetOpen(ctx, open)
}

// SetOpen sets the open flag
func (s *Store) SetOpen(ctx context.Context, open bool) error {
	s.mu.Lock()
	s.open = open
	err := s.persistFlag(ctx)
	view := s.viewLocked()
	s.mu.Unlock()

	s.notify(view)
	return err
}

// IsOpen reports whether the cart panel is open
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Lines returns a copy of the current lines in insertion order
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLines(s.lines)
}

// Total returns the sum of price times quantity
func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Total(s.lines)
}

// Count returns the number of tickets in the cart
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Count(s.lines)
}

// View returns lines and derived values read together
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Subscribe registers fn to be called after every change. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(View)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// mutate applies fn to a private copy of the lines, installs the result and
// writes the snapshot. In-memory state is updated even if the write fails.
func (s *Store) mutate(ctx context.Context, touchesFlag bool, fn func([]Line) []Line, after func()) error {
	s.mu.Lock()
	s.lines = fn(cloneLines(s.lines))
	if after != nil {
		after()
	}

	err := s.persistLines(ctx)
	if err == nil && touchesFlag {
		err = s.persistFlag(ctx)
	}
	view := s.viewLocked()
	s.mu.Unlock()

	s.notify(view)
	return err
}

// persistLines writes the line snapshot. An empty cart has no snapshot.
func (s *Store) persistLines(ctx context.Context) error {
	if len(s.lines) == 0 {
		if err := s.kv.Del(ctx, s.key); err != nil {
			return fmt.Errorf("failed to delete cart snapshot: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(s.lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart snapshot: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	return nil
}

func (s *Store) persistFlag(ctx context.Context) error {
	flag := flagClosed
	if s.open {
		flag = flagOpen
	}
	if err := s.kv.Set(ctx, s.key+openFlagSuffix, []byte(flag)); err != nil {
		return fmt.Errorf("failed to save cart state: %w", err)
	}
	return nil
}

func (s *Store) viewLocked() View {
	return View{
		Items: cloneLines(s.lines),
		Count: Count(s.lines),
		Total: Total(s.lines),
		Open:  s.open,
	}
}

func (s *Store) notify(view View) {
	s.subMu.Lock()
	subs := make([]func(View), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(view)
	}
}

func removeLine(lines []Line, id event.ID) []Line {
	out := lines[:0]
	for _, l := range lines {
		if !l.ID.Matches(id) {
			out = append(out, l)
		}
	}
	return out
}
