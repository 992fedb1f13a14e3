// internal/domain/event/repository.go
package event

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

//go:embed fixture/events.json
var defaultFixture []byte

// Repository stores the catalog. List returns events in insertion order.
type Repository interface {
	List(ctx context.Context) ([]Event, error)
	Create(ctx context.Context, draft Draft) (*Event, error)
}

// DefaultFixture returns the events bundled with the binary
func DefaultFixture() ([]Event, error) {
	return ParseFixture(defaultFixture)
}

// LoadFixture reads a JSON array of events from path
func LoadFixture(path string) ([]Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes a JSON array of events
func ParseFixture(data []byte) ([]Event, error) {
	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	for i := range events {
		if events[i].ID == "" {
			return nil, fmt.Errorf("fixture event at index %d has no id", i)
		}
		events[i].Seq = int64(i + 1)
	}
	return events, nil
}

// NextID returns the id for a new event: catalog size + 1, moving forward
// past ids that are already taken.
func NextID(events []Event) ID {
	n := len(events) + 1
	for {
		candidate := ID(strconv.Itoa(n))
		if !containsID(events, candidate) {
			return candidate
		}
		n++
	}
}

func containsID(events []Event, id ID) bool {
	for i := range events {
		if events[i].ID.Matches(id) {
			return true
		}
	}
	return false
}

// MemoryRepository keeps the catalog in process memory
type MemoryRepository struct {
	mu     sync.RWMutex
	events []Event
	now    func() time.Time
}

// NewMemoryRepository creates a repository seeded with a copy of events
func NewMemoryRepository(events []Event) *MemoryRepository {
	seeded := make([]Event, len(events))
	for i := range events {
		seeded[i] = events[i].Clone()
		seeded[i].Seq = int64(i + 1)
	}
	return &MemoryRepository{
		events: seeded,
		now:    time.Now,
	}
}

// List returns a copy of every event in insertion order
func (r *MemoryRepository) List(ctx context.Context) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Event, len(r.events))
	for i := range r.events {
		out[i] = r.events[i].Clone()
	}
	return out, nil
}

// Create appends a new event built from draft
func (r *MemoryRepository) Create(ctx context.Context, draft Draft) (*Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ev := draft.ToEvent(NextID(r.events), r.now())
	ev.Seq = int64(len(r.events) + 1)
	r.events = append(r.events, ev)

	created := ev.Clone()
	return &created, nil
}
