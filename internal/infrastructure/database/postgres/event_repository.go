// internal/infrastructure/database/postgres/event_repository.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/your-org/eventhub-storefront/internal/domain/event"
)

// EventRepository keeps the mock API catalog in Postgres
type EventRepository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ event.Repository = (*EventRepository)(nil)

// NewEventRepository creates a repository over db
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db, now: time.Now}
}

// List returns all events in insertion order
func (r *EventRepository) List(ctx context.Context) ([]event.Event, error) {
	var events []event.Event
	if err := r.db.WithContext(ctx).Order("seq ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// Create stores a new event. The table is locked for the duration of the
// transaction so concurrent creates cannot pick the same id.
func (r *EventRepository) Create(ctx context.Context, draft event.Draft) (*event.Event, error) {
	var created event.Event

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("LOCK TABLE events IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
			return fmt.Errorf("failed to lock events: %w", err)
		}

		var existing []event.Event
		if err := tx.Select("id", "seq").Order("seq ASC").Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load event ids: %w", err)
		}

		var lastSeq int64
		for _, ev := range existing {
			if ev.Seq > lastSeq {
				lastSeq = ev.Seq
			}
		}

		created = draft.ToEvent(event.NextID(existing), r.now())
		created.Seq = lastSeq + 1

		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}
