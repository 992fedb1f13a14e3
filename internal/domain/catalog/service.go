// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/your-org/eventhub-storefront/internal/domain/event"
)

// Service is the storefront's single entry point to catalog data. It
// validates drafts before they reach the source and logs failed calls.
type Service struct {
	source    Source
	sequencer *Sequencer
	logger    *logrus.Logger
}

// NewService creates a new catalog service
func NewService(source Source, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		source:    source,
		sequencer: NewSequencer(),
		logger:    logger,
	}
}

// GetEvents lists the whole catalog
func (s *Service) GetEvents(ctx context.Context) (*EventListResponse, error) {
	return observe(s, "list_events", func() (*EventListResponse, error) {
		return s.source.ListEvents(ctx)
	})
}

// ListEvents lists the catalog narrowed and ordered by opts. Both source
// modes share the filtering since it runs after the source call.
func (s *Service) ListEvents(ctx context.Context, opts ListOptions) (*EventListResponse, error) {
	resp, err := s.GetEvents(ctx)
	if err != nil {
		return nil, err
	}

	events := opts.Apply(resp.Data)
	return &EventListResponse{
		Success: resp.Success,
		Data:    events,
		Count:   len(events),
		Message: resp.Message,
	}, nil
}

// GetEventByID returns the event envelope; success is false when absent
func (s *Service) GetEventByID(ctx context.Context, id event.ID) (*EventResponse, error) {
	return observe(s, "get_event", func() (*EventResponse, error) {
		return s.source.GetEvent(ctx, id)
	})
}

// GetEventsByCategory filters by exact category
func (s *Service) GetEventsByCategory(ctx context.Context, category string) (*EventListResponse, error) {
	return observe(s, "events_by_category", func() (*EventListResponse, error) {
		return s.source.EventsByCategory(ctx, category)
	})
}

// SearchEvents runs a free-text search
func (s *Service) SearchEvents(ctx context.Context, query string) (*EventListResponse, error) {
	return observe(s, "search_events", func() (*EventListResponse, error) {
		return s.source.Search(ctx, query)
	})
}

// SearchLatest runs a search for key, superseding any earlier search for
// the same key that is still running.
func (s *Service) SearchLatest(ctx context.Context, key, query string) (*EventListResponse, error) {
	return Latest(ctx, s.sequencer, key, func(ctx context.Context) (*EventListResponse, error) {
		return s.SearchEvents(ctx, query)
	})
}

// CreateEvent validates the draft and submits it. Invalid drafts fail with
// a *ValidationError without contacting the source.
func (s *Service) CreateEvent(ctx context.Context, draft event.Draft) (*EventResponse, error) {
	if fieldErrs := draft.Validate(); len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	resp, err := observe(s, "create_event", func() (*EventResponse, error) {
		return s.source.CreateEvent(ctx, draft)
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success && len(resp.Errors) > 0 {
		return nil, &ValidationError{Fields: resp.Errors}
	}

	if resp.Data != nil {
		s.logger.WithFields(logrus.Fields{
			"event_id": resp.Data.ID,
			"title":    resp.Data.Title,
		}).Info("Event created")
	}
	return resp, nil
}

// GetCategories lists distinct categories
func (s *Service) GetCategories(ctx context.Context) (*CategoryListResponse, error) {
	return observe(s, "categories", func() (*CategoryListResponse, error) {
		return s.source.Categories(ctx)
	})
}

// GetStats summarizes the catalog
func (s *Service) GetStats(ctx context.Context) (*StatsResponse, error) {
	return observe(s, "stats", func() (*StatsResponse, error) {
		return s.source.Stats(ctx)
	})
}

// GetEventDetails returns the detailed event view
func (s *Service) GetEventDetails(ctx context.Context, id event.ID) (*EventDetailsResult, error) {
	return observe(s, OpGetEventDetails, func() (*EventDetailsResult, error) {
		return s.source.EventDetails(ctx, id)
	})
}

// SearchByOrganizer finds events by organizer name
func (s *Service) SearchByOrganizer(ctx context.Context, name string) (*OrganizerSearchResult, error) {
	return observe(s, OpSearchByOrganizer, func() (*OrganizerSearchResult, error) {
		return s.source.SearchByOrganizer(ctx, name)
	})
}

// GetAttendees reports attendance for an event
func (s *Service) GetAttendees(ctx context.Context, id event.ID) (*AttendeesResult, error) {
	return observe(s, OpGetAttendees, func() (*AttendeesResult, error) {
		return s.source.Attendees(ctx, id)
	})
}

// GetUpcomingEvents lists the next events
func (s *Service) GetUpcomingEvents(ctx context.Context) (*UpcomingEventsResult, error) {
	return observe(s, OpGetUpcomingEvents, func() (*UpcomingEventsResult, error) {
		return s.source.UpcomingEvents(ctx)
	})
}

func observe[T any](s *Service, op string, call func() (T, error)) (T, error) {
	start := time.Now()
	result, err := call()
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.WithFields(logrus.Fields{
			"operation": op,
			"duration":  time.Since(start),
			"error":     err.Error(),
		}).Error("Catalog request failed")
	}
	return result, err
}
