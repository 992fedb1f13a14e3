// internal/domain/catalog/source.go
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/your-org/eventhub-storefront/internal/config"
	"github.com/your-org/eventhub-storefront/internal/domain/event"
)

// Source resolves catalog operations. Not-found outcomes come back as typed
// payloads; an error means the source itself could not answer.
type Source interface {
	ListEvents(ctx context.Context) (*EventListResponse, error)
	GetEvent(ctx context.Context, id event.ID) (*EventResponse, error)
	EventsByCategory(ctx context.Context, category string) (*EventListResponse, error)
	Search(ctx context.Context, query string) (*EventListResponse, error)
	CreateEvent(ctx context.Context, draft event.Draft) (*EventResponse, error)
	Categories(ctx context.Context) (*CategoryListResponse, error)
	Stats(ctx context.Context) (*StatsResponse, error)

	EventDetails(ctx context.Context, id event.ID) (*EventDetailsResult, error)
	SearchByOrganizer(ctx context.Context, name string) (*OrganizerSearchResult, error)
	Attendees(ctx context.Context, id event.ID) (*AttendeesResult, error)
	UpcomingEvents(ctx context.Context) (*UpcomingEventsResult, error)
}

var (
	_ Source = (*Resolver)(nil)
	_ Source = (*RemoteSource)(nil)
)

// NewSource selects the source for the configured catalog mode. The choice
// is made once at startup.
func NewSource(cfg config.CatalogConfig, fixture []event.Event) (Source, error) {
	switch cfg.Mode {
	case config.CatalogModeStatic:
		return NewInMemorySource(fixture), nil
	case config.CatalogModeLive:
		client := &http.Client{Timeout: cfg.RequestTimeout}
		if cfg.RequestTimeout <= 0 {
			client.Timeout = 10 * time.Second
		}
		return NewRemoteSource(cfg.RemoteBaseURL, client), nil
	default:
		return nil, fmt.Errorf("unknown catalog mode %q", cfg.Mode)
	}
}
