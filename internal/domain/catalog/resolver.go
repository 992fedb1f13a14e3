// internal/domain/catalog/resolver.go
package catalog

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/your-org/eventhub-storefront/internal/domain/event"
)

// UpcomingLimit caps the number of events returned by UpcomingEvents
const UpcomingLimit = 5

// Resolver evaluates every catalog operation against a repository. It backs
// the static resolution mode and the interception layer alike, so both
// apply the same matching rules.
type Resolver struct {
	repo event.Repository
	now  func() time.Time
	loc  *time.Location
}

// ResolverOption customizes a Resolver
type ResolverOption func(*Resolver)

// WithClock overrides the time source used for upcoming-event filtering
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		r.now = now
	}
}

// WithLocation sets the location in which "today" is computed
func WithLocation(loc *time.Location) ResolverOption {
	return func(r *Resolver) {
		r.loc = loc
	}
}

// NewResolver creates a resolver over repo
func NewResolver(repo event.Repository, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		repo: repo,
		now:  time.Now,
		loc:  time.Local,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewInMemorySource creates the static-mode source: a resolver over an
// in-memory copy of the fixture. It never touches the network.
func NewInMemorySource(fixture []event.Event, opts ...ResolverOption) *Resolver {
	return NewResolver(event.NewMemoryRepository(fixture), opts...)
}

func (r *Resolver) events(ctx context.Context) ([]event.Event, error) {
	events, err := r.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// ListEvents returns the whole catalog
func (r *Resolver) ListEvents(ctx context.Context) (*EventListResponse, error) {
	events, err := r.events(ctx)
	if err != nil {
		return nil, err
	}
	return &EventListResponse{
		Success: true,
		Data:    nonNil(events),
		Count:   len(events),
		Message: MessageEventsRetrieved,
	}, nil
}

// GetEvent looks an event up by id
func (r *Resolver) GetEvent(ctx context.Context, id event.ID) (*EventResponse, error) {
	events, err := r.events(ctx)
	if err != nil {
		return nil, err
	}

	if ev := findEvent(events, id); ev != nil {
		return &EventResponse{Success: true, Data: ev}, nil
	}
	return &EventResponse{Success: false, Message: MessageEventNotFound}, nil
}

// EventsByCategory filters by exact, case-sensitive category
func (r *Resolver) EventsByCategory(ctx context.Context, category string) (*EventListResponse, error) {
	events, err := r.events(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]event.Event, 0)
	for _, ev := range events {
		if ev.Category == category {
			filtered = append(filtered, ev)
		}
	}
	return &EventListResponse{Success: true, Data: filtered, Count: len(filtered)}, nil
}

// Search matches query case-insensitively against title, description,
// location and category. A blank query matches every event.
func (r *Resolver) Search(ctx context.Context, query string) (*EventListResponse, error) {
	events, err := r.events(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	results := make([]event.Event, 0)
	for _, ev := range events {
		if needle == "" || matchesAny(needle, ev.Title, ev.Description, ev.Location, ev.Category) {
			results = append(results, ev)
		}
	}
	return &EventListResponse{Success: true, Data: results, Count: len(results)}, nil
}

// CreateEvent validates and stores a draft
func (r *Resolver) CreateEvent(ctx context.Context, draft event.Draft) (*EventResponse, error) {
	if fieldErrs := draft.Validate(); len(fieldErrs) > 0 {
		return &EventResponse{Success: false, Message: MessageMissingFields, Errors: fieldErrs}, nil
	}

	created, err := r.repo.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return &EventResponse{Success: true, Data: created, Message: MessageEventCreated}, nil
}

// Categories returns distinct categories in first-seen order
func (r *Resolver) Categories(ctx context.Context) (*CategoryListResponse, error) {
	events, err := r.events(ctx)
	if err != nil {
		return nil, err
	}

	categories := distinctCategories(events)
	return &CategoryListResponse{Success: true, Data: categories, Count: len(categories)}, nil
}

// Stats summarizes the catalog
func (r *Resolver) Stats(ctx context.Context) (*StatsResponse, error) {
	events, err := r.events(ctx)
	if err != nil {
		return nil, err
	}

	stats := Stats{
		TotalEvents: len(events),
		Categories:  len(distinctCategories(events)),
	}

	var priceSum int64
	for _, ev := range events {
		stats.TotalSeats += ev.AvailableSeats
		priceSum += ev.Price
	}
	if len(events) > 0 {
		stats.AveragePrice = int64(math.Round(float64(priceSum) / float64(len(events))))
	}

	return &StatsResponse{Success: true, Data: stats}, nil
}

// EventDetails returns the full event shape, or a NOT_FOUND error
func (r *Resolver) EventDetails(ctx context.Context, id event.ID) (*EventDetailsResult, error) {
	events, err := r.events(ctx)
	if err != nil {
		return nil, err
	}

	ev := findEvent(events, id)
	if ev == nil {
		return &EventDetailsResult{
			Data:   &EventDetailsData{},
			Errors: queryError(CodeNotFound, MessageEventNotFound),
		}, nil
	}
	return &EventDetailsResult{Data: &EventDetailsData{Event: ev}}, nil
}

// SearchByOrganizer matches the organizer name case-insensitively. Events
// without an organizer are matched on title and description instead.
func (r *Resolver) SearchByOrganizer(ctx context.Context, name string) (*OrganizerSearchResult, error) {
	events, err := r.events(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	results := make([]event.Event, 0)
	for _, ev := range events {
		if needle == "" {
			results = append(results, ev)
			continue
		}
		if ev.Organizer != nil && ev.Organizer.Name != "" {
			if strings.Contains(strings.ToLower(ev.Organizer.Name), needle) {
				results = append(results, ev)
			}
			continue
		}
		if matchesAny(needle, ev.Title, ev.Description) {
			results = append(results, ev)
		}
	}
	return &OrganizerSearchResult{Data: &OrganizerSearchData{Events: results}}, nil
}

// Attendees reports confirmed attendance; unknown events report zeros
func (r *Resolver) Attendees(ctx context.Context, id event.ID) (*AttendeesResult, error) {
	events, err := r.events(ctx)
	if err != nil {
		return nil, err
	}

	attendees := Attendees{EventID: id}
	if ev := findEvent(events, id); ev != nil {
		attendees.EventID = ev.ID
		attendees.AvailableSeats = ev.AvailableSeats
		if ev.ConfirmedAttendees != nil {
			attendees.Total = *ev.ConfirmedAttendees
		}
	}
	return &AttendeesResult{Data: &AttendeesData{Attendees: attendees}}, nil
}

// UpcomingEvents returns up to UpcomingLimit events dated today or later,
// soonest first
func (r *Resolver) UpcomingEvents(ctx context.Context) (*UpcomingEventsResult, error) {
	events, err := r.events(ctx)
	if err != nil {
		return nil, err
	}

	now := r.now().In(r.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.loc)

	type dated struct {
		ev   event.Event
		date time.Time
	}
	var candidates []dated
	for _, ev := range events {
		date, err := ev.StartDate(r.loc)
		if err != nil {
			continue
		}
		if !date.Before(today) {
			candidates = append(candidates, dated{ev: ev, date: date})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].date.Equal(candidates[j].date) {
			return candidates[i].date.Before(candidates[j].date)
		}
		return candidates[i].ev.Time < candidates[j].ev.Time
	})

	if len(candidates) > UpcomingLimit {
		candidates = candidates[:UpcomingLimit]
	}

	upcoming := make([]event.Event, len(candidates))
	for i, c := range candidates {
		upcoming[i] = c.ev
	}
	return &UpcomingEventsResult{Data: &UpcomingEventsData{UpcomingEvents: upcoming}}, nil
}

func findEvent(events []event.Event, id event.ID) *event.Event {
	for i := range events {
		if events[i].ID.Matches(id) {
			ev := events[i]
			return &ev
		}
	}
	return nil
}

func distinctCategories(events []event.Event) []string {
	seen := make(map[string]struct{}, len(events))
	categories := make([]string, 0)
	for _, ev := range events {
		if _, ok := seen[ev.Category]; ok {
			continue
		}
		seen[ev.Category] = struct{}{}
		categories = append(categories, ev.Category)
	}
	return categories
}

func matchesAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func nonNil(events []event.Event) []event.Event {
	if events == nil {
		return []event.Event{}
	}
	return events
}
