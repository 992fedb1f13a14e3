// internal/domain/catalog/query.go
package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/your-org/eventhub-storefront/internal/domain/event"
)

// Named operations understood by the named-query endpoint
const (
	OpGetEventDetails   = "GetEventDetails"
	OpSearchByOrganizer = "SearchByOrganizer"
	OpGetAttendees      = "GetAttendees"
	OpGetUpcomingEvents = "GetUpcomingEvents"
)

var knownOperations = []string{OpGetEventDetails, OpSearchByOrganizer, OpGetAttendees, OpGetUpcomingEvents}

var operationPattern = regexp.MustCompile(`\b(?:query|mutation)\s+([A-Za-z_][A-Za-z0-9_]*)`)

// Query documents sent by the remote source
const (
	QueryGetEventDetails = `
query GetEventDetails($id: ID!) {
  event(id: $id) {
    id title date time location category description fullDescription
    price availableSeats confirmedAttendees
    organizer { name email phone website }
    rating reviewsCount tags requirements schedule { time activity }
  }
}`

	QuerySearchByOrganizer = `
query SearchByOrganizer($organizer: String!) {
  events(organizer: $organizer) {
    id title date location organizer { name email }
  }
}`

	QueryGetAttendees = `
query GetAttendees($eventId: ID!) {
  attendees(eventId: $eventId) { total availableSeats eventId }
}`

	QueryGetUpcomingEvents = `
query GetUpcomingEvents {
  upcomingEvents { id title date time location category }
}`
)

// OperationName determines which named operation a request invokes: the
// explicit operationName, else the first named query in the document, else
// the first known operation mentioned anywhere in it.
func OperationName(req QueryRequest) string {
	if name := strings.TrimSpace(req.OperationName); name != "" {
		return name
	}
	if m := operationPattern.FindStringSubmatch(req.Query); m != nil {
		return m[1]
	}
	for _, op := range knownOperations {
		if strings.Contains(req.Query, op) {
			return op
		}
	}
	return ""
}

// Execute dispatches a named-query request. The returned value is one of
// the *QueryResult types and is ready to be encoded as the response body.
func (r *Resolver) Execute(ctx context.Context, req QueryRequest) (interface{}, error) {
	op := OperationName(req)

	switch op {
	case OpGetEventDetails:
		id, ok := idVariable(req.Variables, "id")
		if !ok {
			return badInput[EventDetailsData]("variable \"id\" is required"), nil
		}
		return r.EventDetails(ctx, id)

	case OpSearchByOrganizer:
		name, ok := stringVariable(req.Variables, "organizer")
		if !ok {
			return badInput[OrganizerSearchData]("variable \"organizer\" must be a string"), nil
		}
		return r.SearchByOrganizer(ctx, name)

	case OpGetAttendees:
		id, ok := idVariable(req.Variables, "eventId")
		if !ok {
			return badInput[AttendeesData]("variable \"eventId\" is required"), nil
		}
		return r.Attendees(ctx, id)

	case OpGetUpcomingEvents:
		return r.UpcomingEvents(ctx)

	default:
		return &QueryResult[struct{}]{
			Errors: queryError(CodeUnknownOperation, fmt.Sprintf("unknown operation %q", op)),
		}, nil
	}
}

func badInput[T any](message string) *QueryResult[T] {
	return &QueryResult[T]{Errors: queryError(CodeBadUserInput, message)}
}

func idVariable(vars map[string]interface{}, name string) (event.ID, bool) {
	v, ok := vars[name]
	if !ok {
		return "", false
	}
	return event.ParseID(v)
}

// A missing organizer variable is treated as an empty search
func stringVariable(vars map[string]interface{}, name string) (string, bool) {
	v, ok := vars[name]
	if !ok || v == nil {
		return "", true
	}
	s, ok := v.(string)
	return s, ok
}
