// internal/domain/catalog/responses.go
package catalog

import (
	"github.com/your-org/eventhub-storefront/internal/domain/event"
)

// User-facing messages carried in flat-style envelopes
const (
	MessageEventsRetrieved = "Eventos obtenidos exitosamente"
	MessageEventNotFound   = "Evento no encontrado"
	MessageEventCreated    = "Evento creado exitosamente"
	MessageMissingFields   = "Por favor completa todos los campos obligatorios"
)

// Named-query error codes
const (
	CodeNotFound         = "NOT_FOUND"
	CodeBadUserInput     = "BAD_USER_INPUT"
	CodeUnknownOperation = "UNKNOWN_OPERATION"
)

// EventListResponse is the flat-style envelope for event lists
type EventListResponse struct {
	Success bool          `json:"success"`
	Data    []event.Event `json:"data"`
	Count   int           `json:"count"`
	Message string        `json:"message,omitempty"`
}

// EventResponse is the flat-style envelope for a single event
type EventResponse struct {
	Success bool               `json:"success"`
	Data    *event.Event       `json:"data,omitempty"`
	Message string             `json:"message,omitempty"`
	Errors  []event.FieldError `json:"errors,omitempty"`
}

// CategoryListResponse lists distinct categories in first-seen order
type CategoryListResponse struct {
	Success bool     `json:"success"`
	Data    []string `json:"data"`
	Count   int      `json:"count"`
}

// Stats summarizes the catalog
type Stats struct {
	TotalEvents  int   `json:"totalEvents"`
	Categories   int   `json:"categories"`
	TotalSeats   int   `json:"totalSeats"`
	AveragePrice int64 `json:"averagePrice"`
}

// StatsResponse is the flat-style envelope for Stats
type StatsResponse struct {
	Success bool  `json:"success"`
	Data    Stats `json:"data"`
}

// QueryRequest is the body of a named-query call
type QueryRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
	OperationName string                 `json:"operationName,omitempty"`
}

// QueryErrorExtensions carries the machine-readable error code
type QueryErrorExtensions struct {
	Code string `json:"code"`
}

// QueryError is one entry of a named-query errors list
type QueryError struct {
	Message    string               `json:"message"`
	Extensions QueryErrorExtensions `json:"extensions"`
}

// QueryResult is the named-query envelope: data on success, errors on failure
type QueryResult[T any] struct {
	Data   *T           `json:"data"`
	Errors []QueryError `json:"errors,omitempty"`
}

// HasErrors reports whether the result carries errors
func (r *QueryResult[T]) HasErrors() bool {
	return len(r.Errors) > 0
}

// ErrorCode returns the code of the first error, or ""
func (r *QueryResult[T]) ErrorCode() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Extensions.Code
}

// EventDetailsData is the payload of GetEventDetails
type EventDetailsData struct {
	Event *event.Event `json:"event"`
}

// OrganizerSearchData is the payload of SearchByOrganizer
type OrganizerSearchData struct {
	Events []event.Event `json:"events"`
}

// Attendees reports attendance for one event
type Attendees struct {
	Total          int      `json:"total"`
	AvailableSeats int      `json:"availableSeats"`
	EventID        event.ID `json:"eventId"`
}

// AttendeesData is the payload of GetAttendees
type AttendeesData struct {
	Attendees Attendees `json:"attendees"`
}

// UpcomingEventsData is the payload of GetUpcomingEvents
type UpcomingEventsData struct {
	UpcomingEvents []event.Event `json:"upcomingEvents"`
}

// Named-query results
type (
	EventDetailsResult    = QueryResult[EventDetailsData]
	OrganizerSearchResult = QueryResult[OrganizerSearchData]
	AttendeesResult       = QueryResult[AttendeesData]
	UpcomingEventsResult  = QueryResult[UpcomingEventsData]
)

func queryError(code, message string) []QueryError {
	return []QueryError{{Message: message, Extensions: QueryErrorExtensions{Code: code}}}
}
