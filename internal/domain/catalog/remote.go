// internal/domain/catalog/remote.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/your-org/eventhub-storefront/internal/domain/event"
)

// maxErrorBody bounds how much of an unexpected response is kept in errors
const maxErrorBody = 512

// RemoteSource resolves catalog operations against the mock API over HTTP
type RemoteSource struct {
	baseURL string
	client  *http.Client
}

// NewRemoteSource creates a source for the mock API rooted at baseURL
func NewRemoteSource(baseURL string, client *http.Client) *RemoteSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (s *RemoteSource) ListEvents(ctx context.Context) (*EventListResponse, error) {
	var resp EventListResponse
	if err := s.do(ctx, "list events", http.MethodGet, "/api/events", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *RemoteSource) GetEvent(ctx context.Context, id event.ID) (*EventResponse, error) {
	var resp EventResponse
	path := "/api/events/" + url.PathEscape(id.String())
	if err := s.do(ctx, "get event", http.MethodGet, path, nil, &resp, http.StatusOK, http.StatusNotFound); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *RemoteSource) EventsByCategory(ctx context.Context, category string) (*EventListResponse, error) {
	var resp EventListResponse
	path := "/api/events/category/" + url.PathEscape(category)
	if err := s.do(ctx, "events by category", http.MethodGet, path, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *RemoteSource) Search(ctx context.Context, query string) (*EventListResponse, error) {
	var resp EventListResponse
	path := "/api/search?q=" + url.QueryEscape(query)
	if err := s.do(ctx, "search events", http.MethodGet, path, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *RemoteSource) CreateEvent(ctx context.Context, draft event.Draft) (*EventResponse, error) {
	var resp EventResponse
	err := s.do(ctx, "create event", http.MethodPost, "/api/events", draft, &resp,
		http.StatusCreated, http.StatusOK, http.StatusBadRequest)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *RemoteSource) Categories(ctx context.Context) (*CategoryListResponse, error) {
	var resp CategoryListResponse
	if err := s.do(ctx, "list categories", http.MethodGet, "/api/categories", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *RemoteSource) Stats(ctx context.Context) (*StatsResponse, error) {
	var resp StatsResponse
	if err := s.do(ctx, "stats", http.MethodGet, "/api/stats", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *RemoteSource) EventDetails(ctx context.Context, id event.ID) (*EventDetailsResult, error) {
	var resp EventDetailsResult
	req := QueryRequest{
		Query:         QueryGetEventDetails,
		Variables:     map[string]interface{}{"id": id.String()},
		OperationName: OpGetEventDetails,
	}
	if err := s.query(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *RemoteSource) SearchByOrganizer(ctx context.Context, name string) (*OrganizerSearchResult, error) {
	var resp OrganizerSearchResult
	req := QueryRequest{
		Query:         QuerySearchByOrganizer,
		Variables:     map[string]interface{}{"organizer": name},
		OperationName: OpSearchByOrganizer,
	}
	if err := s.query(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *RemoteSource) Attendees(ctx context.Context, id event.ID) (*AttendeesResult, error) {
	var resp AttendeesResult
	req := QueryRequest{
		Query:         QueryGetAttendees,
		Variables:     map[string]interface{}{"eventId": id.String()},
		OperationName: OpGetAttendees,
	}
	if err := s.query(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *RemoteSource) UpcomingEvents(ctx context.Context) (*UpcomingEventsResult, error) {
	var resp UpcomingEventsResult
	req := QueryRequest{
		Query:         QueryGetUpcomingEvents,
		OperationName: OpGetUpcomingEvents,
	}
	if err := s.query(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *RemoteSource) query(ctx context.Context, req QueryRequest, out interface{}) error {
	op := "query " + req.OperationName
	return s.do(ctx, op, http.MethodPost, "/graphql", req, out, http.StatusOK)
}

// do performs one round trip. Bodies arriving with any of the accepted
// statuses are decoded into out; everything else is a TransportError.
func (s *RemoteSource) do(ctx context.Context, op, method, path string, body, out interface{}, accepted ...int) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("failed to encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if !statusAccepted(resp.StatusCode, accepted) {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(string(snippet))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func statusAccepted(status int, accepted []int) bool {
	for _, code := range accepted {
		if status == code {
			return true
		}
	}
	return false
}
