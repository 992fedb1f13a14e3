package catalog

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/eventhub-storefront/internal/domain/event"
)

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// countingSource records how many drafts reach the underlying source
type countingSource struct {
	Source
	creates int
}

func (c *countingSource) CreateEvent(ctx context.Context, draft event.Draft) (*EventResponse, error) {
	c.creates++
	return c.Source.CreateEvent(ctx, draft)
}

func TestService_CreateEventValidatesBeforeSubmitting(t *testing.T) {
	src := &countingSource{Source: newTestResolver(t)}
	svc := NewService(src, quietLogger())

	_, err := svc.CreateEvent(context.Background(), event.Draft{Location: "Santiago"})

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "title", validationErr.Fields[0].Field)
	assert.Zero(t, src.creates)

	resp, err := svc.CreateEvent(context.Background(), event.Draft{Title: "Feria", Location: "Santiago"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 1, src.creates)
}

func TestService_NotFoundIsPayloadNotError(t *testing.T) {
	svc := NewService(newTestResolver(t), quietLogger())
	ctx := context.Background()

	byID, err := svc.GetEventByID(ctx, "999")
	require.NoError(t, err)
	assert.False(t, byID.Success)

	details, err := svc.GetEventDetails(ctx, "999")
	require.NoError(t, err)
	assert.Equal(t, CodeNotFound, details.ErrorCode())
}

func TestService_TransportErrorsPropagate(t *testing.T) {
	svc := NewService(NewResolver(failingRepository{}), quietLogger())

	_, err := svc.GetEvents(context.Background())
	assert.Error(t, err)

	_, err = svc.GetUpcomingEvents(context.Background())
	assert.Error(t, err)
}

func TestService_FacadeDelegates(t *testing.T) {
	svc := NewService(newTestResolver(t), quietLogger())
	ctx := context.Background()

	byCategory, err := svc.GetEventsByCategory(ctx, event.CategoryFestival)
	require.NoError(t, err)
	assert.Equal(t, 1, byCategory.Count)

	search, err := svc.SearchEvents(ctx, "jazz")
	require.NoError(t, err)
	assert.Equal(t, 1, search.Count)

	cats, err := svc.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, cats.Count)

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, stats.Data.TotalEvents)

	organizer, err := svc.SearchByOrganizer(ctx, "lotus")
	require.NoError(t, err)
	assert.Len(t, organizer.Data.Events, 1)

	attendees, err := svc.GetAttendees(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 80, attendees.Data.Attendees.Total)
}

// blockingSource holds searches until released so supersession can be observed
type blockingSource struct {
	Source
	release chan struct{}
}

func (b *blockingSource) Search(ctx context.Context, query string) (*EventListResponse, error) {
	if query == "slow" {
		select {
		case <-b.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return b.Source.Search(ctx, query)
}

func TestService_SearchLatestSupersedes(t *testing.T) {
	src := &blockingSource{Source: newTestResolver(t), release: make(chan struct{})}
	svc := NewService(src, quietLogger())
	ctx := context.Background()

	slowDone := make(chan error, 1)
	go func() {
		_, err := svc.SearchLatest(ctx, "session-1", "slow")
		slowDone <- err
	}()

	// Wait until the slow search is registered before issuing the next one
	require.Eventually(t, func() bool {
		svc.sequencer.mu.Lock()
		defer svc.sequencer.mu.Unlock()
		_, ok := svc.sequencer.current["session-1"]
		return ok
	}, timeout, tick)

	resp, err := svc.SearchLatest(ctx, "session-1", "jazz")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)

	assert.ErrorIs(t, <-slowDone, ErrSuperseded)
}
