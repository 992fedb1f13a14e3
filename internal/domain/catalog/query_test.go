package catalog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationName(t *testing.T) {
	tests := []struct {
		name string
		req  QueryRequest
		want string
	}{
		{name: "explicit name wins", req: QueryRequest{Query: QueryGetAttendees, OperationName: OpGetEventDetails}, want: OpGetEventDetails},
		{name: "named query", req: QueryRequest{Query: QueryGetAttendees}, want: OpGetAttendees},
		{name: "mutation keyword", req: QueryRequest{Query: "mutation DoThing { x }"}, want: "DoThing"},
		{name: "substring fallback", req: QueryRequest{Query: "{ GetUpcomingEvents }"}, want: OpGetUpcomingEvents},
		{name: "nothing recognisable", req: QueryRequest{Query: "{ events { id } }"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OperationName(tt.req))
		})
	}
}

func TestExecute_Dispatch(t *testing.T) {
	r := newTestResolver(t)
	ctx := context.Background()

	details, err := r.Execute(ctx, QueryRequest{Query: QueryGetEventDetails, Variables: map[string]interface{}{"id": float64(2)}})
	require.NoError(t, err)
	require.IsType(t, &EventDetailsResult{}, details)
	assert.Equal(t, "Noche de Jazz en Bellavista", details.(*EventDetailsResult).Data.Event.Title)

	organizer, err := r.Execute(ctx, QueryRequest{Query: QuerySearchByOrganizer, Variables: map[string]interface{}{"organizer": "corre"}})
	require.NoError(t, err)
	require.IsType(t, &OrganizerSearchResult{}, organizer)
	assert.Len(t, organizer.(*OrganizerSearchResult).Data.Events, 1)

	attendees, err := r.Execute(ctx, QueryRequest{Query: QueryGetAttendees, Variables: map[string]interface{}{"eventId": "3"}})
	require.NoError(t, err)
	require.IsType(t, &AttendeesResult{}, attendees)
	assert.Equal(t, 60000, attendees.(*AttendeesResult).Data.Attendees.Total)

	upcoming, err := r.Execute(ctx, QueryRequest{Query: QueryGetUpcomingEvents})
	require.NoError(t, err)
	require.IsType(t, &UpcomingEventsResult{}, upcoming)
	assert.Len(t, upcoming.(*UpcomingEventsResult).Data.UpcomingEvents, UpcomingLimit)
}

func TestExecute_Errors(t *testing.T) {
	r := newTestResolver(t)
	ctx := context.Background()

	unknown, err := r.Execute(ctx, QueryRequest{Query: "query Nope { nope }"})
	require.NoError(t, err)
	body, err := json.Marshal(unknown)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":null,"errors":[{"message":"unknown operation \"Nope\"","extensions":{"code":"UNKNOWN_OPERATION"}}]}`, string(body))

	missingID, err := r.Execute(ctx, QueryRequest{Query: QueryGetEventDetails})
	require.NoError(t, err)
	assert.Equal(t, CodeBadUserInput, missingID.(*EventDetailsResult).ErrorCode())

	badOrganizer, err := r.Execute(ctx, QueryRequest{Query: QuerySearchByOrganizer, Variables: map[string]interface{}{"organizer": 12}})
	require.NoError(t, err)
	assert.Equal(t, CodeBadUserInput, badOrganizer.(*OrganizerSearchResult).ErrorCode())
}

func TestExecute_NotFoundShape(t *testing.T) {
	r := newTestResolver(t)

	result, err := r.Execute(context.Background(), QueryRequest{
		Query:     QueryGetEventDetails,
		Variables: map[string]interface{}{"id": "999"},
	})
	require.NoError(t, err)

	body, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"event":null},"errors":[{"message":"Evento no encontrado","extensions":{"code":"NOT_FOUND"}}]}`, string(body))
}
