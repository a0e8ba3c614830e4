package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnigo/leadbooker/internal"
)

type fakeCreator struct {
	created *internal.CreatedEvent
	err     error

	gotCal   *internal.Calendar
	gotEvent *internal.Event
	calls    int
}

func (f *fakeCreator) CreateEvent(_ context.Context, cal *internal.Calendar, ev *internal.Event) (*internal.CreatedEvent, error) {
	f.calls++
	f.gotCal = cal
	f.gotEvent = ev
	if f.err != nil {
		return nil, f.err
	}
	return f.created, nil
}

func testRequest() *internal.BookingRequest {
	start := time.Date(2025, time.May, 12, 9, 0, 0, 0, time.UTC)
	return &internal.BookingRequest{
		Calendar:    &internal.Calendar{Department: "sales", ProviderID: "marie@example.com"},
		StartsAt:    start,
		EndsAt:      start.Add(30 * time.Minute),
		Summary:     "Rendez-vous Omnigo",
		Description: "Premier contact",
		Attendees:   []string{"good@x.com", "not-an-email"},
		TimeZone:    "America/Montreal",
	}
}

func TestCreate(t *testing.T) {
	creator := &fakeCreator{created: &internal.CreatedEvent{
		ID:       "evt-1",
		MeetLink: "https://meet.google.com/abc-defg-hij",
	}}
	svc := NewService(creator, nil)

	req := testRequest()
	conf, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, creator.calls)

	assert.True(t, conf.Success)
	assert.Equal(t, "evt-1", conf.EventID)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", conf.MeetLink)
	// The platform did not echo times back; the request's span stands.
	assert.True(t, conf.StartsAt.Equal(req.StartsAt))
	assert.True(t, conf.EndsAt.Equal(req.EndsAt))

	require.NotNil(t, creator.gotEvent)
	assert.Equal(t, []string{"good@x.com"}, creator.gotEvent.Attendees,
		"only the valid address may reach the platform")
	assert.True(t, creator.gotEvent.WithMeetLink)
	assert.Equal(t, "America/Montreal", creator.gotEvent.TimeZone)
}

func TestCreate_NoConferenceLinkIsNotAnError(t *testing.T) {
	creator := &fakeCreator{created: &internal.CreatedEvent{ID: "evt-2"}}
	svc := NewService(creator, nil)

	conf, err := svc.Create(context.Background(), testRequest())
	require.NoError(t, err)
	assert.True(t, conf.Success)
	assert.Empty(t, conf.MeetLink)
}

func TestCreate_AllAttendeesInvalid(t *testing.T) {
	creator := &fakeCreator{created: &internal.CreatedEvent{ID: "evt-3"}}
	svc := NewService(creator, nil)

	req := testRequest()
	req.Attendees = []string{"not-an-email", "also not@one", "@nope"}
	conf, err := svc.Create(context.Background(), req)
	require.NoError(t, err, "the booking proceeds with an empty attendee set")
	assert.Empty(t, conf.Attendees)
	assert.Empty(t, creator.gotEvent.Attendees)
}

func TestCreate_ProviderFailurePropagates(t *testing.T) {
	providerErr := errors.New("googleapi: Error 403: forbidden")
	creator := &fakeCreator{err: providerErr}
	svc := NewService(creator, nil)

	conf, err := svc.Create(context.Background(), testRequest())
	require.ErrorIs(t, err, providerErr)
	assert.Nil(t, conf, "no partial confirmation on failure")
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*internal.BookingRequest)
	}{
		{"nil calendar", func(r *internal.BookingRequest) { r.Calendar = nil }},
		{"empty calendar id", func(r *internal.BookingRequest) { r.Calendar.ProviderID = "" }},
		{"start equals end", func(r *internal.BookingRequest) { r.EndsAt = r.StartsAt }},
		{"end before start", func(r *internal.BookingRequest) { r.EndsAt = r.StartsAt.Add(-time.Hour) }},
		{"unknown timezone", func(r *internal.BookingRequest) { r.TimeZone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator := &fakeCreator{created: &internal.CreatedEvent{ID: "evt"}}
			svc := NewService(creator, nil)

			req := testRequest()
			tt.mutate(req)
			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)
			assert.True(t, internal.IsValidation(err), "want a validation error, got %v", err)
			assert.Zero(t, creator.calls, "invalid input must fail before the provider call")
		})
	}
}

func TestValidAttendees(t *testing.T) {
	got := ValidAttendees([]string{
		"good@x.com",
		"not-an-email",
		"two@parts.co",
		"spaced out@x.com",
		"missing-dot@domain",
		"",
	})
	assert.Equal(t, []string{"good@x.com", "two@parts.co"}, got)
}
