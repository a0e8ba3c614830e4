package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnigo/leadbooker/internal"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	db, err := sql.Open(DriverName, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := NewStorage(db)
	require.NoError(t, err)
	return s
}

func TestSaveAccount(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	acc := &internal.Account{Platform: "google", Email: "marie@example.com", Auth: `{"access_token":"first"}`}
	require.NoError(t, s.SaveAccount(ctx, acc))

	// Reconnecting refreshes the token instead of failing on the key.
	acc.Auth = `{"access_token":"second"}`
	require.NoError(t, s.SaveAccount(ctx, acc))

	require.NoError(t, s.UpsertCalendar(ctx, &internal.Calendar{
		Department: "sales",
		Owner:      "Marie",
		ProviderID: "marie@example.com",
		Account:    *acc,
	}))

	cal, err := s.CalendarByID(ctx, "marie@example.com")
	require.NoError(t, err)
	require.NotNil(t, cal)
	assert.Equal(t, `{"access_token":"second"}`, cal.Account.Auth)
}

func TestCalendarsByDepartment(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveAccount(ctx, &internal.Account{
		Platform: "google", Email: "marie@example.com", Auth: `{"access_token":"t"}`,
	}))

	for _, cal := range []*internal.Calendar{
		{Department: "sales", Owner: "Zoe", ProviderID: "zoe@example.com"},
		{Department: "sales", Owner: "Marie", ProviderID: "marie@example.com",
			Account: internal.Account{Email: "marie@example.com"}},
		{Department: "support", Owner: "Ali", ProviderID: "ali@example.com"},
	} {
		require.NoError(t, s.UpsertCalendar(ctx, cal))
	}

	cals, err := s.CalendarsByDepartment(ctx, "sales")
	require.NoError(t, err)
	require.Len(t, cals, 2)

	// Ordered by owner; Marie carries her token, Zoe was never connected.
	assert.Equal(t, "Marie", cals[0].Owner)
	assert.Equal(t, "google", cals[0].Account.Platform)
	assert.NotEmpty(t, cals[0].Account.Auth)
	assert.Equal(t, "Zoe", cals[1].Owner)
	assert.Empty(t, cals[1].Account.Auth)

	cals, err = s.CalendarsByDepartment(ctx, "marketing")
	require.NoError(t, err)
	assert.Empty(t, cals)
}

func TestCalendarByID_Unregistered(t *testing.T) {
	s := newTestStorage(t)

	cal, err := s.CalendarByID(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, cal, "unknown calendars are a fallback case, not an error")
}

func TestUpsertCalendar_ReplacesOwner(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	cal := &internal.Calendar{Department: "sales", Owner: "Marie", ProviderID: "shared@example.com"}
	require.NoError(t, s.UpsertCalendar(ctx, cal))
	cal.Owner = "Jeanne"
	require.NoError(t, s.UpsertCalendar(ctx, cal))

	got, err := s.CalendarByID(ctx, "shared@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Jeanne", got.Owner)
}

func TestRecordBooking(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	cal := &internal.Calendar{Department: "sales", Owner: "Marie", ProviderID: "marie@example.com"}
	start := time.Date(2025, time.May, 12, 13, 0, 0, 0, time.UTC)
	conf := &internal.BookingConfirmation{
		Success:   true,
		EventID:   "evt-1",
		MeetLink:  "https://meet.google.com/abc-defg-hij",
		StartsAt:  start,
		EndsAt:    start.Add(30 * time.Minute),
		Attendees: []string{"good@x.com"},
	}
	require.NoError(t, s.RecordBooking(ctx, cal, conf, "Rendez-vous Omnigo"))

	var count int
	require.NoError(t, s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM bookings WHERE event_id = ? AND calendar_id = ?`,
		"evt-1", "marie@example.com"))
	assert.Equal(t, 1, count)
}
