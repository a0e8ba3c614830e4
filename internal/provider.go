package internal

import (
	"context"
	"time"
)

// BusyPeriod is a raw busy entry as returned by a calendar platform. Either
// timestamp may be missing; consumers drop such entries instead of failing
// the whole query.
type BusyPeriod struct {
	Start string
	End   string
}

// Event is the descriptor sent to a calendar platform to persist a meeting.
type Event struct {
	Summary     string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	TimeZone    string
	Attendees   []string
	// WithMeetLink asks the platform to attach a video-conferencing link.
	WithMeetLink bool
}

// CreatedEvent is the platform's confirmation of a persisted meeting.
// MeetLink is empty when the platform did not return a conferencing entry.
type CreatedEvent struct {
	ID       string
	StartsAt time.Time
	EndsAt   time.Time
	MeetLink string
}

type BusyQuerier interface {
	QueryBusy(_ context.Context, _ *Calendar, from, to time.Time, timeZone string) ([]BusyPeriod, error)
}

type EventCreator interface {
	CreateEvent(_ context.Context, _ *Calendar, _ *Event) (*CreatedEvent, error)
}

// Authenticator is the web-side OAuth connect flow: a consent URL, the code
// exchange, and a way to discover which account a token belongs to.
type Authenticator interface {
	AuthURL(state string) (string, error)
	Exchange(ctx context.Context, code string) ([]byte, error)
	Email(ctx context.Context, tokenJSON []byte) (string, error)
}

// Provider is a full calendar platform.
type Provider interface {
	BusyQuerier
	EventCreator
	Authenticator
	Login(ctx context.Context, prompt func(authURL string)) ([]byte, error)
}

type Mux interface {
	Get(platform string) (Provider, error)
}
