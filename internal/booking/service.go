// Package booking validates booking requests and submits them to a calendar
// platform.
package booking

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/omnigo/leadbooker/internal"
)

// emailPattern accepts anything shaped like local@domain.tld. Stricter
// validation belongs to the calendar platform, which is the party actually
// sending the invitations.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Service struct {
	creator internal.EventCreator
	logger  *zap.Logger
}

func NewService(creator internal.EventCreator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{creator: creator, logger: logger}
}

// Create persists exactly one meeting on the request's calendar and asks the
// platform for an auto-generated conference link; a response without one is
// not an error. Attendee addresses that do not look like emails are dropped
// rather than rejected: the meeting still matters to whoever remains. There
// are no retries, so calling twice books twice.
func (s *Service) Create(ctx context.Context, req *internal.BookingRequest) (*internal.BookingConfirmation, error) {
	if req == nil || req.Calendar == nil || req.Calendar.ProviderID == "" {
		return nil, internal.Validationf("booking: calendar is required")
	}
	if !req.StartsAt.Before(req.EndsAt) {
		return nil, internal.Validationf("booking: start %s is not before end %s",
			req.StartsAt.Format(time.RFC3339), req.EndsAt.Format(time.RFC3339))
	}
	if req.TimeZone != "" {
		if _, err := time.LoadLocation(req.TimeZone); err != nil {
			return nil, internal.Validationf("booking: unknown timezone %q", req.TimeZone)
		}
	}

	attendees := ValidAttendees(req.Attendees)
	if dropped := len(req.Attendees) - len(attendees); dropped > 0 {
		s.logger.Warn("dropped invalid attendee addresses",
			zap.Int("dropped", dropped),
			zap.String("calendar", req.Calendar.String()))
	}

	created, err := s.creator.CreateEvent(ctx, req.Calendar, &internal.Event{
		Summary:      req.Summary,
		Description:  req.Description,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
		TimeZone:     req.TimeZone,
		Attendees:    attendees,
		WithMeetLink: true,
	})
	if err != nil {
		return nil, fmt.Errorf("booking: creating event on %s: %w", req.Calendar, err)
	}

	conf := &internal.BookingConfirmation{
		Success:   true,
		EventID:   created.ID,
		MeetLink:  created.MeetLink,
		StartsAt:  created.StartsAt,
		EndsAt:    created.EndsAt,
		Attendees: attendees,
	}
	if conf.StartsAt.IsZero() {
		conf.StartsAt = req.StartsAt
	}
	if conf.EndsAt.IsZero() {
		conf.EndsAt = req.EndsAt
	}

	s.logger.Info("booking confirmed",
		zap.String("calendar", req.Calendar.String()),
		zap.String("event_id", conf.EventID),
		zap.Time("starts_at", conf.StartsAt),
		zap.Int("attendees", len(attendees)))
	return conf, nil
}

// ValidAttendees filters addresses down to the syntactically valid subset,
// preserving order.
func ValidAttendees(in []string) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		if emailPattern.MatchString(a) {
			out = append(out, a)
		}
	}
	return out
}
