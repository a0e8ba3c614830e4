// Package google implements the calendar provider on top of the Google
// Calendar API: freebusy lookups, event creation with Meet links, and the
// OAuth2 connect flow.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/omnigo/leadbooker/internal"
)

type Client struct {
	oauthCfg *oauth2.Config // interactive consent flow
	jwtCfg   *jwt.Config    // service-account impersonation
	logger   *zap.Logger
}

// NewClient builds a client from OAuth2 client credentials and, optionally,
// service-account credentials. Calendars whose account carries a stored
// token use the OAuth flow; all others are reached by impersonating the
// calendar owner with the service account. At least one credential source is
// required.
func NewClient(oauthJSON, serviceAccountJSON []byte, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{logger: logger}

	if len(oauthJSON) > 0 {
		cfg, err := googleauth.ConfigFromJSON(oauthJSON, calendar.CalendarScope)
		if err != nil {
			return nil, fmt.Errorf("google: parsing oauth credentials: %w", err)
		}
		c.oauthCfg = cfg
	}
	if len(serviceAccountJSON) > 0 {
		cfg, err := googleauth.JWTConfigFromJSON(serviceAccountJSON, calendar.CalendarScope)
		if err != nil {
			return nil, fmt.Errorf("google: parsing service-account credentials: %w", err)
		}
		c.jwtCfg = cfg
	}
	if c.oauthCfg == nil && c.jwtCfg == nil {
		return nil, errors.New("google: no credentials configured")
	}
	return c, nil
}

// QueryBusy asks the freebusy endpoint for cal's committed periods over the
// closed range [from, to]. Entries are returned raw; normalization is the
// caller's concern.
func (c *Client) QueryBusy(ctx context.Context, cal *internal.Calendar, from, to time.Time, timeZone string) ([]internal.BusyPeriod, error) {
	svc, err := c.calendarSvc(ctx, cal)
	if err != nil {
		return nil, err
	}

	res, err := svc.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin:  from.Format(time.RFC3339),
		TimeMax:  to.Format(time.RFC3339),
		TimeZone: timeZone,
		Items:    []*calendar.FreeBusyRequestItem{{Id: cal.ProviderID}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("google: freebusy query for %s: %w", cal, err)
	}

	fb, ok := res.Calendars[cal.ProviderID]
	if !ok {
		return nil, nil
	}
	if len(fb.Errors) > 0 {
		return nil, fmt.Errorf("google: freebusy query for %s: %s", cal, fb.Errors[0].Reason)
	}

	periods := make([]internal.BusyPeriod, 0, len(fb.Busy))
	for _, b := range fb.Busy {
		periods = append(periods, internal.BusyPeriod{Start: b.Start, End: b.End})
	}
	c.logger.Debug("freebusy query",
		zap.String("calendar", cal.String()),
		zap.Int("busy_periods", len(periods)))
	return periods, nil
}

// CreateEvent inserts one event on cal, requesting a Meet link when asked
// and notifying every attendee. No retries: transient failures surface to
// the caller, who owns retry and deduplication policy.
func (c *Client) CreateEvent(ctx context.Context, cal *internal.Calendar, req *internal.Event) (*internal.CreatedEvent, error) {
	svc, err := c.calendarSvc(ctx, cal)
	if err != nil {
		return nil, err
	}

	call := svc.Events.Insert(cal.ProviderID, newGoogleEvent(req)).Context(ctx).SendUpdates("all")
	if req.WithMeetLink {
		call = call.ConferenceDataVersion(1)
	}
	gevent, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("google: inserting event %q on %s: %w", req.Summary, cal, err)
	}

	created := newCreatedEvent(gevent)
	c.logger.Debug("event created",
		zap.String("calendar", cal.String()),
		zap.String("event_id", created.ID),
		zap.Bool("meet_link", created.MeetLink != ""))
	return created, nil
}

func newGoogleEvent(req *internal.Event) *calendar.Event {
	ev := &calendar.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start: &calendar.EventDateTime{
			DateTime: req.StartsAt.Format(time.RFC3339),
			TimeZone: req.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: req.EndsAt.Format(time.RFC3339),
			TimeZone: req.TimeZone,
		},
		Reminders: &calendar.EventReminders{
			UseDefault:      true,
			ForceSendFields: []string{"UseDefault"},
		},
	}
	for _, email := range req.Attendees {
		ev.Attendees = append(ev.Attendees, &calendar.EventAttendee{Email: email})
	}
	if req.WithMeetLink {
		ev.ConferenceData = &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             uuid.NewString(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		}
	}
	return ev
}

func newCreatedEvent(ev *calendar.Event) *internal.CreatedEvent {
	created := &internal.CreatedEvent{
		ID:       ev.Id,
		MeetLink: meetLink(ev),
	}
	if ev.Start != nil {
		created.StartsAt, _ = time.Parse(time.RFC3339, ev.Start.DateTime)
	}
	if ev.End != nil {
		created.EndsAt, _ = time.Parse(time.RFC3339, ev.End.DateTime)
	}
	return created
}

func meetLink(ev *calendar.Event) string {
	if ev.HangoutLink != "" {
		return ev.HangoutLink
	}
	if ev.ConferenceData == nil {
		return ""
	}
	for _, ep := range ev.ConferenceData.EntryPoints {
		if ep.EntryPointType == "video" {
			return ep.Uri
		}
	}
	return ""
}

func (c *Client) calendarSvc(ctx context.Context, cal *internal.Calendar) (*calendar.Service, error) {
	if cal == nil || cal.ProviderID == "" {
		return nil, errors.New("google: calendar is required")
	}
	if cal.Account.Auth != "" {
		if c.oauthCfg == nil {
			return nil, fmt.Errorf("google: calendar %s has a stored token but no oauth credentials are configured", cal)
		}
		var tok oauth2.Token
		if err := json.Unmarshal([]byte(cal.Account.Auth), &tok); err != nil {
			return nil, fmt.Errorf("google: decoding stored token for %s: %w", cal, err)
		}
		return calendar.NewService(ctx, option.WithHTTPClient(c.oauthCfg.Client(ctx, &tok)))
	}
	if c.jwtCfg == nil {
		return nil, fmt.Errorf("google: calendar %s has no stored token and no service account is configured", cal)
	}
	cfg := *c.jwtCfg
	cfg.Subject = cal.ProviderID
	return calendar.NewService(ctx, option.WithTokenSource(cfg.TokenSource(ctx)))
}

// IsNotFound reports whether err is the API's way of saying the calendar or
// event does not exist.
func IsNotFound(err error) bool {
	var gErr *googleapi.Error
	return errors.As(err, &gErr) && gErr.Code == http.StatusNotFound
}
