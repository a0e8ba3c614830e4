// Package httpapi exposes the availability and booking services to the
// lead-qualification form.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/omnigo/leadbooker/calendar/google"
	"github.com/omnigo/leadbooker/internal"
	"github.com/omnigo/leadbooker/internal/availability"
	"github.com/omnigo/leadbooker/internal/booking"
	"github.com/omnigo/leadbooker/internal/schedule"
)

// Store is the slice of the sqlite storage the handlers need.
type Store interface {
	SaveAccount(ctx context.Context, account *internal.Account) error
	CalendarByID(ctx context.Context, providerID string) (*internal.Calendar, error)
	CalendarsByDepartment(ctx context.Context, department string) ([]*internal.Calendar, error)
	RecordBooking(ctx context.Context, cal *internal.Calendar, conf *internal.BookingConfirmation, summary string) error
}

// Defaults are applied when the form omits optional fields.
type Defaults struct {
	TimeZone    string
	DurationMin int
	Summary     string
}

type Handler struct {
	availability *availability.Service
	booking      *booking.Service
	auth         internal.Authenticator
	store        Store
	defaults     Defaults
	logger       *zap.Logger
}

func NewHandler(av *availability.Service, bk *booking.Service, auth internal.Authenticator, store Store, defaults Defaults, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		availability: av,
		booking:      bk,
		auth:         auth,
		store:        store,
		defaults:     defaults,
		logger:       logger,
	}
}

type availabilityRequest struct {
	CalendarID string `json:"calendarId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	TimeZone   string `json:"timeZone"`
	Duration   int    `json:"duration"`
}

// Availability handles POST /api/availability.
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CalendarID == "" || req.StartDate == "" || req.EndDate == "" {
		writeError(w, http.StatusBadRequest, "calendarId, startDate and endDate are required")
		return
	}
	if req.TimeZone == "" {
		req.TimeZone = h.defaults.TimeZone
	}
	if req.Duration == 0 {
		req.Duration = h.defaults.DurationMin
	}

	loc, err := time.LoadLocation(req.TimeZone)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown timeZone")
		return
	}
	from, err := internal.ParseTimestamp(req.StartDate, loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return
	}
	to, err := internal.ParseTimestamp(req.EndDate, loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return
	}

	cal, err := h.resolveCalendar(r.Context(), req.CalendarID)
	if err != nil {
		h.logger.Error("resolving calendar", zap.String("calendar", req.CalendarID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not retrieve availability, try again")
		return
	}

	slots, err := h.availability.AvailableSlots(r.Context(), cal, from, to, req.Duration, req.TimeZone)
	if err != nil {
		if internal.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("availability query failed", zap.String("calendar", req.CalendarID), zap.Error(err))
		status := http.StatusBadGateway
		if google.IsNotFound(err) {
			status = http.StatusNotFound
		}
		// Never degrade a failed lookup into an empty slot list.
		writeError(w, status, "could not retrieve availability, try again")
		return
	}

	if slots == nil {
		slots = []schedule.Slot{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"availableSlots": slots})
}

type bookingRequest struct {
	CalendarID  string   `json:"calendarId"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Attendees   []string `json:"attendees"`
	TimeZone    string   `json:"timeZone"`
}

// CreateBooking handles POST /api/bookings.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CalendarID == "" || req.Start == "" || req.End == "" {
		writeError(w, http.StatusBadRequest, "calendarId, start and end are required")
		return
	}
	if req.TimeZone == "" {
		req.TimeZone = h.defaults.TimeZone
	}
	if req.Summary == "" {
		req.Summary = h.defaults.Summary
	}

	loc, err := time.LoadLocation(req.TimeZone)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown timeZone")
		return
	}
	start, err := internal.ParseTimestamp(req.Start, loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start")
		return
	}
	end, err := internal.ParseTimestamp(req.End, loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end")
		return
	}

	cal, err := h.resolveCalendar(r.Context(), req.CalendarID)
	if err != nil {
		h.logger.Error("resolving calendar", zap.String("calendar", req.CalendarID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not confirm booking")
		return
	}

	conf, err := h.booking.Create(r.Context(), &internal.BookingRequest{
		Calendar:    cal,
		StartsAt:    start,
		EndsAt:      end,
		Summary:     req.Summary,
		Description: req.Description,
		Attendees:   req.Attendees,
		TimeZone:    req.TimeZone,
	})
	if err != nil {
		if internal.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("booking failed", zap.String("calendar", req.CalendarID), zap.Error(err))
		writeError(w, http.StatusBadGateway, "could not confirm booking")
		return
	}

	// The remote event exists; a logging failure must not unconfirm it.
	if err := h.store.RecordBooking(r.Context(), cal, conf, req.Summary); err != nil {
		h.logger.Error("recording booking", zap.String("event_id", conf.EventID), zap.Error(err))
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"booking": conf,
	})
}

// AuthURL handles GET /api/auth/url.
func (h *Handler) AuthURL(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	authURL, err := h.auth.AuthURL(state)
	if err != nil {
		h.logger.Error("building auth url", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not build authorization url")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authUrl": authURL, "state": state})
}

type exchangeRequest struct {
	Code  string `json:"code"`
	Email string `json:"email"`
}

// ExchangeAuthCode handles POST /api/auth: it trades the authorization code
// for a token and stores it for the account.
func (h *Handler) ExchangeAuthCode(w http.ResponseWriter, r *http.Request) {
	var req exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	tokenJSON, err := h.auth.Exchange(r.Context(), req.Code)
	if err != nil {
		h.logger.Error("exchanging authorization code", zap.Error(err))
		writeError(w, http.StatusBadGateway, "could not exchange authorization code")
		return
	}

	email := req.Email
	if email == "" {
		email, err = h.auth.Email(r.Context(), tokenJSON)
		if err != nil {
			h.logger.Error("resolving account email", zap.Error(err))
			writeError(w, http.StatusBadGateway, "could not resolve account email")
			return
		}
	}

	err = h.store.SaveAccount(r.Context(), &internal.Account{
		Platform: "google",
		Email:    email,
		Auth:     string(tokenJSON),
	})
	if err != nil {
		h.logger.Error("saving account", zap.String("email", email), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not save account")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "email": email})
}

type calendarSummary struct {
	Owner      string `json:"owner"`
	CalendarID string `json:"calendarId"`
	Connected  bool   `json:"connected"`
}

// DepartmentCalendars handles GET /api/departments/{department}/calendars.
func (h *Handler) DepartmentCalendars(w http.ResponseWriter, r *http.Request) {
	department := chi.URLParam(r, "department")
	if department == "" {
		writeError(w, http.StatusBadRequest, "department is required")
		return
	}

	cals, err := h.store.CalendarsByDepartment(r.Context(), department)
	if err != nil {
		h.logger.Error("listing calendars", zap.String("department", department), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list calendars")
		return
	}

	summaries := make([]calendarSummary, len(cals))
	for i, c := range cals {
		summaries[i] = calendarSummary{
			Owner:      c.Owner,
			CalendarID: c.ProviderID,
			Connected:  c.Account.Auth != "",
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"department": department,
		"calendars":  summaries,
	})
}

// resolveCalendar maps a raw calendar id onto its registry entry, falling
// back to an unregistered calendar reached via the service account.
func (h *Handler) resolveCalendar(ctx context.Context, providerID string) (*internal.Calendar, error) {
	cal, err := h.store.CalendarByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if cal == nil {
		cal = &internal.Calendar{
			ProviderID: providerID,
			Account:    internal.Account{Platform: "google"},
		}
	}
	return cal, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
