package internal

import "time"

// BookingRequest is consumed once per booking; it is not retained.
type BookingRequest struct {
	Calendar    *Calendar
	StartsAt    time.Time
	EndsAt      time.Time
	Summary     string
	Description string
	Attendees   []string
	TimeZone    string
}

// BookingConfirmation reports a persisted meeting. Attendees is the validated
// subset that was actually invited.
type BookingConfirmation struct {
	Success   bool      `json:"success"`
	EventID   string    `json:"eventId"`
	MeetLink  string    `json:"meetLink,omitempty"`
	StartsAt  time.Time `json:"start"`
	EndsAt    time.Time `json:"end"`
	Attendees []string  `json:"attendees"`
}
