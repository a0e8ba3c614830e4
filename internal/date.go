package internal

import "time"

const DateFormat = "2006-01-02"

// ParseDay parses a date-only value into midnight of that civil day in loc.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ParseTimestamp accepts either an RFC 3339 instant or a bare date, the two
// shapes the booking form sends. Bare dates resolve to midnight in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return t, nil
	}
	return ParseDay(value, loc)
}
