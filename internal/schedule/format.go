package schedule

import (
	"fmt"
	"time"
)

// Slot labels are customer-facing and the booking form is French. The form
// splits FormattedTime on " — " and " - ", so both separators are part of
// the contract.
var (
	frenchDays = [...]string{
		"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi",
	}
	frenchMonths = [...]string{
		"janvier", "février", "mars", "avril", "mai", "juin",
		"juillet", "août", "septembre", "octobre", "novembre", "décembre",
	}
)

// FormatRange renders a slot label such as
// "vendredi 16 mai 2025 — 09:00 - 09:30" in the given timezone.
func FormatRange(start, end time.Time, loc *time.Location) string {
	s := start.In(loc)
	e := end.In(loc)
	date := fmt.Sprintf("%s %d %s %d", frenchDays[s.Weekday()], s.Day(), frenchMonths[s.Month()-1], s.Year())
	return fmt.Sprintf("%s — %s - %s", date, s.Format("15:04"), e.Format("15:04"))
}
