// Package schedule computes bookable time slots from busy periods. It is
// pure: no clock reads, no I/O, identical inputs always produce identical
// output.
package schedule

import (
	"fmt"
	"time"
)

// TimeInterval is a half-open span [Start, End) of absolute time.
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching endpoints do not overlap, so a slot may end exactly when a busy
// period begins.
func (i TimeInterval) Overlaps(o TimeInterval) bool {
	return i.Start.Before(o.End) && i.End.After(o.Start)
}

// Slot is a bookable candidate span.
type Slot struct {
	ID            string    `json:"id"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	FormattedTime string    `json:"formattedTime"`
}

// SlotID derives a stable id from the start instant, so re-fetching the same
// range lets the form re-select a previously chosen slot.
func SlotID(start time.Time) string {
	return fmt.Sprintf("slot-%d", start.UnixMilli())
}

// IsSlotAvailable reports whether the span [start, end) is free of every
// busy interval.
func IsSlotAvailable(start, end time.Time, busy []TimeInterval) bool {
	cand := TimeInterval{Start: start, End: end}
	for _, b := range busy {
		if cand.Overlaps(b) {
			return false
		}
	}
	return true
}

// Generate enumerates the bookable slots of [from, to): for every civil day
// of the range as observed in loc, skipping excluded weekdays, each working
// window is cut into durationMin-minute slots. Civil start and end times are
// converted to instants with the zone offset in force at that exact civil
// moment, so days that cross a DST transition come out right. A slot is kept
// when it lies inside [from, to] and overlaps no busy interval.
//
// busy may be empty, unsorted or overlapping. A range that is all weekend or
// fully booked yields an empty result, not an error.
func Generate(from, to time.Time, busy []TimeInterval, durationMin int, loc *time.Location, hours WorkingHours) ([]Slot, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("schedule: range end %s precedes start %s", to.Format(time.RFC3339), from.Format(time.RFC3339))
	}
	if durationMin <= 0 {
		return nil, fmt.Errorf("schedule: slot duration must be positive, got %d minutes", durationMin)
	}
	if loc == nil {
		loc = time.UTC
	}
	if len(hours.Windows) == 0 {
		hours = DefaultWorkingHours()
	}

	var slots []Slot

	first := from.In(loc)
	day := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc)
	for ; day.Before(to); day = nextDay(day, loc) {
		if hours.Excluded(day.Weekday()) {
			continue
		}
		year, month, dom := day.Date()
		for _, w := range hours.Windows {
			for min := w.Start.minuteOfDay(); min+durationMin <= w.End.minuteOfDay(); min += durationMin {
				// time.Date normalizes the minute count and resolves the
				// UTC offset at that civil moment.
				slotStart := time.Date(year, month, dom, 0, min, 0, 0, loc)
				slotEnd := time.Date(year, month, dom, 0, min+durationMin, 0, 0, loc)
				if slotStart.Before(from) || slotEnd.After(to) {
					continue
				}
				if !IsSlotAvailable(slotStart, slotEnd, busy) {
					continue
				}
				slots = append(slots, Slot{
					ID:            SlotID(slotStart),
					Start:         slotStart,
					End:           slotEnd,
					FormattedTime: FormatRange(slotStart, slotEnd, loc),
				})
			}
		}
	}
	return slots, nil
}

func nextDay(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, loc)
}
