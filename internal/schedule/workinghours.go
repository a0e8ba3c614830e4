package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) minuteOfDay() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Window is a bookable civil-time interval within a working day,
// e.g. 09:00-12:00.
type Window struct {
	Start Clock
	End   Clock
}

// WorkingHours is the slot-generation policy: the bookable windows of a
// working day, sorted and non-overlapping, plus the weekdays excluded
// altogether.
type WorkingHours struct {
	Windows      []Window
	ExcludedDays []time.Weekday
}

func (wh WorkingHours) Excluded(d time.Weekday) bool {
	for _, e := range wh.ExcludedDays {
		if e == d {
			return true
		}
	}
	return false
}

// DefaultWorkingHours is the product's standard policy: 09:00-12:00 and
// 14:00-17:00, Monday to Friday.
func DefaultWorkingHours() WorkingHours {
	return WorkingHours{
		Windows: []Window{
			{Start: Clock{Hour: 9}, End: Clock{Hour: 12}},
			{Start: Clock{Hour: 14}, End: Clock{Hour: 17}},
		},
		ExcludedDays: []time.Weekday{time.Saturday, time.Sunday},
	}
}

// ParseWindows parses a policy string such as "09:00-12:00,14:00-17:00".
// Windows must be well-formed, in order and non-overlapping.
func ParseWindows(spec string) ([]Window, error) {
	var windows []Window
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		startStr, endStr, ok := strings.Cut(part, "-")
		if !ok {
			return nil, fmt.Errorf("schedule: window %q must look like 09:00-12:00", part)
		}
		start, err := parseClock(startStr)
		if err != nil {
			return nil, err
		}
		end, err := parseClock(endStr)
		if err != nil {
			return nil, err
		}
		if end.minuteOfDay() <= start.minuteOfDay() {
			return nil, fmt.Errorf("schedule: window %q ends before it starts", part)
		}
		if n := len(windows); n > 0 && start.minuteOfDay() < windows[n-1].End.minuteOfDay() {
			return nil, fmt.Errorf("schedule: window %q overlaps the previous one", part)
		}
		windows = append(windows, Window{Start: start, End: end})
	}
	if len(windows) == 0 {
		return nil, fmt.Errorf("schedule: no working-hours windows in %q", spec)
	}
	return windows, nil
}

func parseClock(s string) (Clock, error) {
	var c Clock
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &c.Hour, &c.Minute); err != nil {
		return Clock{}, fmt.Errorf("schedule: invalid clock time %q", s)
	}
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 {
		return Clock{}, fmt.Errorf("schedule: clock time %q out of range", s)
	}
	return c, nil
}
