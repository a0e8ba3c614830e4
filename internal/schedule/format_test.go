package schedule

import (
	"strings"
	"testing"
	"time"
)

func TestFormatRange(t *testing.T) {
	loc := montreal(t)
	start := time.Date(2025, time.May, 16, 9, 0, 0, 0, loc)
	end := start.Add(30 * time.Minute)

	got := FormatRange(start, end, loc)
	want := "vendredi 16 mai 2025 — 09:00 - 09:30"
	if got != want {
		t.Fatalf("FormatRange = %q, want %q", got, want)
	}
}

func TestFormatRange_SeparatorsSurviveSplitting(t *testing.T) {
	loc := montreal(t)
	start := time.Date(2025, time.December, 1, 14, 30, 0, 0, loc)
	got := FormatRange(start, start.Add(time.Hour), loc)

	// The booking form splits on " — " and then " - ".
	parts := strings.Split(got, " — ")
	if len(parts) != 2 {
		t.Fatalf("splitting %q on %q yields %d parts, want 2", got, " — ", len(parts))
	}
	if parts[0] != "lundi 1 décembre 2025" {
		t.Errorf("date part = %q", parts[0])
	}
	times := strings.Split(parts[1], " - ")
	if len(times) != 2 {
		t.Fatalf("splitting %q on %q yields %d parts, want 2", parts[1], " - ", len(times))
	}
	if times[0] != "14:30" || times[1] != "15:30" {
		t.Errorf("time parts = %q, %q", times[0], times[1])
	}
}

func TestFormatRange_UsesTargetZone(t *testing.T) {
	loc := montreal(t)
	// 13:00 UTC on 2025-05-12 is 09:00 in Montreal.
	start := time.Date(2025, time.May, 12, 13, 0, 0, 0, time.UTC)
	got := FormatRange(start, start.Add(30*time.Minute), loc)
	if want := "lundi 12 mai 2025 — 09:00 - 09:30"; got != want {
		t.Fatalf("FormatRange = %q, want %q", got, want)
	}
}
