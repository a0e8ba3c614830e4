// Package availability bridges a calendar platform's busy lookup and the
// slot generator.
package availability

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/omnigo/leadbooker/internal"
	"github.com/omnigo/leadbooker/internal/schedule"
)

type Service struct {
	querier internal.BusyQuerier
	hours   schedule.WorkingHours
	logger  *zap.Logger
}

func NewService(querier internal.BusyQuerier, hours schedule.WorkingHours, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(hours.Windows) == 0 {
		hours = schedule.DefaultWorkingHours()
	}
	return &Service{querier: querier, hours: hours, logger: logger}
}

// AvailableSlots returns every bookable slot of [from, to) on cal's
// calendar, ordered by start time and fully materialized. The platform is
// queried exactly once. A busy-lookup failure is returned to the caller: an
// availability query that cannot verify busy time must not claim free time,
// so there is no retry and no fallback to "fully free".
func (s *Service) AvailableSlots(ctx context.Context, cal *internal.Calendar, from, to time.Time, durationMin int, timeZone string) ([]schedule.Slot, error) {
	if cal == nil || cal.ProviderID == "" {
		return nil, internal.Validationf("availability: calendar is required")
	}
	if to.Before(from) {
		return nil, internal.Validationf("availability: range end %s precedes start %s",
			to.Format(time.RFC3339), from.Format(time.RFC3339))
	}
	if durationMin <= 0 {
		return nil, internal.Validationf("availability: duration must be positive, got %d minutes", durationMin)
	}
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, internal.Validationf("availability: unknown timezone %q", timeZone)
	}

	periods, err := s.querier.QueryBusy(ctx, cal, from, to, timeZone)
	if err != nil {
		return nil, fmt.Errorf("availability: querying busy periods for %s: %w", cal, err)
	}

	busy := normalize(periods)
	if dropped := len(periods) - len(busy); dropped > 0 {
		s.logger.Warn("dropped malformed busy periods",
			zap.Int("dropped", dropped),
			zap.String("calendar", cal.String()))
	}

	slots, err := schedule.Generate(from, to, busy, durationMin, loc, s.hours)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("computed availability",
		zap.String("calendar", cal.String()),
		zap.Int("busy", len(busy)),
		zap.Int("slots", len(slots)))
	return slots, nil
}

// normalize converts raw platform busy periods into intervals, dropping
// entries with a missing or unparsable endpoint. A single bad entry must not
// fail the whole query.
func normalize(periods []internal.BusyPeriod) []schedule.TimeInterval {
	busy := make([]schedule.TimeInterval, 0, len(periods))
	for _, p := range periods {
		if p.Start == "" || p.End == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, p.Start)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, p.End)
		if err != nil {
			continue
		}
		busy = append(busy, schedule.TimeInterval{Start: start, End: end})
	}
	return busy
}
