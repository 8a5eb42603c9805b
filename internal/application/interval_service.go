package application

import (
	"context"
	"fmt"
	"time"

	"github.com/larissabakken/uncomplicated-scheduling/internal/timeslot"
)

// IntervalRepository captures the persistence operations for weekly availability windows.
type IntervalRepository interface {
	ReplaceIntervals(ctx context.Context, userID string, intervals []TimeInterval) error
	GetIntervalForWeekday(ctx context.Context, userID string, weekday time.Weekday) (TimeInterval, error)
	ListIntervals(ctx context.Context, userID string) ([]TimeInterval, error)
}

// IntervalService manages the owner's weekly availability windows.
type IntervalService struct {
	intervals   IntervalRepository
	idGenerator func() string
	now         func() time.Time
}

// NewIntervalService wires dependencies for the interval service.
func NewIntervalService(intervals IntervalRepository, idGenerator func() string, now func() time.Time) *IntervalService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &IntervalService{intervals: intervals, idGenerator: idGenerator, now: now}
}

// SetWeeklyIntervals replaces all of the caller's availability windows with the
// submitted set. Start and end times arrive as "HH:MM" strings and are stored
// as minute of day offsets.
func (s *IntervalService) SetWeeklyIntervals(ctx context.Context, params SetIntervalsParams) ([]TimeInterval, error) {
	if s == nil {
		return nil, fmt.Errorf("IntervalService is nil")
	}
	if params.Principal.UserID == "" {
		return nil, ErrUnauthorized
	}
	if s.intervals == nil {
		return nil, fmt.Errorf("interval repository not configured")
	}

	vErr := &ValidationError{}
	if len(params.Intervals) == 0 {
		vErr.add("intervals", "at least one interval is required")
		return nil, vErr
	}

	now := s.now()
	seen := make(map[int]bool, len(params.Intervals))
	intervals := make([]TimeInterval, 0, len(params.Intervals))

	for i, input := range params.Intervals {
		field := func(name string) string {
			return fmt.Sprintf("intervals[%d].%s", i, name)
		}

		if input.Weekday < 0 || input.Weekday > 6 {
			vErr.add(field("weekDay"), "weekday must be between 0 and 6")
			continue
		}
		if seen[input.Weekday] {
			vErr.add(field("weekDay"), "weekday listed more than once")
			continue
		}
		seen[input.Weekday] = true

		start, err := timeslot.ParseTimeOfDay(input.StartTime)
		if err != nil {
			vErr.add(field("startTime"), err.Error())
			continue
		}
		end, err := timeslot.ParseTimeOfDay(input.EndTime)
		if err != nil {
			vErr.add(field("endTime"), err.Error())
			continue
		}
		if end < start+60 {
			vErr.add(field("endTime"), "end must be at least one hour after start")
			continue
		}

		intervals = append(intervals, TimeInterval{
			ID:          s.idGenerator(),
			UserID:      params.Principal.UserID,
			Weekday:     time.Weekday(input.Weekday),
			StartMinute: start,
			EndMinute:   end,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if vErr.HasErrors() {
		return nil, vErr
	}

	if err := s.intervals.ReplaceIntervals(ctx, params.Principal.UserID, intervals); err != nil {
		return nil, err
	}

	return intervals, nil
}

// ListIntervals returns the caller's stored availability windows.
func (s *IntervalService) ListIntervals(ctx context.Context, principal Principal) ([]TimeInterval, error) {
	if s == nil {
		return nil, fmt.Errorf("IntervalService is nil")
	}
	if principal.UserID == "" {
		return nil, ErrUnauthorized
	}
	if s.intervals == nil {
		return nil, nil
	}
	return s.intervals.ListIntervals(ctx, principal.UserID)
}
