package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIntervalService_SetWeeklyIntervals(t *testing.T) {
	t.Parallel()

	t.Run("parses HH:MM strings into minute offsets", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
		repo := &intervalRepositoryStub{}
		ids := []string{"int-1", "int-2"}
		svc := NewIntervalService(repo, func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		}, func() time.Time { return now })

		stored, err := svc.SetWeeklyIntervals(context.Background(), SetIntervalsParams{
			Principal: Principal{UserID: "user-1"},
			Intervals: []IntervalInput{
				{Weekday: 1, StartTime: "08:00", EndTime: "12:00"},
				{Weekday: 3, StartTime: "09:30", EndTime: "18:00"},
			},
		})
		if err != nil {
			t.Fatalf("SetWeeklyIntervals failed: %v", err)
		}

		if len(stored) != 2 {
			t.Fatalf("expected 2 intervals, got %d", len(stored))
		}
		if stored[0].StartMinute != 480 || stored[0].EndMinute != 720 || stored[0].Weekday != time.Monday {
			t.Fatalf("unexpected first interval: %#v", stored[0])
		}
		if stored[1].StartMinute != 570 || stored[1].EndMinute != 1080 {
			t.Fatalf("unexpected second interval: %#v", stored[1])
		}
		if len(repo.replaced) != 1 {
			t.Fatalf("expected one replace call, got %d", len(repo.replaced))
		}
	})

	t.Run("rejects malformed time strings with field errors", func(t *testing.T) {
		t.Parallel()

		svc := NewIntervalService(&intervalRepositoryStub{}, nil, nil)
		_, err := svc.SetWeeklyIntervals(context.Background(), SetIntervalsParams{
			Principal: Principal{UserID: "user-1"},
			Intervals: []IntervalInput{{Weekday: 1, StartTime: "8am", EndTime: "25:00"}},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["intervals[0].startTime"]; !ok {
			t.Fatalf("expected startTime field error, got %#v", vErr.FieldErrors)
		}
	})

	t.Run("rejects windows shorter than one hour", func(t *testing.T) {
		t.Parallel()

		svc := NewIntervalService(&intervalRepositoryStub{}, nil, nil)
		_, err := svc.SetWeeklyIntervals(context.Background(), SetIntervalsParams{
			Principal: Principal{UserID: "user-1"},
			Intervals: []IntervalInput{{Weekday: 1, StartTime: "08:00", EndTime: "08:30"}},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["intervals[0].endTime"]; !ok {
			t.Fatalf("expected endTime field error, got %#v", vErr.FieldErrors)
		}
	})

	t.Run("rejects duplicate and out of range weekdays", func(t *testing.T) {
		t.Parallel()

		svc := NewIntervalService(&intervalRepositoryStub{}, nil, nil)
		_, err := svc.SetWeeklyIntervals(context.Background(), SetIntervalsParams{
			Principal: Principal{UserID: "user-1"},
			Intervals: []IntervalInput{
				{Weekday: 2, StartTime: "08:00", EndTime: "12:00"},
				{Weekday: 2, StartTime: "13:00", EndTime: "17:00"},
				{Weekday: 7, StartTime: "08:00", EndTime: "12:00"},
			},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["intervals[1].weekDay"]; !ok {
			t.Fatalf("expected duplicate weekday error, got %#v", vErr.FieldErrors)
		}
		if _, ok := vErr.FieldErrors["intervals[2].weekDay"]; !ok {
			t.Fatalf("expected out of range weekday error, got %#v", vErr.FieldErrors)
		}
	})

	t.Run("requires at least one interval", func(t *testing.T) {
		t.Parallel()

		svc := NewIntervalService(&intervalRepositoryStub{}, nil, nil)
		_, err := svc.SetWeeklyIntervals(context.Background(), SetIntervalsParams{Principal: Principal{UserID: "user-1"}})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("rejects anonymous callers", func(t *testing.T) {
		t.Parallel()

		svc := NewIntervalService(&intervalRepositoryStub{}, nil, nil)
		_, err := svc.SetWeeklyIntervals(context.Background(), SetIntervalsParams{
			Intervals: []IntervalInput{{Weekday: 1, StartTime: "08:00", EndTime: "12:00"}},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("propagates repository failures", func(t *testing.T) {
		t.Parallel()

		expected := errors.New("boom")
		repo := &intervalRepositoryStub{replaceErr: expected}
		svc := NewIntervalService(repo, nil, nil)

		_, err := svc.SetWeeklyIntervals(context.Background(), SetIntervalsParams{
			Principal: Principal{UserID: "user-1"},
			Intervals: []IntervalInput{{Weekday: 1, StartTime: "08:00", EndTime: "12:00"}},
		})
		if !errors.Is(err, expected) {
			t.Fatalf("expected error %v, got %v", expected, err)
		}
	})
}
