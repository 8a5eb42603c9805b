package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/larissabakken/uncomplicated-scheduling/internal/availability"
	"github.com/larissabakken/uncomplicated-scheduling/internal/calendargrid"
	"github.com/larissabakken/uncomplicated-scheduling/internal/timeslot"
)

// BookingRepository captures the persistence operations for confirmed appointments.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) error
	ListBookingsInRange(ctx context.Context, userID string, from, to time.Time) ([]Booking, error)
	CountBookingsByDay(ctx context.Context, userID string, year int, month time.Month) (map[int]int, error)
}

// AvailabilityService derives what visitors can book on a user's public page.
type AvailabilityService struct {
	users     UserRepository
	intervals IntervalRepository
	bookings  BookingRepository
	now       func() time.Time
}

// NewAvailabilityService wires dependencies for the availability service.
func NewAvailabilityService(users UserRepository, intervals IntervalRepository, bookings BookingRepository, now func() time.Time) *AvailabilityService {
	if now == nil {
		now = time.Now
	}
	return &AvailabilityService{users: users, intervals: intervals, bookings: bookings, now: now}
}

// GetDayAvailability lists the possible and still bookable hour slots on one
// date of a user's page. A day without an availability window, or one already
// past, yields empty slot sets rather than an error.
func (s *AvailabilityService) GetDayAvailability(ctx context.Context, username string, date time.Time) (Availability, error) {
	if s == nil {
		return Availability{}, fmt.Errorf("AvailabilityService is nil")
	}
	if s.users == nil || s.intervals == nil || s.bookings == nil {
		return Availability{}, fmt.Errorf("availability repositories not configured")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return Availability{}, err
	}

	var window *availability.Window
	interval, err := s.intervals.GetIntervalForWeekday(ctx, user.ID, date.Weekday())
	switch {
	case err == nil:
		window = &availability.Window{
			Weekday:     interval.Weekday,
			StartMinute: interval.StartMinute,
			EndMinute:   interval.EndMinute,
		}
	case errors.Is(err, ErrNotFound):
		// No window for this weekday; slots stay empty.
	default:
		return Availability{}, err
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Second)
	bookings, err := s.bookings.ListBookingsInRange(ctx, user.ID, dayStart, dayEnd)
	if err != nil {
		return Availability{}, err
	}

	booked := make([]time.Time, 0, len(bookings))
	for _, booking := range bookings {
		booked = append(booked, booking.Date)
	}

	times := availability.Compute(window, booked, dayStart, s.now())
	return Availability{PossibleTimes: times.PossibleTimes, AvailableTimes: times.AvailableTimes}, nil
}

// GetBlockedDates reports which weekdays never have a window and which days of
// the month have every slot booked.
func (s *AvailabilityService) GetBlockedDates(ctx context.Context, username string, year int, month time.Month) (BlockedDates, error) {
	if s == nil {
		return BlockedDates{}, fmt.Errorf("AvailabilityService is nil")
	}
	if s.users == nil || s.intervals == nil || s.bookings == nil {
		return BlockedDates{}, fmt.Errorf("availability repositories not configured")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return BlockedDates{}, err
	}

	intervals, err := s.intervals.ListIntervals(ctx, user.ID)
	if err != nil {
		return BlockedDates{}, err
	}

	byWeekday := make(map[time.Weekday]TimeInterval, len(intervals))
	for _, interval := range intervals {
		byWeekday[interval.Weekday] = interval
	}

	blockedWeekdays := make([]int, 0, 7)
	for day := 0; day < 7; day++ {
		if _, ok := byWeekday[time.Weekday(day)]; !ok {
			blockedWeekdays = append(blockedWeekdays, day)
		}
	}

	counts, err := s.bookings.CountBookingsByDay(ctx, user.ID, year, month)
	if err != nil {
		return BlockedDates{}, err
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	blockedDays := make([]int, 0, len(counts))
	for day := 1; day <= daysInMonth; day++ {
		interval, ok := byWeekday[first.AddDate(0, 0, day-1).Weekday()]
		if !ok {
			continue
		}
		capacity := interval.EndMinute/60 - interval.StartMinute/60
		if capacity > 0 && counts[day] >= capacity {
			blockedDays = append(blockedDays, day)
		}
	}

	return BlockedDates{BlockedWeekDays: blockedWeekdays, BlockedDates: blockedDays}, nil
}

// GetMonthCalendar renders the month grid for a user's page: short weekday
// headers plus week rows with unbookable days disabled.
func (s *AvailabilityService) GetMonthCalendar(ctx context.Context, username string, year int, month time.Month) (MonthCalendar, error) {
	if s == nil {
		return MonthCalendar{}, fmt.Errorf("AvailabilityService is nil")
	}

	blocked, err := s.GetBlockedDates(ctx, username, year, month)
	if err != nil {
		return MonthCalendar{}, err
	}

	gridBlocked := calendargrid.BlockedDates{Days: blocked.BlockedDates}
	for _, day := range blocked.BlockedWeekDays {
		gridBlocked.Weekdays = append(gridBlocked.Weekdays, time.Weekday(day))
	}

	anchor := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	weeks := calendargrid.Build(anchor, gridBlocked, s.now())

	calendar := MonthCalendar{
		WeekdayHeaders: timeslot.WeekdayNames(true),
		Weeks:          make([][]CalendarDay, 0, len(weeks)),
	}
	for _, week := range weeks {
		row := make([]CalendarDay, 0, len(week))
		for _, cell := range week {
			row = append(row, CalendarDay{Date: cell.Date, Disabled: cell.Disabled})
		}
		calendar.Weeks = append(calendar.Weeks, row)
	}
	return calendar, nil
}
