// Package availability computes bookable whole-hour slots for a single
// calendar date from a recurring weekly availability window and the bookings
// already taken on that date.
package availability

import "time"

// Window is a recurring weekday availability interval expressed as
// minute-of-day offsets. StartMinute must be strictly less than EndMinute.
type Window struct {
	Weekday     time.Weekday
	StartMinute int
	EndMinute   int
}

// Times holds the slot sets computed for one date. PossibleTimes is every
// whole hour inside the window; AvailableTimes is the subset that is neither
// booked nor in the past. Both are ordered by ascending hour.
type Times struct {
	PossibleTimes  []int
	AvailableTimes []int
}

// Compute derives the hour slots for date given the owner's availability
// window and the bookings already recorded inside that window on that date.
//
// A nil window, a window for a different weekday, or a date whose end of day
// is before now all yield empty results. Window bounds are truncated to whole
// hours by integer division, so a 07:30 start produces a first slot of 07:00.
// Booked slots are matched by hour-of-day equality; callers supply bookings
// already scoped to the window on the target date.
func Compute(window *Window, booked []time.Time, date, now time.Time) Times {
	empty := Times{PossibleTimes: []int{}, AvailableTimes: []int{}}

	endOfDay := startOfDay(date).AddDate(0, 0, 1).Add(-time.Nanosecond)
	if endOfDay.Before(now) {
		return empty
	}

	if window == nil || window.Weekday != date.Weekday() {
		return empty
	}

	startHour := window.StartMinute / 60
	endHour := window.EndMinute / 60
	if endHour <= startHour {
		return empty
	}

	possible := make([]int, 0, endHour-startHour)
	for hour := startHour; hour < endHour; hour++ {
		possible = append(possible, hour)
	}

	available := make([]int, 0, len(possible))
	for _, hour := range possible {
		if hourTaken(booked, hour) {
			continue
		}
		slot := startOfDay(date).Add(time.Duration(hour) * time.Hour)
		if slot.Before(now) {
			continue
		}
		available = append(available, hour)
	}

	return Times{PossibleTimes: possible, AvailableTimes: available}
}

func startOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

func hourTaken(booked []time.Time, hour int) bool {
	for _, b := range booked {
		if b.Hour() == hour {
			return true
		}
	}
	return false
}
