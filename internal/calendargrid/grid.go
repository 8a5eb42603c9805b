// Package calendargrid assembles a month view as complete seven-cell week
// rows, marking days that cannot be selected for booking.
package calendargrid

import "time"

// BlockedDates describes the days of one month that are fully unavailable:
// recurring weekdays without an availability window and specific days of the
// month whose slots are exhausted.
type BlockedDates struct {
	Weekdays []time.Weekday
	Days     []int
}

// Cell is a single day in the grid. Cells from adjacent months are always
// disabled; in-month cells are disabled when the day is past or blocked.
type Cell struct {
	Date     time.Time
	Disabled bool
}

// Week is one chronological row of exactly seven cells.
type Week []Cell

// Build returns the week rows for the month containing monthAnchor. The grid
// starts on Sunday: the first row is padded with trailing days of the previous
// month and the last row with leading days of the next month, both disabled.
//
// An in-month day is disabled when its end of day is before now, its weekday
// is blocked, or its day of month is blocked. The result is deterministic for
// a given (month, blocked, now) triple.
func Build(monthAnchor time.Time, blocked BlockedDates, now time.Time) []Week {
	first := time.Date(monthAnchor.Year(), monthAnchor.Month(), 1, 0, 0, 0, 0, monthAnchor.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()

	blockedWeekdays := make(map[time.Weekday]struct{}, len(blocked.Weekdays))
	for _, day := range blocked.Weekdays {
		blockedWeekdays[day] = struct{}{}
	}
	blockedDays := make(map[int]struct{}, len(blocked.Days))
	for _, day := range blocked.Days {
		blockedDays[day] = struct{}{}
	}

	cells := make([]Cell, 0, daysInMonth+13)

	// Trailing days of the previous month up to the weekday of day one.
	for offset := int(first.Weekday()); offset > 0; offset-- {
		cells = append(cells, Cell{Date: first.AddDate(0, 0, -offset), Disabled: true})
	}

	for day := 1; day <= daysInMonth; day++ {
		date := first.AddDate(0, 0, day-1)
		disabled := date.AddDate(0, 0, 1).Add(-time.Nanosecond).Before(now)
		if _, ok := blockedWeekdays[date.Weekday()]; ok {
			disabled = true
		}
		if _, ok := blockedDays[day]; ok {
			disabled = true
		}
		cells = append(cells, Cell{Date: date, Disabled: disabled})
	}

	// Leading days of the next month to complete the final row.
	last := first.AddDate(0, 0, daysInMonth-1)
	for offset := 1; offset <= 7-(int(last.Weekday())+1); offset++ {
		cells = append(cells, Cell{Date: last.AddDate(0, 0, offset), Disabled: true})
	}

	weeks := make([]Week, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, Week(cells[i:i+7]))
	}
	return weeks
}
