package calendargrid

import (
	"testing"
	"time"
)

func TestBuildPadsMonthStartingOnWednesday(t *testing.T) {
	t.Parallel()

	// April 2026 starts on a Wednesday and has 30 days.
	anchor := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	weeks := Build(anchor, BlockedDates{}, now)

	if len(weeks) != 5 {
		t.Fatalf("expected 5 week rows, got %d", len(weeks))
	}
	for i, week := range weeks {
		if len(week) != 7 {
			t.Fatalf("week %d has %d cells, want 7", i, len(week))
		}
	}

	for i := 0; i < 3; i++ {
		if !weeks[0][i].Disabled {
			t.Fatalf("leading cell %d from previous month should be disabled", i)
		}
		if weeks[0][i].Date.Month() != time.March {
			t.Fatalf("leading cell %d is %v, want March", i, weeks[0][i].Date)
		}
	}
	if weeks[0][3].Date.Day() != 1 || weeks[0][3].Date.Month() != time.April {
		t.Fatalf("first in-month cell = %v, want April 1", weeks[0][3].Date)
	}

	lastWeek := weeks[len(weeks)-1]
	for i := 5; i < 7; i++ {
		if !lastWeek[i].Disabled || lastWeek[i].Date.Month() != time.May {
			t.Fatalf("trailing cell %d = %+v, want disabled May date", i, lastWeek[i])
		}
	}
}

func TestBuildRowsAlwaysHaveSevenCells(t *testing.T) {
	t.Parallel()

	now := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	for month := time.January; month <= time.December; month++ {
		anchor := time.Date(2024, month, 15, 10, 30, 0, 0, time.UTC)
		weeks := Build(anchor, BlockedDates{}, now)

		total := 0
		for _, week := range weeks {
			if len(week) != 7 {
				t.Fatalf("%v: row with %d cells", month, len(week))
			}
			total += len(week)
		}
		if total%7 != 0 {
			t.Fatalf("%v: %d cells is not a multiple of 7", month, total)
		}

		for i := 1; i < len(weeks); i++ {
			prev := weeks[i-1][6].Date
			next := weeks[i][0].Date
			if !next.After(prev) {
				t.Fatalf("%v: rows out of chronological order", month)
			}
		}
	}
}

func TestBuildDisablesBlockedAndPastDays(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, time.March, 10, 15, 0, 0, 0, time.UTC)
	blocked := BlockedDates{
		Weekdays: []time.Weekday{time.Sunday},
		Days:     []int{20},
	}

	weeks := Build(anchor, blocked, now)

	for _, week := range weeks {
		for _, cell := range week {
			if cell.Date.Month() != time.March {
				continue
			}
			day := cell.Date.Day()
			switch {
			case day < 10:
				if !cell.Disabled {
					t.Fatalf("past day %d should be disabled", day)
				}
			case cell.Date.Weekday() == time.Sunday:
				if !cell.Disabled {
					t.Fatalf("blocked weekday %d should be disabled", day)
				}
			case day == 20:
				if !cell.Disabled {
					t.Fatalf("blocked date %d should be disabled", day)
				}
			case day >= 11:
				if cell.Disabled {
					t.Fatalf("day %d should be selectable", day)
				}
			}
		}
	}
}

func TestBuildKeepsCurrentDaySelectable(t *testing.T) {
	t.Parallel()

	// The end of the current day is not before now, so today stays enabled.
	anchor := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, time.March, 10, 23, 0, 0, 0, time.UTC)

	weeks := Build(anchor, BlockedDates{}, now)
	for _, week := range weeks {
		for _, cell := range week {
			if cell.Date.Month() == time.March && cell.Date.Day() == 10 && cell.Disabled {
				t.Fatal("current day should remain selectable until it ends")
			}
		}
	}
}
