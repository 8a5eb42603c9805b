package timeslot

import (
	"errors"
	"testing"
)

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  int
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "morning", input: "08:00", want: 480},
		{name: "half hour", input: "09:30", want: 570},
		{name: "last minute", input: "23:59", want: 1439},
		{name: "single digit hour", input: "7:15", want: 435},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseTimeOfDay(tc.input)
			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q) returned error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("ParseTimeOfDay(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseTimeOfDayRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"08",
		"08:00:00",
		"ab:cd",
		"08:xx",
		"24:00",
		"-1:30",
		"12:60",
		"12:-5",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			_, err := ParseTimeOfDay(input)
			if err == nil {
				t.Fatalf("ParseTimeOfDay(%q) succeeded, want error", input)
			}
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("ParseTimeOfDay(%q) returned %T, want *FormatError", input, err)
			}
		})
	}
}

func TestFormatMinutesRoundTrip(t *testing.T) {
	t.Parallel()

	for minutes := 0; minutes < 1440; minutes++ {
		parsed, err := ParseTimeOfDay(FormatMinutes(minutes))
		if err != nil {
			t.Fatalf("round trip failed for %d: %v", minutes, err)
		}
		if parsed != minutes {
			t.Fatalf("round trip for %d produced %d", minutes, parsed)
		}
	}
}

func TestWeekdayNames(t *testing.T) {
	t.Parallel()

	long := WeekdayNames(false)
	wantLong := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	if len(long) != 7 {
		t.Fatalf("expected 7 long names, got %d", len(long))
	}
	for i, want := range wantLong {
		if long[i] != want {
			t.Fatalf("long[%d] = %q, want %q", i, long[i], want)
		}
	}

	short := WeekdayNames(true)
	wantShort := []string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}
	for i, want := range wantShort {
		if short[i] != want {
			t.Fatalf("short[%d] = %q, want %q", i, short[i], want)
		}
	}
}
