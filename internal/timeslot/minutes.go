package timeslot

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatError reports a clock string that could not be parsed into a
// minute-of-day offset.
type FormatError struct {
	Input  string
	Reason string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("timeslot: invalid time %q: %s", e.Input, e.Reason)
}

// ParseTimeOfDay converts an "HH:MM" clock string to a minute-of-day offset in
// [0, 1440). Hours must be within 0-23 and minutes within 0-59; anything else
// fails with a *FormatError.
func ParseTimeOfDay(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, &FormatError{Input: value, Reason: "expected two fields separated by a colon"}
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, &FormatError{Input: value, Reason: "hours are not numeric"}
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, &FormatError{Input: value, Reason: "minutes are not numeric"}
	}

	if hours < 0 || hours > 23 {
		return 0, &FormatError{Input: value, Reason: "hours out of range"}
	}
	if minutes < 0 || minutes > 59 {
		return 0, &FormatError{Input: value, Reason: "minutes out of range"}
	}

	return hours*60 + minutes, nil
}

// FormatMinutes renders a minute-of-day offset back to "HH:MM". It is the
// inverse of ParseTimeOfDay for every value in [0, 1440).
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
