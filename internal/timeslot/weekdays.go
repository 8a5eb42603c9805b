package timeslot

import (
	"strings"
	"time"
)

// WeekdayNames returns the seven weekday labels indexed by weekday ordinal,
// 0 = Sunday through 6 = Saturday. When short is true the labels are
// three-letter uppercase abbreviations, otherwise capitalized full names.
//
// Labels derive from a fixed English reference so the output never depends on
// process-wide locale state.
func WeekdayNames(short bool) []string {
	names := make([]string, 7)
	for day := time.Sunday; day <= time.Saturday; day++ {
		name := day.String()
		if short {
			name = strings.ToUpper(name[:3])
		}
		names[day] = name
	}
	return names
}
