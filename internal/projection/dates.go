package projection

import (
	"math"
	"time"
)

const day = 24 * time.Hour

func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// civilDate drops the clock part of t, keeping the calendar date as seen in t's
// own location. The result is at UTC midnight, so day arithmetic is not
// affected by DST transitions.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InclusiveDays counts calendar days in [start, end], both ends included.
// An interval where end precedes start is empty.
func InclusiveDays(start, end time.Time) int {
	start, end = civilDate(start), civilDate(end)
	if end.Before(start) {
		return 0
	}
	return int(math.Ceil(float64(end.Sub(start))/float64(day))) + 1
}

// SplitYear returns the elapsed and remaining day counts of the reference
// date's year for the given option.
func SplitYear(ref time.Time, opt StartDateOption) (elapsed, remaining int) {
	today := civilDate(ref)
	firstDay := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	lastDay := time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)

	var startDate, elapsedEnd time.Time
	switch opt {
	case StartTomorrow:
		startDate = today.AddDate(0, 0, 1)
		elapsedEnd = today
	default:
		startDate = today
		elapsedEnd = today.AddDate(0, 0, -1)
	}

	return InclusiveDays(firstDay, elapsedEnd), InclusiveDays(startDate, lastDay)
}
