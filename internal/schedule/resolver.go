package schedule

import (
	"time"

	"github.com/julianstephens/tintrack/internal/constants"
)

// Resolve maps a calendar date onto the recurring 4-week grid all tasks
// share. It returns the week number (1..4) and the day order within that
// week (1..7, Monday first).
//
// The grid is anchored at Jan 1 of the date's year, so two tasks always
// agree on what "week 2, Wednesday" means for a given date regardless of
// when either task was created. Weeks 5, 9, 13... of the year fold back
// onto week 1's pattern: that is the 4-week rotation, not an error.
func Resolve(date time.Time) (week int, day int) {
	yearStart := time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	startDayOrder := isoWeekday(yearStart)

	// Whole days elapsed since Jan 1
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	daysDone := int(d.Sub(yearStart) / (24 * time.Hour))

	weeksDone := daysDone / constants.DaysPerWeek
	currentWeek := weeksDone + 1
	currentDays := daysDone - weeksDone*constants.DaysPerWeek + startDayOrder

	// A year starting past midweek belongs to the tail of the previous
	// cycle: its first partial week counts as week 4, not week 1.
	if startDayOrder > 3 {
		currentWeek--
	}
	if currentDays > constants.DaysPerWeek {
		currentDays -= constants.DaysPerWeek
		currentWeek++
	}

	// Fold into the 4-week cycle
	for currentWeek > constants.CycleWeeks {
		currentWeek -= constants.CycleWeeks
	}
	if currentWeek < 1 {
		currentWeek += constants.CycleWeeks
	}

	return currentWeek, currentDays
}

// isoWeekday returns the ISO weekday order, Monday=1 through Sunday=7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return wd
}
