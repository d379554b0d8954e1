package models

import "github.com/julianstephens/tintrack/internal/constants"

type TargetPeriod string

const (
	TargetDaily   TargetPeriod = "daily"
	TargetWeekly  TargetPeriod = "weekly"
	TargetMonthly TargetPeriod = "monthly"
)

// Valid reports whether p is one of the known target periods.
func (p TargetPeriod) Valid() bool {
	switch p {
	case TargetDaily, TargetWeekly, TargetMonthly:
		return true
	}
	return false
}

// Habit is a frequency-based activity: the user aims for TargetValue
// occurrences per TargetPeriod.
type Habit struct {
	ID int64 `json:"id"`
	Activity
	IconName     string       `json:"icon_name"`
	ToBeEnforced bool         `json:"to_be_enforced"`
	TargetPeriod TargetPeriod `json:"target_period"`
	TargetValue  int          `json:"target_value"`
	UserID       int64        `json:"-"`
}

// DailyTarget spreads the habit's target over the 4-week cycle: a
// "month" is 28 days, a week 7, so the daily share divides accordingly.
func (h Habit) DailyTarget() float64 {
	switch h.TargetPeriod {
	case TargetWeekly:
		return float64(h.TargetValue) / float64(constants.DaysPerWeek)
	case TargetMonthly:
		return float64(h.TargetValue) / float64(constants.CycleDays)
	default:
		return float64(h.TargetValue)
	}
}

// HabitCounter tracks one habit on one day: occurrences recorded against
// the daily target derived from the habit's recurrence at
// creation/refresh time.
type HabitCounter struct {
	ID           int64   `json:"id"`
	DateForCount string  `json:"date_for_count"` // YYYY-MM-DD
	Count        int     `json:"count"`
	DailyTarget  float64 `json:"daily_target"`
	Signature    string  `json:"-"`
	HabitID      int64   `json:"habit_id"`
	Introspective
}
