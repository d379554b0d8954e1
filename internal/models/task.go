package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/julianstephens/tintrack/internal/constants"
)

type PlannedTaskStatus string

const (
	PlannedTaskPending PlannedTaskStatus = "pending"
	PlannedTaskDone    PlannedTaskStatus = "done"
)

// Task is a periodic activity that takes place at specific times on
// specific days of the recurring 4-week grid.
type Task struct {
	ID int64 `json:"id"`
	Activity
	DurationEstimate int            `json:"duration_estimate"` // seconds
	IconName         string         `json:"icon_name"`
	UserID           int64          `json:"-"`
	WeekSchedules    []WeekSchedule `json:"week_schedules,omitempty"`
}

// WeekSchedule holds one week of a task's 4-week recurring schedule.
type WeekSchedule struct {
	ID         int64     `json:"id"`
	WeekNumber int       `json:"week_number"` // 1..4
	TaskID     int64     `json:"-"`
	Weekdays   []Weekday `json:"weekdays,omitempty"`
}

// Weekday holds the time-of-day slots for one day of a week schedule.
type Weekday struct {
	ID             int64     `json:"id"`
	DayNumber      int       `json:"day_number"` // 1..7, Monday first
	WeekScheduleID int64     `json:"-"`
	Daytimes       []Daytime `json:"daytimes,omitempty"`
}

// Daytime is a single time-of-day slot: either seconds since midnight
// serialized as a decimal string, or the sentinel "any".
type Daytime struct {
	ID        int64  `json:"id"`
	TimeOfDay string `json:"time_of_day"`
	WeekdayID int64  `json:"-"`
}

// IsAny reports whether the slot is an "any time of day" marker.
func (d Daytime) IsAny() bool {
	return d.TimeOfDay == constants.AnyTimeOfDay
}

// Seconds returns the slot's offset from midnight. "any" slots anchor at
// 00:00 so they sort ahead of clocked slots.
func (d Daytime) Seconds() int {
	if d.IsAny() {
		return 0
	}
	secs, err := strconv.Atoi(d.TimeOfDay)
	if err != nil {
		return 0
	}
	return secs
}

// ParseTimeOfDay canonicalizes a schedule slot value. It accepts the
// sentinel "any", a number of seconds from midnight, or a wall-clock
// "HH:MM" value, and returns the stored string form.
func ParseTimeOfDay(timeOfDay string) (string, error) {
	if timeOfDay == constants.AnyTimeOfDay {
		return timeOfDay, nil
	}
	if secs, err := strconv.Atoi(timeOfDay); err == nil {
		if secs < 0 || secs >= constants.SecondsPerDay {
			return "", fmt.Errorf("time of day %d out of range", secs)
		}
		return strconv.Itoa(secs), nil
	}
	t, err := time.Parse(constants.TimeFormat, timeOfDay)
	if err != nil {
		return "", fmt.Errorf("invalid time of day %q: %w", timeOfDay, err)
	}
	return strconv.Itoa(t.Hour()*3600 + t.Minute()*60), nil
}

// PlannedTask is the materialized occurrence of a task on a concrete
// date and time.
type PlannedTask struct {
	ID                 int64             `json:"id"`
	PlannedDatetime    time.Time         `json:"planned_datetime"`
	PlannedDate        string            `json:"planned_date"` // YYYY-MM-DD
	IsAny              bool              `json:"is_any"`
	DurationEstimate   int               `json:"duration_estimate"`
	RegisteredDuration int               `json:"registered_duration"`
	Status             PlannedTaskStatus `json:"status"`
	MarkedDoneAt       *time.Time        `json:"marked_done_at,omitempty"`
	Signature          string            `json:"-"`
	TaskID             int64             `json:"task_id"`
	Introspective
}

// TaskKpi is the per-task record of historical bests. LongestStreak is a
// monotonic high-water mark; BestAverage is advisory.
type TaskKpi struct {
	ID            int64   `json:"id"`
	LongestStreak int     `json:"longest_streak"`
	BestAverage   float64 `json:"best_average"`
	TaskID        int64   `json:"-"`
}

// Introspective carries the free-form notes a user can attach when
// completing an occurrence.
type Introspective struct {
	PreviousActivity string `json:"previous_activity"`
	AsFeltBefore     string `json:"as_felt_before"`
	NextActivity     string `json:"next_activity"`
	AsFeltAfterwards string `json:"as_felt_afterwards"`
}
