// Package kpi computes streak, average, and enforcement statistics over
// the planned-task and habit-counter history.
package kpi

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/tintrack/internal/constants"
	"github.com/julianstephens/tintrack/internal/models"
	"github.com/julianstephens/tintrack/internal/storage"
)

type HabitStatus string

const (
	StatusUnder  HabitStatus = "under"
	StatusAround HabitStatus = "around"
	StatusOver   HabitStatus = "over"
)

// TaskKpiResult is the per-task snapshot as of a reference instant.
type TaskKpiResult struct {
	Streak         int `json:"streak"`
	LongestStreak  int `json:"longest_streak"`
	AveragePercent int `json:"average_percent"`
}

// HabitKpiResult classifies a habit's recent activity against its target.
type HabitKpiResult struct {
	Status       HabitStatus `json:"status"`
	CurrentValue int         `json:"current_value"`
	LatelyValue  int         `json:"lately_value"`
	TargetValue  int         `json:"target_value"`
}

type Engine struct {
	store storage.Provider
}

func NewEngine(store storage.Provider) *Engine {
	return &Engine{store: store}
}

// TaskKpis computes the task's current streak and completion average as
// of the instant, bumping the persisted longest-streak high-water mark
// when the fresh streak exceeds it.
func (e *Engine) TaskKpis(task models.Task, instant time.Time) (TaskKpiResult, error) {
	rows, err := e.store.GetPlannedTasksUpTo(task.ID, instant)
	if err != nil {
		return TaskKpiResult{}, err
	}

	streak := 0
	done := 0
	for _, row := range rows {
		if row.Status == models.PlannedTaskDone {
			done++
		}
	}
	for _, row := range rows {
		// rows arrive most recent first; the streak ends at the
		// first occurrence that was not completed
		if row.Status != models.PlannedTaskDone {
			break
		}
		streak++
	}

	total, err := e.store.CountPlannedTasks(task.ID)
	if err != nil {
		return TaskKpiResult{}, err
	}

	average := 0
	if total > 0 {
		average = 100 * done / total
	}

	record, err := e.store.GetTaskKpi(task.ID)
	if err != nil {
		return TaskKpiResult{}, fmt.Errorf("failed to load kpi record for task %d: %w", task.ID, err)
	}
	if streak > record.LongestStreak {
		record.LongestStreak = streak
		if err := e.store.UpdateTaskKpi(record); err != nil {
			return TaskKpiResult{}, fmt.Errorf("failed to update kpi record for task %d: %w", task.ID, err)
		}
	}

	return TaskKpiResult{
		Streak:         streak,
		LongestStreak:  record.LongestStreak,
		AveragePercent: average,
	}, nil
}

// windowProfile maps a target period to the lengths of the two trailing
// observation windows and the multiplier that scales the daily target
// back up to a per-window one.
type windowProfile struct {
	currentDays int
	latelyDays  int
	multiplier  int
}

func profileFor(period models.TargetPeriod) windowProfile {
	switch period {
	case models.TargetWeekly:
		return windowProfile{currentDays: 15, latelyDays: 28, multiplier: 7}
	case models.TargetMonthly:
		return windowProfile{currentDays: 29, latelyDays: 56, multiplier: 28}
	default:
		return windowProfile{currentDays: 1, latelyDays: 14, multiplier: 1}
	}
}

// HabitKpi classifies the habit's activity over the trailing windows
// ending at the counter's date.
func (e *Engine) HabitKpi(habit models.Habit, counter models.HabitCounter) (HabitKpiResult, error) {
	day, err := time.Parse(constants.DateFormat, counter.DateForCount)
	if err != nil {
		return HabitKpiResult{}, fmt.Errorf("invalid counter date %q: %w", counter.DateForCount, err)
	}

	start := day.AddDate(0, 0, -(2*constants.CycleDays - 1)).Format(constants.DateFormat)
	counters, err := e.store.GetHabitCountersRange(habit.ID, start, counter.DateForCount)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return HabitKpiResult{}, err
	}

	profile := profileFor(habit.TargetPeriod)
	currentStart := day.AddDate(0, 0, -(profile.currentDays - 1)).Format(constants.DateFormat)
	latelyStart := day.AddDate(0, 0, -(profile.latelyDays - 1)).Format(constants.DateFormat)

	current, lately := 0, 0
	for _, c := range counters {
		if c.DateForCount >= currentStart {
			current += c.Count
		}
		if c.DateForCount >= latelyStart {
			lately += c.Count
		}
	}

	target := Round(counter.DailyTarget * float64(profile.multiplier))

	status := StatusOver
	switch {
	case float64(current) <= 0.8*float64(target):
		status = StatusUnder
	case current <= target:
		status = StatusAround
	}

	return HabitKpiResult{
		Status:       status,
		CurrentValue: current,
		LatelyValue:  lately,
		TargetValue:  target,
	}, nil
}

// Round rounds half away from zero for the non-negative targets used
// here.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}
