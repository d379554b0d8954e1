// Package planner materializes a task's recurring schedule into concrete
// planned rows and keeps per-day habit counters in shape. All planning is
// lazy: nothing here runs outside a read or edit path.
package planner

import (
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/tintrack/internal/constants"
	"github.com/julianstephens/tintrack/internal/models"
	"github.com/julianstephens/tintrack/internal/schedule"
	"github.com/julianstephens/tintrack/internal/storage"
)

type Planner struct {
	store storage.Provider
	locks keyedMutex
}

func New(store storage.Provider) *Planner {
	return &Planner{store: store}
}

// keyedMutex serializes mutating planner paths per (entity, date) key so
// two concurrent requests cannot interleave a delete+recreate.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func taskKey(taskID int64, date string) string {
	return fmt.Sprintf("task:%d:%s", taskID, date)
}

func habitKey(habitID int64, date string) string {
	return fmt.Sprintf("habit:%d:%s", habitID, date)
}

// TimesFor resolves the date onto the task's 4-week grid and returns the
// time-of-day slots scheduled for that day, possibly none.
func TimesFor(task models.Task, date time.Time) []models.Daytime {
	week, day := schedule.Resolve(date)

	for _, ws := range task.WeekSchedules {
		if ws.WeekNumber != week {
			continue
		}
		for _, wd := range ws.Weekdays {
			if wd.DayNumber == day {
				return wd.Daytimes
			}
		}
	}

	return nil
}

// CheckPlanFor reports whether the persisted planned rows for the date
// still mirror the task's schedule. A count mismatch or a stale signature
// on the first row means the day needs re-planning. An empty day with no
// rows is up to date.
func (p *Planner) CheckPlanFor(task models.Task, date time.Time) (bool, error) {
	slots := TimesFor(task, date)

	rows, err := p.store.GetPlannedTasksForDay(task.ID, date.Format(constants.DateFormat))
	if err != nil {
		return false, err
	}

	if len(rows) != len(slots) {
		return false, nil
	}
	if len(rows) == 0 {
		return true, nil
	}

	return rows[0].Signature == task.Signature, nil
}

// PlanDay replaces the planned rows for (task, date) with freshly built
// ones stamped with the task's current signature. The replacement is
// committed atomically.
func (p *Planner) PlanDay(task models.Task, date time.Time) error {
	day := date.Format(constants.DateFormat)

	unlock := p.locks.lock(taskKey(task.ID, day))
	defer unlock()

	rows := buildRows(task, date)
	if err := p.store.ReplacePlannedTasks(task.ID, day, rows); err != nil {
		return fmt.Errorf("failed to plan %s for task %d: %w", day, task.ID, err)
	}

	return nil
}

// ProjectDay builds the rows a PlanDay call would persist, entirely in
// memory. Returned rows carry placeholder ids.
func ProjectDay(task models.Task, date time.Time) []models.PlannedTask {
	return buildRows(task, date)
}

func buildRows(task models.Task, date time.Time) []models.PlannedTask {
	slots := TimesFor(task, date)
	day := date.Format(constants.DateFormat)
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	rows := make([]models.PlannedTask, 0, len(slots))
	for _, slot := range slots {
		// "any" slots anchor at midnight so they sort first
		rows = append(rows, models.PlannedTask{
			PlannedDatetime:  midnight.Add(time.Duration(slot.Seconds()) * time.Second),
			PlannedDate:      day,
			IsAny:            slot.IsAny(),
			DurationEstimate: task.DurationEstimate,
			Status:           models.PlannedTaskPending,
			Signature:        task.Signature,
			TaskID:           task.ID,
		})
	}

	return rows
}
