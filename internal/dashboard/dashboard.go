// Package dashboard answers "what does date D look like for user U",
// orchestrating the planner, counter fix-up, and KPI engine.
package dashboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/tintrack/internal/constants"
	"github.com/julianstephens/tintrack/internal/kpi"
	"github.com/julianstephens/tintrack/internal/models"
	"github.com/julianstephens/tintrack/internal/planner"
	"github.com/julianstephens/tintrack/internal/storage"
)

// ErrLookaheadExceeded means the requested date is further ahead than the
// user's ranking permits.
var ErrLookaheadExceeded = errors.New("date exceeds ranking lookahead")

type TaskEntry struct {
	Task    models.Task          `json:"task"`
	Planned []models.PlannedTask `json:"planned_tasks"`
}

type HabitEntry struct {
	Habit   models.Habit        `json:"habit"`
	Counter models.HabitCounter `json:"counter"`
	Kpi     kpi.HabitKpiResult  `json:"kpi"`
}

type Dashboard struct {
	Date      string       `json:"date"`
	DaysAhead int          `json:"days_ahead"`
	Projected bool         `json:"projected"`
	Tasks     []TaskEntry  `json:"tasks"`
	Habits    []HabitEntry `json:"habits"`
}

type Assembler struct {
	store   storage.Provider
	planner *planner.Planner
	kpis    *kpi.Engine

	now func() time.Time
}

func NewAssembler(store storage.Provider, p *planner.Planner, e *kpi.Engine) *Assembler {
	return &Assembler{
		store:   store,
		planner: p,
		kpis:    e,
		now:     time.Now,
	}
}

// Assemble builds the user's view of the given date. The ranking gate is
// evaluated before anything is read or written. Past dates are read-only,
// today and tomorrow re-plan both days before reading the requested one,
// and further dates within the cap are projected without persisting.
func (a *Assembler) Assemble(user models.User, date time.Time, hoursOffset int) (Dashboard, error) {
	today := midnight(a.now().UTC().Add(time.Duration(hoursOffset) * time.Hour))
	date = midnight(date)
	daysAhead := int(date.Sub(today).Hours() / 24)

	if daysAhead > user.Ranking.LookaheadDays() {
		return Dashboard{}, fmt.Errorf("%w: %d days ahead for ranking %s", ErrLookaheadExceeded, daysAhead, user.Ranking)
	}

	tasks, err := a.store.GetTasksForUser(user.ID)
	if err != nil {
		return Dashboard{}, err
	}
	habits, err := a.store.GetHabitsForUser(user.ID)
	if err != nil {
		return Dashboard{}, err
	}

	board := Dashboard{
		Date:      date.Format(constants.DateFormat),
		DaysAhead: daysAhead,
		Projected: daysAhead > 1,
		Tasks:     []TaskEntry{},
		Habits:    []HabitEntry{},
	}

	switch {
	case daysAhead < 0:
		err = a.assemblePast(&board, tasks, habits, date)
	case daysAhead <= 1:
		err = a.assembleNear(&board, tasks, habits, today, date)
	default:
		err = a.assembleProjection(&board, tasks, habits, date)
	}
	if err != nil {
		return Dashboard{}, err
	}

	return board, nil
}

// assemblePast reads whatever was actually recorded; missing rows stay
// missing.
func (a *Assembler) assemblePast(board *Dashboard, tasks []models.Task, habits []models.Habit, date time.Time) error {
	day := date.Format(constants.DateFormat)

	for _, t := range tasks {
		rows, err := a.store.GetPlannedTasksForDay(t.ID, day)
		if err != nil {
			return err
		}
		board.Tasks = append(board.Tasks, TaskEntry{Task: t, Planned: rows})
	}

	for _, h := range habits {
		counter, err := a.store.GetHabitCounter(h.ID, day)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		result, err := a.kpis.HabitKpi(h, counter)
		if err != nil {
			return err
		}
		board.Habits = append(board.Habits, HabitEntry{Habit: h, Counter: counter, Kpi: result})
	}

	return nil
}

// assembleNear re-plans today and tomorrow so a midnight rollover never
// finds an empty schedule, then reads back the requested day.
func (a *Assembler) assembleNear(board *Dashboard, tasks []models.Task, habits []models.Habit, today, date time.Time) error {
	tomorrow := today.AddDate(0, 0, 1)
	day := date.Format(constants.DateFormat)

	for _, t := range tasks {
		for _, d := range []time.Time{today, tomorrow} {
			ok, err := a.planner.CheckPlanFor(t, d)
			if err != nil {
				return err
			}
			if !ok {
				if err := a.planner.PlanDay(t, d); err != nil {
					return err
				}
			}
		}

		rows, err := a.store.GetPlannedTasksForDay(t.ID, day)
		if err != nil {
			return err
		}
		board.Tasks = append(board.Tasks, TaskEntry{Task: t, Planned: rows})
	}

	for _, h := range habits {
		var wanted models.HabitCounter
		for _, d := range []time.Time{today, tomorrow} {
			counter, err := a.planner.FixCounterFor(h, d)
			if err != nil {
				return err
			}
			if counter.DateForCount == day {
				wanted = counter
			}
		}

		result, err := a.kpis.HabitKpi(h, wanted)
		if err != nil {
			return err
		}
		board.Habits = append(board.Habits, HabitEntry{Habit: h, Counter: wanted, Kpi: result})
	}

	return nil
}

// assembleProjection synthesizes rows in memory; nothing is persisted and
// returned ids are placeholders.
func (a *Assembler) assembleProjection(board *Dashboard, tasks []models.Task, habits []models.Habit, date time.Time) error {
	for _, t := range tasks {
		board.Tasks = append(board.Tasks, TaskEntry{Task: t, Planned: planner.ProjectDay(t, date)})
	}

	for _, h := range habits {
		counter := planner.ProjectCounter(h, date)
		result, err := a.kpis.HabitKpi(h, counter)
		if err != nil {
			return err
		}
		board.Habits = append(board.Habits, HabitEntry{Habit: h, Counter: counter, Kpi: result})
	}

	return nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
