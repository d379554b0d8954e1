package planner

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/tintrack/internal/constants"
	"github.com/julianstephens/tintrack/internal/models"
	"github.com/julianstephens/tintrack/internal/storage"
)

// FixCounterFor fetches the habit's counter for the date, creating it if
// missing and refreshing its daily target if the habit was edited since.
// The recorded count is never touched by a refresh. Only valid for
// current or future dates; callers read past counters directly.
func (p *Planner) FixCounterFor(habit models.Habit, date time.Time) (models.HabitCounter, error) {
	day := date.Format(constants.DateFormat)

	unlock := p.locks.lock(habitKey(habit.ID, day))
	defer unlock()

	counter, err := p.store.GetHabitCounter(habit.ID, day)
	if errors.Is(err, storage.ErrNotFound) {
		counter = models.HabitCounter{
			DateForCount: day,
			DailyTarget:  habit.DailyTarget(),
			Signature:    habit.Signature,
			HabitID:      habit.ID,
		}
		err = p.store.InsertHabitCounter(&counter)
		if errors.Is(err, storage.ErrConflict) {
			// lost the race to another request, use its row
			counter, err = p.store.GetHabitCounter(habit.ID, day)
		}
		if err != nil {
			return models.HabitCounter{}, fmt.Errorf("failed to create counter for habit %d: %w", habit.ID, err)
		}
		return counter, nil
	}
	if err != nil {
		return models.HabitCounter{}, err
	}

	if counter.Signature != habit.Signature {
		counter.DailyTarget = habit.DailyTarget()
		counter.Signature = habit.Signature
		if err := p.store.RefreshHabitCounter(counter); err != nil {
			return models.HabitCounter{}, fmt.Errorf("failed to refresh counter %d: %w", counter.ID, err)
		}
	}

	return counter, nil
}

// ProjectCounter builds the counter a FixCounterFor call would create,
// without persisting anything.
func ProjectCounter(habit models.Habit, date time.Time) models.HabitCounter {
	return models.HabitCounter{
		DateForCount: date.Format(constants.DateFormat),
		DailyTarget:  habit.DailyTarget(),
		Signature:    habit.Signature,
		HabitID:      habit.ID,
	}
}

// RecordOccurrence increments the counter and attaches the introspective
// note in one atomic update.
func (p *Planner) RecordOccurrence(counterID int64, intro models.Introspective) error {
	if err := p.store.RecordOccurrence(counterID, intro); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to record occurrence on counter %d: %w", counterID, err)
	}
	return nil
}
