package storage

import (
	"fmt"

	"github.com/julianstephens/tintrack/internal/models"
)

func (s *SQLiteStore) CreateHabit(h *models.Habit) error {
	result, err := s.db.Exec(`
		INSERT INTO habits (name, personal_message, signature, is_active, last_edited_at,
			icon_name, to_be_enforced, target_period, target_value, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.Name, h.PersonalMessage, h.Signature, h.IsActive, formatTime(h.LastEditedAt),
		h.IconName, h.ToBeEnforced, string(h.TargetPeriod), h.TargetValue, h.UserID)
	if err != nil {
		return mapSQLiteErr(err)
	}

	h.ID, err = result.LastInsertId()
	return err
}

func (s *SQLiteStore) GetHabit(id, userID int64) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, name, personal_message, signature, is_active, last_edited_at,
			icon_name, to_be_enforced, target_period, target_value, user_id
		FROM habits WHERE id = ? AND user_id = ?`, id, userID)
	return scanHabit(row)
}

func (s *SQLiteStore) GetHabitsForUser(userID int64) ([]models.Habit, error) {
	rows, err := s.db.Query(`
		SELECT id, name, personal_message, signature, is_active, last_edited_at,
			icon_name, to_be_enforced, target_period, target_value, user_id
		FROM habits WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}

	return habits, rows.Err()
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var lastEdited, period string

	err := row.Scan(&h.ID, &h.Name, &h.PersonalMessage, &h.Signature, &h.IsActive,
		&lastEdited, &h.IconName, &h.ToBeEnforced, &period, &h.TargetValue, &h.UserID)
	if err != nil {
		return models.Habit{}, mapSQLiteErr(err)
	}

	h.TargetPeriod = models.TargetPeriod(period)
	h.LastEditedAt, err = parseTime(lastEdited)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse last_edited_at: %w", err)
	}

	return h, nil
}

func (s *SQLiteStore) UpdateHabit(h *models.Habit) error {
	result, err := s.db.Exec(`
		UPDATE habits SET name = ?, personal_message = ?, signature = ?, is_active = ?,
			last_edited_at = ?, icon_name = ?, to_be_enforced = ?, target_period = ?, target_value = ?
		WHERE id = ? AND user_id = ?`,
		h.Name, h.PersonalMessage, h.Signature, h.IsActive, formatTime(h.LastEditedAt),
		h.IconName, h.ToBeEnforced, string(h.TargetPeriod), h.TargetValue, h.ID, h.UserID)
	if err != nil {
		return mapSQLiteErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *SQLiteStore) DeleteHabit(id, userID int64) error {
	result, err := s.db.Exec(`DELETE FROM habits WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// Habit counters

const habitCounterColumns = `id, date_for_count, count, daily_target, signature, habit_id,
	previous_activity, as_felt_before, next_activity, as_felt_afterwards`

func (s *SQLiteStore) InsertHabitCounter(c *models.HabitCounter) error {
	result, err := s.db.Exec(`
		INSERT INTO habit_counters (date_for_count, count, daily_target, signature, habit_id,
			previous_activity, as_felt_before, next_activity, as_felt_afterwards)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.DateForCount, c.Count, c.DailyTarget, c.Signature, c.HabitID,
		c.PreviousActivity, c.AsFeltBefore, c.NextActivity, c.AsFeltAfterwards)
	if err != nil {
		return mapSQLiteErr(err)
	}

	c.ID, err = result.LastInsertId()
	return err
}

func (s *SQLiteStore) GetHabitCounter(habitID int64, date string) (models.HabitCounter, error) {
	row := s.db.QueryRow(`
		SELECT `+habitCounterColumns+`
		FROM habit_counters WHERE habit_id = ? AND date_for_count = ?`, habitID, date)
	return scanHabitCounter(row)
}

func (s *SQLiteStore) GetHabitCounterByID(id, userID int64) (models.HabitCounter, error) {
	row := s.db.QueryRow(`
		SELECT hc.id, hc.date_for_count, hc.count, hc.daily_target, hc.signature, hc.habit_id,
			hc.previous_activity, hc.as_felt_before, hc.next_activity, hc.as_felt_afterwards
		FROM habit_counters hc
		JOIN habits h ON h.id = hc.habit_id
		WHERE hc.id = ? AND h.user_id = ?`, id, userID)
	return scanHabitCounter(row)
}

func (s *SQLiteStore) RefreshHabitCounter(c models.HabitCounter) error {
	result, err := s.db.Exec(`
		UPDATE habit_counters SET daily_target = ?, signature = ? WHERE id = ?`,
		c.DailyTarget, c.Signature, c.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *SQLiteStore) GetHabitCountersRange(habitID int64, startDay, endDay string) ([]models.HabitCounter, error) {
	rows, err := s.db.Query(`
		SELECT `+habitCounterColumns+`
		FROM habit_counters
		WHERE habit_id = ? AND date_for_count >= ? AND date_for_count <= ?
		ORDER BY date_for_count DESC`, habitID, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counters []models.HabitCounter
	for rows.Next() {
		c, err := scanHabitCounter(rows)
		if err != nil {
			return nil, err
		}
		counters = append(counters, c)
	}

	return counters, rows.Err()
}

func (s *SQLiteStore) RecordOccurrence(counterID int64, intro models.Introspective) error {
	result, err := s.db.Exec(`
		UPDATE habit_counters SET count = count + 1,
			previous_activity = ?, as_felt_before = ?, next_activity = ?, as_felt_afterwards = ?
		WHERE id = ?`,
		intro.PreviousActivity, intro.AsFeltBefore, intro.NextActivity, intro.AsFeltAfterwards,
		counterID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func scanHabitCounter(row rowScanner) (models.HabitCounter, error) {
	var c models.HabitCounter

	err := row.Scan(&c.ID, &c.DateForCount, &c.Count, &c.DailyTarget, &c.Signature, &c.HabitID,
		&c.PreviousActivity, &c.AsFeltBefore, &c.NextActivity, &c.AsFeltAfterwards)
	if err != nil {
		return models.HabitCounter{}, mapSQLiteErr(err)
	}

	return c, nil
}
