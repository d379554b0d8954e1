package storage

import (
	"fmt"

	"github.com/julianstephens/tintrack/internal/models"
)

func (s *PostgresStore) CreateHabit(h *models.Habit) error {
	err := s.db.QueryRow(`
		INSERT INTO habits (name, personal_message, signature, is_active, last_edited_at,
			icon_name, to_be_enforced, target_period, target_value, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		h.Name, h.PersonalMessage, h.Signature, h.IsActive, formatTime(h.LastEditedAt),
		h.IconName, h.ToBeEnforced, string(h.TargetPeriod), h.TargetValue, h.UserID).Scan(&h.ID)
	return mapPostgresErr(err)
}

func (s *PostgresStore) GetHabit(id, userID int64) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, name, personal_message, signature, is_active, last_edited_at,
			icon_name, to_be_enforced, target_period, target_value, user_id
		FROM habits WHERE id = $1 AND user_id = $2`, id, userID)
	return scanPostgresHabit(row)
}

func (s *PostgresStore) GetHabitsForUser(userID int64) ([]models.Habit, error) {
	rows, err := s.db.Query(`
		SELECT id, name, personal_message, signature, is_active, last_edited_at,
			icon_name, to_be_enforced, target_period, target_value, user_id
		FROM habits WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanPostgresHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}

	return habits, rows.Err()
}

func scanPostgresHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var lastEdited, period string

	err := row.Scan(&h.ID, &h.Name, &h.PersonalMessage, &h.Signature, &h.IsActive,
		&lastEdited, &h.IconName, &h.ToBeEnforced, &period, &h.TargetValue, &h.UserID)
	if err != nil {
		return models.Habit{}, mapPostgresErr(err)
	}

	h.TargetPeriod = models.TargetPeriod(period)
	h.LastEditedAt, err = parseTime(lastEdited)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse last_edited_at: %w", err)
	}

	return h, nil
}

func (s *PostgresStore) UpdateHabit(h *models.Habit) error {
	result, err := s.db.Exec(`
		UPDATE habits SET name = $1, personal_message = $2, signature = $3, is_active = $4,
			last_edited_at = $5, icon_name = $6, to_be_enforced = $7, target_period = $8, target_value = $9
		WHERE id = $10 AND user_id = $11`,
		h.Name, h.PersonalMessage, h.Signature, h.IsActive, formatTime(h.LastEditedAt),
		h.IconName, h.ToBeEnforced, string(h.TargetPeriod), h.TargetValue, h.ID, h.UserID)
	if err != nil {
		return mapPostgresErr(err)
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

func (s *PostgresStore) DeleteHabit(id, userID int64) error {
	result, err := s.db.Exec(`DELETE FROM habits WHERE id = $1 AND user_id = $2`, id, userID)
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

func (s *PostgresStore) InsertHabitCounter(c *models.HabitCounter) error {
	err := s.db.QueryRow(`
		INSERT INTO habit_counters (date_for_count, count, daily_target, signature, habit_id,
			previous_activity, as_felt_before, next_activity, as_felt_afterwards)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		c.DateForCount, c.Count, c.DailyTarget, c.Signature, c.HabitID,
		c.PreviousActivity, c.AsFeltBefore, c.NextActivity, c.AsFeltAfterwards).Scan(&c.ID)
	return mapPostgresErr(err)
}

func (s *PostgresStore) GetHabitCounter(habitID int64, date string) (models.HabitCounter, error) {
	row := s.db.QueryRow(`
		SELECT `+habitCounterColumns+`
		FROM habit_counters WHERE habit_id = $1 AND date_for_count = $2`, habitID, date)
	return scanPostgresHabitCounter(row)
}

func (s *PostgresStore) GetHabitCounterByID(id, userID int64) (models.HabitCounter, error) {
	row := s.db.QueryRow(`
		SELECT hc.id, hc.date_for_count, hc.count, hc.daily_target, hc.signature, hc.habit_id,
			hc.previous_activity, hc.as_felt_before, hc.next_activity, hc.as_felt_afterwards
		FROM habit_counters hc
		JOIN habits h ON h.id = hc.habit_id
		WHERE hc.id = $1 AND h.user_id = $2`, id, userID)
	return scanPostgresHabitCounter(row)
}

func (s *PostgresStore) RefreshHabitCounter(c models.HabitCounter) error {
	result, err := s.db.Exec(`
		UPDATE habit_counters SET daily_target = $1, signature = $2 WHERE id = $3`,
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

func (s *PostgresStore) GetHabitCountersRange(habitID int64, startDay, endDay string) ([]models.HabitCounter, error) {
	rows, err := s.db.Query(`
		SELECT `+habitCounterColumns+`
		FROM habit_counters
		WHERE habit_id = $1 AND date_for_count >= $2 AND date_for_count <= $3
		ORDER BY date_for_count DESC`, habitID, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counters []models.HabitCounter
	for rows.Next() {
		c, err := scanPostgresHabitCounter(rows)
		if err != nil {
			return nil, err
		}
		counters = append(counters, c)
	}

	return counters, rows.Err()
}

func (s *PostgresStore) RecordOccurrence(counterID int64, intro models.Introspective) error {
	result, err := s.db.Exec(`
		UPDATE habit_counters SET count = count + 1,
			previous_activity = $1, as_felt_before = $2, next_activity = $3, as_felt_afterwards = $4
		WHERE id = $5`,
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

func scanPostgresHabitCounter(row rowScanner) (models.HabitCounter, error) {
	var c models.HabitCounter

	err := row.Scan(&c.ID, &c.DateForCount, &c.Count, &c.DailyTarget, &c.Signature, &c.HabitID,
		&c.PreviousActivity, &c.AsFeltBefore, &c.NextActivity, &c.AsFeltAfterwards)
	if err != nil {
		return models.HabitCounter{}, mapPostgresErr(err)
	}

	return c, nil
}
