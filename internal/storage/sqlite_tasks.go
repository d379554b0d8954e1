package storage

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/tintrack/internal/models"
)

func (s *SQLiteStore) CreateTask(t *models.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO tasks (name, personal_message, signature, is_active, last_edited_at, duration_estimate, icon_name, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Name, t.PersonalMessage, t.Signature, t.IsActive, formatTime(t.LastEditedAt),
		t.DurationEstimate, t.IconName, t.UserID)
	if err != nil {
		return mapSQLiteErr(err)
	}

	t.ID, err = result.LastInsertId()
	if err != nil {
		return err
	}

	if err := insertScheduleTree(tx, t); err != nil {
		return mapSQLiteErr(err)
	}

	if _, err := tx.Exec(`INSERT INTO task_kpis (longest_streak, best_average, task_id) VALUES (0, 0, ?)`, t.ID); err != nil {
		return mapSQLiteErr(err)
	}

	return tx.Commit()
}

// insertScheduleTree writes the 4x7 schedule under the task, stamping
// parent ids as it descends.
func insertScheduleTree(tx *sql.Tx, t *models.Task) error {
	for wi := range t.WeekSchedules {
		ws := &t.WeekSchedules[wi]
		ws.TaskID = t.ID

		result, err := tx.Exec(`INSERT INTO week_schedules (week_number, task_id) VALUES (?, ?)`,
			ws.WeekNumber, ws.TaskID)
		if err != nil {
			return err
		}
		if ws.ID, err = result.LastInsertId(); err != nil {
			return err
		}

		for di := range ws.Weekdays {
			wd := &ws.Weekdays[di]
			wd.WeekScheduleID = ws.ID

			result, err := tx.Exec(`INSERT INTO weekdays (day_number, week_schedule_id) VALUES (?, ?)`,
				wd.DayNumber, wd.WeekScheduleID)
			if err != nil {
				return err
			}
			if wd.ID, err = result.LastInsertId(); err != nil {
				return err
			}

			for ti := range wd.Daytimes {
				dt := &wd.Daytimes[ti]
				dt.WeekdayID = wd.ID

				result, err := tx.Exec(`INSERT INTO daytimes (time_of_day, weekday_id) VALUES (?, ?)`,
					dt.TimeOfDay, dt.WeekdayID)
				if err != nil {
					return err
				}
				if dt.ID, err = result.LastInsertId(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *SQLiteStore) GetTask(id, userID int64) (models.Task, error) {
	row := s.db.QueryRow(`
		SELECT id, name, personal_message, signature, is_active, last_edited_at, duration_estimate, icon_name, user_id
		FROM tasks WHERE id = ? AND user_id = ?`, id, userID)

	t, err := scanTask(row)
	if err != nil {
		return models.Task{}, err
	}

	t.WeekSchedules, err = s.loadScheduleTree(t.ID)
	if err != nil {
		return models.Task{}, err
	}

	return t, nil
}

func (s *SQLiteStore) GetTasksForUser(userID int64) ([]models.Task, error) {
	rows, err := s.db.Query(`
		SELECT id, name, personal_message, signature, is_active, last_edited_at, duration_estimate, icon_name, user_id
		FROM tasks WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tasks {
		tasks[i].WeekSchedules, err = s.loadScheduleTree(tasks[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return tasks, nil
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	var lastEdited string

	err := row.Scan(&t.ID, &t.Name, &t.PersonalMessage, &t.Signature, &t.IsActive,
		&lastEdited, &t.DurationEstimate, &t.IconName, &t.UserID)
	if err != nil {
		return models.Task{}, mapSQLiteErr(err)
	}

	t.LastEditedAt, err = parseTime(lastEdited)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to parse last_edited_at: %w", err)
	}

	return t, nil
}

func (s *SQLiteStore) loadScheduleTree(taskID int64) ([]models.WeekSchedule, error) {
	wsRows, err := s.db.Query(`
		SELECT id, week_number, task_id FROM week_schedules
		WHERE task_id = ? ORDER BY week_number`, taskID)
	if err != nil {
		return nil, err
	}
	defer wsRows.Close()

	var schedules []models.WeekSchedule
	for wsRows.Next() {
		var ws models.WeekSchedule
		if err := wsRows.Scan(&ws.ID, &ws.WeekNumber, &ws.TaskID); err != nil {
			return nil, err
		}
		schedules = append(schedules, ws)
	}
	if err := wsRows.Err(); err != nil {
		return nil, err
	}

	for i := range schedules {
		ws := &schedules[i]

		wdRows, err := s.db.Query(`
			SELECT id, day_number, week_schedule_id FROM weekdays
			WHERE week_schedule_id = ? ORDER BY day_number`, ws.ID)
		if err != nil {
			return nil, err
		}
		for wdRows.Next() {
			var wd models.Weekday
			if err := wdRows.Scan(&wd.ID, &wd.DayNumber, &wd.WeekScheduleID); err != nil {
				wdRows.Close()
				return nil, err
			}
			ws.Weekdays = append(ws.Weekdays, wd)
		}
		if err := wdRows.Err(); err != nil {
			wdRows.Close()
			return nil, err
		}
		wdRows.Close()

		for j := range ws.Weekdays {
			wd := &ws.Weekdays[j]

			dtRows, err := s.db.Query(`
				SELECT id, time_of_day, weekday_id FROM daytimes
				WHERE weekday_id = ? ORDER BY id`, wd.ID)
			if err != nil {
				return nil, err
			}
			for dtRows.Next() {
				var dt models.Daytime
				if err := dtRows.Scan(&dt.ID, &dt.TimeOfDay, &dt.WeekdayID); err != nil {
					dtRows.Close()
					return nil, err
				}
				wd.Daytimes = append(wd.Daytimes, dt)
			}
			if err := dtRows.Err(); err != nil {
				dtRows.Close()
				return nil, err
			}
			dtRows.Close()
		}
	}

	return schedules, nil
}

func (s *SQLiteStore) UpdateTask(t *models.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE tasks SET name = ?, personal_message = ?, signature = ?, is_active = ?,
			last_edited_at = ?, duration_estimate = ?, icon_name = ?
		WHERE id = ? AND user_id = ?`,
		t.Name, t.PersonalMessage, t.Signature, t.IsActive, formatTime(t.LastEditedAt),
		t.DurationEstimate, t.IconName, t.ID, t.UserID)
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

	// Rewrite the schedule tree; the cascade wipes weekdays and daytimes
	if _, err := tx.Exec(`DELETE FROM week_schedules WHERE task_id = ?`, t.ID); err != nil {
		return err
	}
	if err := insertScheduleTree(tx, t); err != nil {
		return mapSQLiteErr(err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) DeleteTask(id, userID int64) error {
	result, err := s.db.Exec(`DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
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

func (s *SQLiteStore) GetTaskKpi(taskID int64) (models.TaskKpi, error) {
	row := s.db.QueryRow(`
		SELECT id, longest_streak, best_average, task_id FROM task_kpis WHERE task_id = ?`, taskID)

	var k models.TaskKpi
	if err := row.Scan(&k.ID, &k.LongestStreak, &k.BestAverage, &k.TaskID); err != nil {
		return models.TaskKpi{}, mapSQLiteErr(err)
	}

	return k, nil
}

func (s *SQLiteStore) UpdateTaskKpi(k models.TaskKpi) error {
	result, err := s.db.Exec(`
		UPDATE task_kpis SET longest_streak = ?, best_average = ? WHERE task_id = ?`,
		k.LongestStreak, k.BestAverage, k.TaskID)
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
