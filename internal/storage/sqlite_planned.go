package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/tintrack/internal/models"
)

const plannedTaskColumns = `id, planned_datetime, planned_date, is_any, duration_estimate,
	registered_duration, status, marked_done_at, signature, task_id,
	previous_activity, as_felt_before, next_activity, as_felt_afterwards`

func (s *SQLiteStore) ReplacePlannedTasks(taskID int64, date string, rows []models.PlannedTask) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM planned_tasks WHERE task_id = ? AND planned_date = ?`, taskID, date); err != nil {
		return err
	}

	for i := range rows {
		pt := &rows[i]
		result, err := tx.Exec(`
			INSERT INTO planned_tasks (planned_datetime, planned_date, is_any, duration_estimate,
				registered_duration, status, marked_done_at, signature, task_id,
				previous_activity, as_felt_before, next_activity, as_felt_afterwards)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			formatTime(pt.PlannedDatetime), pt.PlannedDate, pt.IsAny, pt.DurationEstimate,
			pt.RegisteredDuration, string(pt.Status), formatNullTime(pt.MarkedDoneAt),
			pt.Signature, pt.TaskID,
			pt.PreviousActivity, pt.AsFeltBefore, pt.NextActivity, pt.AsFeltAfterwards)
		if err != nil {
			return mapSQLiteErr(err)
		}
		if pt.ID, err = result.LastInsertId(); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetPlannedTasksForDay(taskID int64, date string) ([]models.PlannedTask, error) {
	rows, err := s.db.Query(`
		SELECT `+plannedTaskColumns+`
		FROM planned_tasks WHERE task_id = ? AND planned_date = ?
		ORDER BY planned_datetime`, taskID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlannedTasks(rows)
}

func (s *SQLiteStore) GetPlannedTasksUpTo(taskID int64, instant time.Time) ([]models.PlannedTask, error) {
	rows, err := s.db.Query(`
		SELECT `+plannedTaskColumns+`
		FROM planned_tasks WHERE task_id = ? AND planned_datetime <= ?
		ORDER BY planned_datetime DESC`, taskID, formatTime(instant))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlannedTasks(rows)
}

func (s *SQLiteStore) CountPlannedTasks(taskID int64) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT count(*) FROM planned_tasks WHERE task_id = ?`, taskID).Scan(&count)
	return count, err
}

func (s *SQLiteStore) GetPlannedTask(id, userID int64) (models.PlannedTask, error) {
	row := s.db.QueryRow(`
		SELECT pt.id, pt.planned_datetime, pt.planned_date, pt.is_any, pt.duration_estimate,
			pt.registered_duration, pt.status, pt.marked_done_at, pt.signature, pt.task_id,
			pt.previous_activity, pt.as_felt_before, pt.next_activity, pt.as_felt_afterwards
		FROM planned_tasks pt
		JOIN tasks t ON t.id = pt.task_id
		WHERE pt.id = ? AND t.user_id = ?`, id, userID)

	return scanPlannedTask(row)
}

func (s *SQLiteStore) UpdatePlannedTask(pt *models.PlannedTask) error {
	result, err := s.db.Exec(`
		UPDATE planned_tasks SET registered_duration = ?, status = ?, marked_done_at = ?,
			previous_activity = ?, as_felt_before = ?, next_activity = ?, as_felt_afterwards = ?
		WHERE id = ?`,
		pt.RegisteredDuration, string(pt.Status), formatNullTime(pt.MarkedDoneAt),
		pt.PreviousActivity, pt.AsFeltBefore, pt.NextActivity, pt.AsFeltAfterwards, pt.ID)
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

func scanPlannedTask(row rowScanner) (models.PlannedTask, error) {
	var pt models.PlannedTask
	var plannedAt, status string
	var markedDoneAt sql.NullString

	err := row.Scan(&pt.ID, &plannedAt, &pt.PlannedDate, &pt.IsAny, &pt.DurationEstimate,
		&pt.RegisteredDuration, &status, &markedDoneAt, &pt.Signature, &pt.TaskID,
		&pt.PreviousActivity, &pt.AsFeltBefore, &pt.NextActivity, &pt.AsFeltAfterwards)
	if err != nil {
		return models.PlannedTask{}, mapSQLiteErr(err)
	}

	pt.Status = models.PlannedTaskStatus(status)
	pt.PlannedDatetime, err = parseTime(plannedAt)
	if err != nil {
		return models.PlannedTask{}, fmt.Errorf("failed to parse planned_datetime: %w", err)
	}
	pt.MarkedDoneAt, err = parseNullTime(markedDoneAt)
	if err != nil {
		return models.PlannedTask{}, fmt.Errorf("failed to parse marked_done_at: %w", err)
	}

	return pt, nil
}

func scanPlannedTasks(rows *sql.Rows) ([]models.PlannedTask, error) {
	var tasks []models.PlannedTask
	for rows.Next() {
		pt, err := scanPlannedTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, pt)
	}
	return tasks, rows.Err()
}
