package storage

import (
	"time"

	"github.com/julianstephens/tintrack/internal/models"
)

// Provider is the persistence boundary for the core. Every mutating
// method commits atomically; multi-row operations (schedule trees,
// planned-task replacement) run inside a single transaction and roll
// back as a unit on failure.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Users
	CreateUser(u *models.User) error
	GetUser(id int64) (models.User, error)
	GetUserByEmail(email string) (models.User, error)

	// Issued tokens
	RecordToken(t *models.IssuedToken) error
	GetToken(jti string) (models.IssuedToken, error)
	RevokeToken(jti string, userID int64) error
	PruneTokens(now time.Time) (int, error)

	// Tasks (schedule tree and KPI row included)
	CreateTask(t *models.Task) error
	GetTask(id, userID int64) (models.Task, error)
	GetTasksForUser(userID int64) ([]models.Task, error)
	UpdateTask(t *models.Task) error
	DeleteTask(id, userID int64) error

	// Habits
	CreateHabit(h *models.Habit) error
	GetHabit(id, userID int64) (models.Habit, error)
	GetHabitsForUser(userID int64) ([]models.Habit, error)
	UpdateHabit(h *models.Habit) error
	DeleteHabit(id, userID int64) error

	// Planned tasks
	// ReplacePlannedTasks deletes all rows for (taskID, date) and inserts
	// the given rows in one transaction.
	ReplacePlannedTasks(taskID int64, date string, rows []models.PlannedTask) error
	GetPlannedTasksForDay(taskID int64, date string) ([]models.PlannedTask, error)
	// GetPlannedTasksUpTo returns all rows for the task with
	// planned_datetime <= instant, most recent first.
	GetPlannedTasksUpTo(taskID int64, instant time.Time) ([]models.PlannedTask, error)
	CountPlannedTasks(taskID int64) (int, error)
	GetPlannedTask(id, userID int64) (models.PlannedTask, error)
	UpdatePlannedTask(pt *models.PlannedTask) error

	// Task KPIs
	GetTaskKpi(taskID int64) (models.TaskKpi, error)
	UpdateTaskKpi(k models.TaskKpi) error

	// Habit counters
	InsertHabitCounter(c *models.HabitCounter) error
	GetHabitCounter(habitID int64, date string) (models.HabitCounter, error)
	GetHabitCounterByID(id, userID int64) (models.HabitCounter, error)
	// RefreshHabitCounter updates daily_target and signature in place,
	// preserving the recorded count.
	RefreshHabitCounter(c models.HabitCounter) error
	GetHabitCountersRange(habitID int64, startDay, endDay string) ([]models.HabitCounter, error)
	// RecordOccurrence increments the counter and stores the
	// introspective note atomically.
	RecordOccurrence(counterID int64, intro models.Introspective) error
}
