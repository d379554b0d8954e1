package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/tintrack/internal/models"
)

func setupTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := NewSQLiteStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func testUser(t *testing.T, store *SQLiteStore, email string) models.User {
	t.Helper()

	user := models.User{
		Name:         "Test User",
		Email:        email,
		DateOfBirth:  time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		PasswordHash: "hash",
		UserSalt:     "salt",
		Ranking:      models.RankingStarter,
		MemberSince:  time.Now().UTC(),
	}
	if err := store.CreateUser(&user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func testTask(t *testing.T, store *SQLiteStore, userID int64, name string) models.Task {
	t.Helper()

	task := models.Task{
		Activity: models.Activity{
			Name:     name,
			IsActive: true,
		},
		DurationEstimate: 600,
		IconName:         "test",
		UserID:           userID,
		WeekSchedules: []models.WeekSchedule{
			{
				WeekNumber: 1,
				Weekdays: []models.Weekday{
					{DayNumber: 1, Daytimes: []models.Daytime{{TimeOfDay: "30600"}, {TimeOfDay: "any"}}},
					{DayNumber: 2},
				},
			},
		},
	}
	task.Touch(time.Now())

	if err := store.CreateTask(&task); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return task
}

func TestUserCRUD(t *testing.T) {
	store := setupTestSQLiteStore(t)

	user := testUser(t, store, "a@example.com")
	if user.ID == 0 {
		t.Fatal("expected an assigned id")
	}

	got, err := store.GetUser(user.ID)
	if err != nil {
		t.Fatalf("failed to get user: %v", err)
	}
	if got.Email != user.Email || got.Ranking != models.RankingStarter {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.DateOfBirth.Equal(user.DateOfBirth) {
		t.Errorf("expected birth date %v, got %v", user.DateOfBirth, got.DateOfBirth)
	}

	byEmail, err := store.GetUserByEmail("a@example.com")
	if err != nil {
		t.Fatalf("failed to get user by email: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("expected id %d, got %d", user.ID, byEmail.ID)
	}

	if _, err := store.GetUser(9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	dup := user
	dup.ID = 0
	if err := store.CreateUser(&dup); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate email, got %v", err)
	}
}

func TestTaskCRUD(t *testing.T) {
	store := setupTestSQLiteStore(t)
	user := testUser(t, store, "tasks@example.com")

	task := testTask(t, store, user.ID, "Stretch")

	got, err := store.GetTask(task.ID, user.ID)
	if err != nil {
		t.Fatalf("failed to get task: %v", err)
	}
	if got.Name != "Stretch" || got.Signature != task.Signature {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.WeekSchedules) != 1 || len(got.WeekSchedules[0].Weekdays) != 2 {
		t.Fatalf("schedule tree not loaded: %+v", got.WeekSchedules)
	}
	if len(got.WeekSchedules[0].Weekdays[0].Daytimes) != 2 {
		t.Errorf("expected 2 daytimes, got %d", len(got.WeekSchedules[0].Weekdays[0].Daytimes))
	}

	// creating a task seeds its kpi row
	kpiRow, err := store.GetTaskKpi(task.ID)
	if err != nil {
		t.Fatalf("expected kpi row after create: %v", err)
	}
	if kpiRow.LongestStreak != 0 {
		t.Errorf("expected fresh kpi row, got %+v", kpiRow)
	}

	// unique (user, name)
	dup := testTaskValue(task)
	if err := store.CreateTask(&dup); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate name, got %v", err)
	}

	// wrong owner is not-found
	if _, err := store.GetTask(task.ID, user.ID+1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign owner, got %v", err)
	}

	// update rewrites the schedule tree
	task.Name = "Long stretch"
	task.WeekSchedules = []models.WeekSchedule{
		{WeekNumber: 2, Weekdays: []models.Weekday{{DayNumber: 5, Daytimes: []models.Daytime{{TimeOfDay: "0"}}}}},
	}
	task.Touch(time.Now())
	if err := store.UpdateTask(&task); err != nil {
		t.Fatalf("failed to update task: %v", err)
	}

	updated, err := store.GetTask(task.ID, user.ID)
	if err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}
	if updated.Name != "Long stretch" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}
	if len(updated.WeekSchedules) != 1 || updated.WeekSchedules[0].WeekNumber != 2 {
		t.Errorf("expected rewritten tree, got %+v", updated.WeekSchedules)
	}

	if err := store.DeleteTask(task.ID, user.ID); err != nil {
		t.Fatalf("failed to delete task: %v", err)
	}
	if _, err := store.GetTask(task.ID, user.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func testTaskValue(task models.Task) models.Task {
	dup := task
	dup.ID = 0
	dup.WeekSchedules = nil
	return dup
}

func TestReplacePlannedTasks(t *testing.T) {
	store := setupTestSQLiteStore(t)
	user := testUser(t, store, "planned@example.com")
	task := testTask(t, store, user.ID, "Plan me")

	day := "2026-03-02"
	rows := []models.PlannedTask{
		{
			PlannedDatetime:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			PlannedDate:      day,
			IsAny:            true,
			DurationEstimate: 600,
			Status:           models.PlannedTaskPending,
			Signature:        task.Signature,
			TaskID:           task.ID,
		},
		{
			PlannedDatetime:  time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC),
			PlannedDate:      day,
			DurationEstimate: 600,
			Status:           models.PlannedTaskPending,
			Signature:        task.Signature,
			TaskID:           task.ID,
		},
	}

	if err := store.ReplacePlannedTasks(task.ID, day, rows); err != nil {
		t.Fatalf("failed to replace planned tasks: %v", err)
	}

	got, err := store.GetPlannedTasksForDay(task.ID, day)
	if err != nil {
		t.Fatalf("failed to read planned tasks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if !got[0].IsAny {
		t.Error("expected the any slot ordered first")
	}

	// replacing again swaps the rows wholesale
	if err := store.ReplacePlannedTasks(task.ID, day, rows[:1]); err != nil {
		t.Fatalf("failed to re-replace planned tasks: %v", err)
	}
	got, err = store.GetPlannedTasksForDay(task.ID, day)
	if err != nil {
		t.Fatalf("failed to re-read planned tasks: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row after replace, got %d", len(got))
	}

	count, err := store.CountPlannedTasks(task.ID)
	if err != nil {
		t.Fatalf("failed to count planned tasks: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	// deleting the task cascades to its planned rows
	if err := store.DeleteTask(task.ID, user.ID); err != nil {
		t.Fatalf("failed to delete task: %v", err)
	}
	count, err = store.CountPlannedTasks(task.ID)
	if err != nil {
		t.Fatalf("failed to count after cascade: %v", err)
	}
	if count != 0 {
		t.Errorf("expected cascade to clear planned rows, got %d", count)
	}
}

func TestUpdatePlannedTask(t *testing.T) {
	store := setupTestSQLiteStore(t)
	user := testUser(t, store, "patch@example.com")
	task := testTask(t, store, user.ID, "Patch me")

	day := "2026-03-03"
	rows := []models.PlannedTask{{
		PlannedDatetime: time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
		PlannedDate:     day,
		Status:          models.PlannedTaskPending,
		Signature:       task.Signature,
		TaskID:          task.ID,
	}}
	if err := store.ReplacePlannedTasks(task.ID, day, rows); err != nil {
		t.Fatalf("failed to seed planned task: %v", err)
	}

	seeded, err := store.GetPlannedTasksForDay(task.ID, day)
	if err != nil || len(seeded) != 1 {
		t.Fatalf("failed to read seeded row: %v", err)
	}

	row := seeded[0]
	doneAt := time.Date(2026, 3, 3, 9, 20, 0, 0, time.UTC)
	row.Status = models.PlannedTaskDone
	row.MarkedDoneAt = &doneAt
	row.RegisteredDuration = 1200
	row.PreviousActivity = "breakfast"

	if err := store.UpdatePlannedTask(&row); err != nil {
		t.Fatalf("failed to update planned task: %v", err)
	}

	got, err := store.GetPlannedTask(row.ID, user.ID)
	if err != nil {
		t.Fatalf("failed to get planned task: %v", err)
	}
	if got.Status != models.PlannedTaskDone || got.RegisteredDuration != 1200 {
		t.Errorf("update not persisted: %+v", got)
	}
	if got.MarkedDoneAt == nil || !got.MarkedDoneAt.Equal(doneAt) {
		t.Errorf("expected marked done at %v, got %v", doneAt, got.MarkedDoneAt)
	}
	if got.PreviousActivity != "breakfast" {
		t.Errorf("expected introspective note, got %q", got.PreviousActivity)
	}

	if _, err := store.GetPlannedTask(row.ID, user.ID+1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign owner, got %v", err)
	}
}

func TestHabitCounters(t *testing.T) {
	store := setupTestSQLiteStore(t)
	user := testUser(t, store, "habits@example.com")

	habit := models.Habit{
		Activity:     models.Activity{Name: "Hydrate", IsActive: true},
		IconName:     "water",
		TargetPeriod: models.TargetWeekly,
		TargetValue:  7,
		UserID:       user.ID,
	}
	habit.Touch(time.Now())
	if err := store.CreateHabit(&habit); err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	counter := models.HabitCounter{
		DateForCount: "2026-03-02",
		DailyTarget:  1.0,
		Signature:    habit.Signature,
		HabitID:      habit.ID,
	}
	if err := store.InsertHabitCounter(&counter); err != nil {
		t.Fatalf("failed to insert counter: %v", err)
	}

	// one counter per (habit, date)
	dup := counter
	dup.ID = 0
	if err := store.InsertHabitCounter(&dup); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate counter, got %v", err)
	}

	if err := store.RecordOccurrence(counter.ID, models.Introspective{AsFeltBefore: "thirsty"}); err != nil {
		t.Fatalf("failed to record occurrence: %v", err)
	}
	if err := store.RecordOccurrence(counter.ID, models.Introspective{}); err != nil {
		t.Fatalf("failed to record second occurrence: %v", err)
	}

	got, err := store.GetHabitCounter(habit.ID, "2026-03-02")
	if err != nil {
		t.Fatalf("failed to get counter: %v", err)
	}
	if got.Count != 2 {
		t.Errorf("expected count 2, got %d", got.Count)
	}

	// refresh changes the target but never the count
	got.DailyTarget = 2.0
	got.Signature = uuid.NewString()
	if err := store.RefreshHabitCounter(got); err != nil {
		t.Fatalf("failed to refresh counter: %v", err)
	}
	refreshed, err := store.GetHabitCounterByID(counter.ID, user.ID)
	if err != nil {
		t.Fatalf("failed to get counter by id: %v", err)
	}
	if refreshed.Count != 2 || refreshed.DailyTarget != 2.0 {
		t.Errorf("refresh mismatch: %+v", refreshed)
	}

	if _, err := store.GetHabitCounterByID(counter.ID, user.ID+1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign owner, got %v", err)
	}

	// range query covers the trailing window
	second := models.HabitCounter{
		DateForCount: "2026-03-01",
		Count:        0,
		DailyTarget:  1.0,
		Signature:    habit.Signature,
		HabitID:      habit.ID,
	}
	if err := store.InsertHabitCounter(&second); err != nil {
		t.Fatalf("failed to insert second counter: %v", err)
	}

	counters, err := store.GetHabitCountersRange(habit.ID, "2026-02-01", "2026-03-02")
	if err != nil {
		t.Fatalf("failed to query counter range: %v", err)
	}
	if len(counters) != 2 {
		t.Fatalf("expected 2 counters, got %d", len(counters))
	}
	if counters[0].DateForCount != "2026-03-02" {
		t.Errorf("expected newest first, got %q", counters[0].DateForCount)
	}
}

func TestIssuedTokens(t *testing.T) {
	store := setupTestSQLiteStore(t)
	user := testUser(t, store, "tokens@example.com")

	token := models.IssuedToken{
		Jti:       uuid.NewString(),
		TokenType: "access",
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	if err := store.RecordToken(&token); err != nil {
		t.Fatalf("failed to record token: %v", err)
	}

	got, err := store.GetToken(token.Jti)
	if err != nil {
		t.Fatalf("failed to get token: %v", err)
	}
	if got.Revoked {
		t.Error("expected fresh token to not be revoked")
	}

	if err := store.RevokeToken(token.Jti, user.ID); err != nil {
		t.Fatalf("failed to revoke token: %v", err)
	}
	got, err = store.GetToken(token.Jti)
	if err != nil {
		t.Fatalf("failed to re-get token: %v", err)
	}
	if !got.Revoked {
		t.Error("expected token to be revoked")
	}

	expired := models.IssuedToken{
		Jti:       uuid.NewString(),
		TokenType: "access",
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	if err := store.RecordToken(&expired); err != nil {
		t.Fatalf("failed to record expired token: %v", err)
	}

	pruned, err := store.PruneTokens(time.Now().UTC())
	if err != nil {
		t.Fatalf("failed to prune tokens: %v", err)
	}
	if pruned != 1 {
		t.Errorf("expected 1 pruned token, got %d", pruned)
	}
	if _, err := store.GetToken(expired.Jti); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected pruned token to be gone, got %v", err)
	}
}

func TestHabitCascade(t *testing.T) {
	store := setupTestSQLiteStore(t)
	user := testUser(t, store, "cascade@example.com")

	habit := models.Habit{
		Activity:     models.Activity{Name: "Read", IsActive: true},
		TargetPeriod: models.TargetDaily,
		TargetValue:  1,
		UserID:       user.ID,
	}
	habit.Touch(time.Now())
	if err := store.CreateHabit(&habit); err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	counter := models.HabitCounter{
		DateForCount: "2026-03-02",
		DailyTarget:  1.0,
		Signature:    habit.Signature,
		HabitID:      habit.ID,
	}
	if err := store.InsertHabitCounter(&counter); err != nil {
		t.Fatalf("failed to insert counter: %v", err)
	}

	if err := store.DeleteHabit(habit.ID, user.ID); err != nil {
		t.Fatalf("failed to delete habit: %v", err)
	}
	if _, err := store.GetHabitCounter(habit.ID, "2026-03-02"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected cascade to delete counter, got %v", err)
	}
}
