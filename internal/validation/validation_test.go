package validation

import (
	"strings"
	"testing"
	"time"
)

func emptyGrid() [][][]string {
	grid := make([][][]string, 4)
	for w := range grid {
		grid[w] = make([][]string, 7)
		for d := range grid[w] {
			grid[w][d] = []string{}
		}
	}
	return grid
}

func validTaskPayload() TaskPayload {
	grid := emptyGrid()
	grid[0][0] = []string{"08:30", "any"}
	return TaskPayload{
		Name:             "Morning stretch",
		DurationEstimate: 600,
		Schedule:         grid,
	}
}

func TestCheckTask(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		schedules, err := CheckTask(validTaskPayload())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(schedules) != 4 {
			t.Fatalf("expected 4 week schedules, got %d", len(schedules))
		}
		for _, ws := range schedules {
			if len(ws.Weekdays) != 7 {
				t.Fatalf("week %d: expected 7 days, got %d", ws.WeekNumber, len(ws.Weekdays))
			}
		}

		slots := schedules[0].Weekdays[0].Daytimes
		if len(slots) != 2 {
			t.Fatalf("expected 2 slots, got %d", len(slots))
		}
		if slots[0].TimeOfDay != "30600" {
			t.Errorf("expected canonical seconds 30600, got %q", slots[0].TimeOfDay)
		}
		if slots[1].TimeOfDay != "any" {
			t.Errorf("expected any slot preserved, got %q", slots[1].TimeOfDay)
		}
	})

	t.Run("wrong week count", func(t *testing.T) {
		p := validTaskPayload()
		p.Schedule = p.Schedule[:3]
		if _, err := CheckTask(p); err == nil {
			t.Error("expected error for 3-week grid")
		}
	})

	t.Run("wrong day count", func(t *testing.T) {
		p := validTaskPayload()
		p.Schedule[2] = p.Schedule[2][:6]
		if _, err := CheckTask(p); err == nil {
			t.Error("expected error for 6-day week")
		}
	})

	t.Run("bad slot value", func(t *testing.T) {
		p := validTaskPayload()
		p.Schedule[1][3] = []string{"sometime"}
		_, err := CheckTask(p)
		if err == nil {
			t.Fatal("expected error for invalid slot")
		}
		if !strings.Contains(err.Error(), "week 2 day 4") {
			t.Errorf("expected slot location in error, got %q", err.Error())
		}
	})

	t.Run("missing name", func(t *testing.T) {
		p := validTaskPayload()
		p.Name = ""
		if _, err := CheckTask(p); err == nil {
			t.Error("expected error for missing name")
		}
	})

	t.Run("duration out of range", func(t *testing.T) {
		p := validTaskPayload()
		p.DurationEstimate = 90000
		if _, err := CheckTask(p); err == nil {
			t.Error("expected error for oversized duration")
		}
	})
}

func TestCheckHabit(t *testing.T) {
	valid := HabitPayload{Name: "Drink water", TargetPeriod: "daily", TargetValue: 8}
	if err := CheckHabit(valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := valid
	bad.TargetPeriod = "hourly"
	if err := CheckHabit(bad); err == nil {
		t.Error("expected error for unknown target period")
	}

	bad = valid
	bad.TargetValue = 0
	if err := CheckHabit(bad); err == nil {
		t.Error("expected error for zero target value")
	}
}

func TestCheckRegister(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	valid := RegisterPayload{
		Name:        "Sam",
		Email:       "sam@example.com",
		DateOfBirth: "1990-05-04",
		Password:    "correct horse",
	}

	dob, err := CheckRegister(valid, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dob.Year() != 1990 {
		t.Errorf("expected parsed birth year 1990, got %d", dob.Year())
	}

	t.Run("underage", func(t *testing.T) {
		p := valid
		p.DateOfBirth = "2012-01-01"
		if _, err := CheckRegister(p, now); err == nil {
			t.Error("expected error for underage user")
		}
	})

	t.Run("bad email", func(t *testing.T) {
		p := valid
		p.Email = "not-an-email"
		if _, err := CheckRegister(p, now); err == nil {
			t.Error("expected error for malformed email")
		}
	})

	t.Run("bad date", func(t *testing.T) {
		p := valid
		p.DateOfBirth = "04/05/1990"
		if _, err := CheckRegister(p, now); err == nil {
			t.Error("expected error for malformed date")
		}
	})

	t.Run("short password", func(t *testing.T) {
		p := valid
		p.Password = "short"
		if _, err := CheckRegister(p, now); err == nil {
			t.Error("expected error for short password")
		}
	})
}
