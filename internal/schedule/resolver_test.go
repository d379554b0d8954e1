package schedule

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveKnownDates(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		wantWeek int
		wantDay  int
	}{
		// 2024 starts on a Monday, so the grid lines up exactly
		{"monday year start", date(2024, time.January, 1), 1, 1},
		{"first sunday", date(2024, time.January, 7), 1, 7},
		{"second monday", date(2024, time.January, 8), 2, 1},
		{"fourth week", date(2024, time.January, 22), 4, 1},
		{"cycle repeats", date(2024, time.January, 29), 1, 1},
		// 2023 starts on a Sunday: the opening partial week is the tail
		// of the previous cycle's week 4
		{"sunday year start", date(2023, time.January, 1), 4, 7},
		{"first full monday", date(2023, time.January, 2), 1, 1},
		{"first full sunday", date(2023, time.January, 8), 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			week, day := Resolve(tt.date)
			if week != tt.wantWeek || day != tt.wantDay {
				t.Errorf("Resolve(%s) = (%d, %d), want (%d, %d)",
					tt.date.Format("2006-01-02"), week, day, tt.wantWeek, tt.wantDay)
			}
		})
	}
}

func TestResolveRanges(t *testing.T) {
	// Every date of several years must land inside the grid
	for _, year := range []int{2020, 2021, 2023, 2024, 2026} {
		d := date(year, time.January, 1)
		for d.Year() == year {
			week, day := Resolve(d)
			if week < 1 || week > 4 {
				t.Fatalf("Resolve(%s) week = %d, want 1..4", d.Format("2006-01-02"), week)
			}
			if day < 1 || day > 7 {
				t.Fatalf("Resolve(%s) day = %d, want 1..7", d.Format("2006-01-02"), day)
			}
			d = d.AddDate(0, 0, 1)
		}
	}
}

func TestResolveDeterministic(t *testing.T) {
	d := date(2025, time.June, 14)
	w1, d1 := Resolve(d)
	w2, d2 := Resolve(d)
	if w1 != w2 || d1 != d2 {
		t.Errorf("Resolve not deterministic: (%d,%d) vs (%d,%d)", w1, d1, w2, d2)
	}
}

func TestResolve28DayPeriod(t *testing.T) {
	// Two dates exactly 28 days apart map to the same grid coordinate
	for _, start := range []time.Time{
		date(2024, time.February, 3),
		date(2023, time.March, 15),
		date(2025, time.July, 1),
	} {
		later := start.AddDate(0, 0, 28)
		if later.Year() != start.Year() {
			t.Fatalf("test date %s +28d crosses a year boundary", start.Format("2006-01-02"))
		}
		w1, d1 := Resolve(start)
		w2, d2 := Resolve(later)
		if w1 != w2 || d1 != d2 {
			t.Errorf("Resolve(%s) = (%d,%d) but +28d = (%d,%d)",
				start.Format("2006-01-02"), w1, d1, w2, d2)
		}
	}
}

func TestResolveWeekdayMatchesCalendar(t *testing.T) {
	// The day order always matches the real ISO weekday
	d := date(2024, time.March, 1)
	for i := 0; i < 60; i++ {
		_, day := Resolve(d)
		want := int(d.Weekday())
		if want == 0 {
			want = 7
		}
		if day != want {
			t.Errorf("Resolve(%s) day = %d, want %d", d.Format("2006-01-02"), day, want)
		}
		d = d.AddDate(0, 0, 1)
	}
}
