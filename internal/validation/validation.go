// Package validation defines the request payloads and checks them before
// anything touches storage.
package validation

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/tintrack/internal/constants"
	"github.com/julianstephens/tintrack/internal/models"
)

var validate = validator.New()

// RegisterPayload is the user registration request body.
type RegisterPayload struct {
	Name        string `json:"name" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email"`
	DateOfBirth string `json:"date_of_birth" validate:"required"`
	Password    string `json:"password" validate:"required,min=8,max=64"`
}

// LoginPayload is the login request body.
type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TaskPayload carries a task create/update request. Schedule is the full
// 4x7 grid: Schedule[w][d] lists the time-of-day slots for week w+1, day
// d+1, each slot "any", seconds from midnight, or "HH:MM".
type TaskPayload struct {
	Name             string       `json:"name" validate:"required,max=120"`
	PersonalMessage  string       `json:"personal_message" validate:"max=250"`
	DurationEstimate int          `json:"duration_estimate" validate:"gt=0,lte=86400"`
	IconName         string       `json:"icon_name" validate:"max=120"`
	Schedule         [][][]string `json:"schedule" validate:"required"`
}

// HabitPayload carries a habit create/update request.
type HabitPayload struct {
	Name            string `json:"name" validate:"required,max=120"`
	PersonalMessage string `json:"personal_message" validate:"max=250"`
	IconName        string `json:"icon_name" validate:"max=120"`
	ToBeEnforced    bool   `json:"to_be_enforced"`
	TargetPeriod    string `json:"target_period" validate:"required,oneof=daily weekly monthly"`
	TargetValue     int    `json:"target_value" validate:"gt=0,lte=1000"`
}

// CheckRegister validates a registration payload and returns the parsed
// birth date.
func CheckRegister(p RegisterPayload, now time.Time) (time.Time, error) {
	if err := validate.Struct(p); err != nil {
		return time.Time{}, err
	}

	dob, err := time.Parse(constants.DateFormat, p.DateOfBirth)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date_of_birth %q: %w", p.DateOfBirth, err)
	}

	user := models.User{DateOfBirth: dob}
	if !user.OldEnough(constants.MinimumAge, now) {
		return time.Time{}, fmt.Errorf("must be at least %d years old", constants.MinimumAge)
	}

	return dob, nil
}

// CheckLogin validates a login payload.
func CheckLogin(p LoginPayload) error {
	return validate.Struct(p)
}

// CheckTask validates a task payload including the schedule grid shape,
// and returns the parsed schedule tree. The grid must hold exactly 4
// weeks of exactly 7 days each; slot lists may be empty.
func CheckTask(p TaskPayload) ([]models.WeekSchedule, error) {
	if err := validate.Struct(p); err != nil {
		return nil, err
	}
	return ParseSchedule(p.Schedule)
}

// CheckHabit validates a habit payload.
func CheckHabit(p HabitPayload) error {
	return validate.Struct(p)
}

// ParseSchedule turns the raw 4x7 grid into the week-schedule tree,
// canonicalizing every slot value.
func ParseSchedule(grid [][][]string) ([]models.WeekSchedule, error) {
	if len(grid) != constants.CycleWeeks {
		return nil, fmt.Errorf("schedule must have %d weeks, got %d", constants.CycleWeeks, len(grid))
	}

	schedules := make([]models.WeekSchedule, 0, constants.CycleWeeks)
	for wi, week := range grid {
		if len(week) != constants.DaysPerWeek {
			return nil, fmt.Errorf("week %d must have %d days, got %d", wi+1, constants.DaysPerWeek, len(week))
		}

		ws := models.WeekSchedule{WeekNumber: wi + 1}
		for di, slots := range week {
			wd := models.Weekday{DayNumber: di + 1}
			for _, slot := range slots {
				timeOfDay, err := models.ParseTimeOfDay(slot)
				if err != nil {
					return nil, fmt.Errorf("week %d day %d: %w", wi+1, di+1, err)
				}
				wd.Daytimes = append(wd.Daytimes, models.Daytime{TimeOfDay: timeOfDay})
			}
			ws.Weekdays = append(ws.Weekdays, wd)
		}
		schedules = append(schedules, ws)
	}

	return schedules, nil
}
