package constants

const (
	AppName = "tintrack"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"
	// TimeFormat is the standard wall-clock format accepted in schedule payloads (HH:MM)
	TimeFormat = "15:04"

	// AnyTimeOfDay marks a schedule slot that can happen at any time of the day
	AnyTimeOfDay = "any"

	SecondsPerDay = 86400

	// The recurring schedule grid: every task repeats on a fixed 4-week cycle
	CycleWeeks  = 4
	DaysPerWeek = 7
	CycleDays   = CycleWeeks * DaysPerWeek

	// MinimumAge is the minimum user age in years enforced at registration
	MinimumAge = 18

	DefaultAddr      = ":3000"
	DefaultTokenTTL  = "24h"
	DefaultIconName  = "default-task"
	MaxNameLength    = 120
	MaxMessageLength = 250
	MaxDurationSecs  = SecondsPerDay
	MaxTargetValue   = 1000
)
