package models

import "time"

type Ranking string

const (
	RankingStarter     Ranking = "starter"
	RankingEnrolled    Ranking = "enrolled"
	RankingExperienced Ranking = "experienced"
	RankingVeteran     Ranking = "veteran"
)

// LookaheadDays returns how many days past today this ranking may query
// the dashboard for.
func (r Ranking) LookaheadDays() int {
	switch r {
	case RankingStarter:
		return 1
	case RankingEnrolled:
		return 8
	case RankingExperienced:
		return 15
	case RankingVeteran:
		return 29
	default:
		return 0
	}
}

// Valid reports whether r is one of the known ranking tiers.
func (r Ranking) Valid() bool {
	switch r {
	case RankingStarter, RankingEnrolled, RankingExperienced, RankingVeteran:
		return true
	}
	return false
}

// User is a registered tintrack user. Each user carries a personal salt
// mixed into the password before hashing.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	PasswordHash string    `json:"-"`
	UserSalt     string    `json:"-"`
	Ranking      Ranking   `json:"ranking"`
	MemberSince  time.Time `json:"member_since"`
}

// OldEnough reports whether the user was at least the given number of
// years old at the reference instant.
func (u User) OldEnough(years int, now time.Time) bool {
	return !u.DateOfBirth.After(now.AddDate(-years, 0, 0))
}
