package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity is the value object shared by tasks and habits: something with
// a name and a reason to be part of someone's routine.
//
// Signature is an opaque token regenerated on every edit. Materialized
// children (planned tasks, habit counters) carry a copy taken at
// materialization time; a mismatch with the parent's current signature
// marks the child as stale. Comparison is equality-only.
type Activity struct {
	Name            string    `json:"name"`
	PersonalMessage string    `json:"personal_message"`
	Signature       string    `json:"-"`
	IsActive        bool      `json:"is_active"`
	LastEditedAt    time.Time `json:"last_edited_at"`
}

// Touch stamps the activity with a fresh signature and edit time.
// Call on every create and edit.
func (a *Activity) Touch(now time.Time) {
	a.Signature = uuid.NewString()
	a.LastEditedAt = now.UTC()
}
