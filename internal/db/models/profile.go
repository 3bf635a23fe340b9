package models

import "time"

// Profile stores per-user data keyed by the auth provider's user id.
// BaseChronotype is empty until the user completes the base quiz.
type Profile struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	BaseChronotype string    `db:"base_chronotype"`
	CreatedAt      time.Time `db:"created_at"`
}
