package models

import "time"

// Plan is a saved AI-generated schedule. HTML is already sanitized by the
// planner before it reaches the store.
type Plan struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	HTML      string    `db:"html"`
	CreatedAt time.Time `db:"created_at"`
}
