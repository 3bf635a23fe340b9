package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a task's size for the planner prompt.
type Kind string

const (
	KindShort Kind = "short"
	KindLong  Kind = "long"
)

// TempIDPrefix marks a locally-generated task id awaiting remote
// confirmation. Authoritative ids never carry it.
const TempIDPrefix = "temp-"

// Task is one user-owned to-do item.
type Task struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Description string    `db:"description"`
	Duration    string    `db:"duration"`
	Kind        Kind      `db:"type"`
	Recurring   bool      `db:"recurring"`
	Completed   bool      `db:"completed"`
	CreatedAt   time.Time `db:"created_at"`
}

// NewTempID returns a fresh temporary id for an optimistic insert.
func NewTempID() string {
	return TempIDPrefix + uuid.NewString()
}

// IsTemp reports whether id is a temporary optimistic id.
func IsTemp(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}
