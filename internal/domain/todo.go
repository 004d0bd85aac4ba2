package domain

import "time"

// Todo is owned by a user and optionally linked to one of that user's goals.
// Does not depend on Gin, Postgres or Redis.
type Todo struct {
	ID          int64
	UserID      int64
	GoalID      *int64
	Title       string
	Description string
	IsDone      bool
	DueAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// IsOverdue reports whether an open todo has passed its due time.
func (t Todo) IsOverdue(now time.Time) bool {
	return !t.IsDone && t.DueAt != nil && t.DueAt.Before(now)
}
