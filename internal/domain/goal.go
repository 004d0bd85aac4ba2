package domain

import "time"

const (
	GoalActive    = "active"
	GoalCompleted = "completed"
	GoalAbandoned = "abandoned"
)

type Goal struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Status      string
	TargetDate  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// GoalProgress counts the non-deleted todos linked to a goal.
type GoalProgress struct {
	Total int
	Done  int
}

// Percent is rounded down; a goal without todos is at 0.
func (p GoalProgress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Done * 100 / p.Total
}

func ValidGoalStatus(s string) bool {
	switch s {
	case GoalActive, GoalCompleted, GoalAbandoned:
		return true
	}
	return false
}
