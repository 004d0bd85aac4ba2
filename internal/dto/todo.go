package dto

import "time"

type CreateTodoRequest struct {
	Title       string   `json:"title" binding:"required,min=1,max=120"`
	Description string   `json:"description" binding:"max=1000"`
	DueAt       FlexTime `json:"due_at"` // optional: "2026-02-19" or RFC3339
	GoalID      *int64   `json:"goal_id" binding:"omitempty,gt=0"`
}

type UpdateTodoRequest struct {
	Title       *string   `json:"title" binding:"omitempty,min=1,max=120"`
	Description *string   `json:"description" binding:"omitempty,max=1000"`
	DueAt       *FlexTime `json:"due_at"` // nil = leave unchanged
	IsDone      *bool     `json:"is_done"`
	GoalID      *int64    `json:"goal_id" binding:"omitempty,gt=0"`
	ClearGoal   bool      `json:"clear_goal"`
}

type TodoResponse struct {
	ID          int64      `json:"id"`
	GoalID      *int64     `json:"goal_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsDone      bool       `json:"is_done"`
	DueAt       *time.Time `json:"due_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ListTodosResponse struct {
	Items []TodoResponse `json:"items"`
}
