package dto

import "time"

type CreateGoalRequest struct {
	Title       string   `json:"title" binding:"required,min=1,max=120"`
	Description string   `json:"description" binding:"max=2000"`
	TargetDate  FlexTime `json:"target_date"`
}

type UpdateGoalRequest struct {
	Title       *string   `json:"title" binding:"omitempty,min=1,max=120"`
	Description *string   `json:"description" binding:"omitempty,max=2000"`
	Status      *string   `json:"status" binding:"omitempty,oneof=active completed abandoned"`
	TargetDate  *FlexTime `json:"target_date"`
}

type GoalResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	TargetDate  *time.Time `json:"target_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ListGoalsResponse struct {
	Items []GoalResponse `json:"items"`
}

type GoalProgressResponse struct {
	Total   int `json:"total"`
	Done    int `json:"done"`
	Percent int `json:"percent"`
}
