package dto

import "time"

type CreateSessionRequest struct {
	Title    string    `json:"title" binding:"required,min=1,max=200"`
	StartsAt *FlexTime `json:"starts_at" binding:"required"`
	EndsAt   *FlexTime `json:"ends_at" binding:"required"`
	Capacity int       `json:"capacity" binding:"required,gt=0"`
}

type UpdateSessionRequest struct {
	Title    *string   `json:"title" binding:"omitempty,min=1,max=200"`
	StartsAt *FlexTime `json:"starts_at"`
	EndsAt   *FlexTime `json:"ends_at"`
	Capacity *int      `json:"capacity" binding:"omitempty,gt=0"`
}

type SessionResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListSessionsResponse struct {
	Items []SessionResponse `json:"items"`
}

type CreateRegistrationRequest struct {
	Email string `json:"email" binding:"required,email,max=254"`
	Name  string `json:"name" binding:"max=200"`
}

type RegistrationResponse struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Position  int       `json:"position,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ListRegistrationsResponse struct {
	Items []RegistrationResponse `json:"items"`
}

type CancelRegistrationResponse struct {
	Cancelled RegistrationResponse  `json:"cancelled"`
	Promoted  *RegistrationResponse `json:"promoted"`
}
