package dto

import "time"

type CreateTemplateRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=120"`
	Subject string `json:"subject" binding:"required,max=500"`
	Body    string `json:"body" binding:"required"`
}

type UpdateTemplateRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=120"`
	Subject *string `json:"subject" binding:"omitempty,max=500"`
	Body    *string `json:"body"`
}

type TemplateResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListTemplatesResponse struct {
	Items []TemplateResponse `json:"items"`
}

type PreviewTemplateRequest struct {
	Vars map[string]any `json:"vars"`
}

type PreviewTemplateResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
