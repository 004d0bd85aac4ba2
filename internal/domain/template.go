package domain

import "time"

type EmailTemplate struct {
	ID      int64
	Name    string
	Subject string
	Body    string

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
