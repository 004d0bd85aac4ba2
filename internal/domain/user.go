package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the domain entity for a user account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
