package domain

import "time"

// RestrictedAddress is a do-not-mail entry.
type RestrictedAddress struct {
	ID           int64
	AddressLine1 string
	PostalCode   string
	MatchKey     string
	Reason       string
	CreatedAt    time.Time
	DeletedAt    *time.Time
}
