package domain

import "time"

type EventSession struct {
	ID       int64
	Title    string
	StartsAt time.Time
	EndsAt   time.Time
	Capacity int

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

const (
	RegistrationConfirmed  = "confirmed"
	RegistrationWaitlisted = "waitlisted"
	RegistrationCancelled  = "cancelled"
)

type Registration struct {
	ID        int64
	SessionID int64
	Email     string
	Name      string
	Status    string
	// Position is the 1-based waitlist position; 0 unless waitlisted.
	Position  int
	CreatedAt time.Time
}

// Admit decides the status of a new registration given the current confirmed and
// waitlisted counts. Position is 0 for confirmed registrations.
func Admit(capacity, confirmed, waitlisted int) (status string, position int) {
	if confirmed < capacity {
		return RegistrationConfirmed, 0
	}
	return RegistrationWaitlisted, waitlisted + 1
}

// AssignWaitlistPositions numbers waitlisted registrations 1..n in slice order.
func AssignWaitlistPositions(list []Registration) {
	pos := 0
	for i := range list {
		if list[i].Status == RegistrationWaitlisted {
			pos++
			list[i].Position = pos
		} else {
			list[i].Position = 0
		}
	}
}
