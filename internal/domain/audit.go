package domain

import "time"

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// AuditEvent records one successful write. Time is set by the writer, not the database.
type AuditEvent struct {
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Action    string    `json:"action"`
	ActorID   int64     `json:"actor_id"`
	EventTime time.Time `json:"event_time"`
}
