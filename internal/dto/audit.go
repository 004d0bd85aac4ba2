package dto

import "time"

type AuditEventResponse struct {
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Action    string    `json:"action"`
	ActorID   int64     `json:"actor_id"`
	EventTime time.Time `json:"event_time"`
}

type ListAuditEventsResponse struct {
	Items []AuditEventResponse `json:"items"`
}
