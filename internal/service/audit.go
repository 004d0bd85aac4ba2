package service

import (
	"context"
	"strconv"
	"time"

	dom "hubplus/internal/domain"
)

// AuditSink receives one event per successful write. Implementations must not block.
type AuditSink interface {
	Record(ctx context.Context, ev dom.AuditEvent)
}

// NopAudit discards events.
type NopAudit struct{}

func (NopAudit) Record(context.Context, dom.AuditEvent) {}

func orNop(a AuditSink) AuditSink {
	if a == nil {
		return NopAudit{}
	}
	return a
}

func event(entity string, id int64, action string, actor int64) dom.AuditEvent {
	return dom.AuditEvent{
		Entity:    entity,
		EntityID:  strconv.FormatInt(id, 10),
		Action:    action,
		ActorID:   actor,
		EventTime: time.Now().UTC(),
	}
}
