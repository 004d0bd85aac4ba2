package service

import (
	"context"
	"sync"

	dom "hubplus/internal/domain"
)

type recordingAudit struct {
	mu     sync.Mutex
	events []dom.AuditEvent
}

func (a *recordingAudit) Record(_ context.Context, ev dom.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

func (a *recordingAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.events))
	for i, e := range a.events {
		out[i] = e.Entity + ":" + e.Action
	}
	return out
}

type fakeQueue struct {
	mu   sync.Mutex
	msgs []dom.CompanyProcessingMessage
	err  error
}

func (q *fakeQueue) Publish(_ context.Context, m dom.CompanyProcessingMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.msgs = append(q.msgs, m)
	return nil
}
