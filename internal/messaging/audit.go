package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	dom "hubplus/internal/domain"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// AuditPublisher publishes audit events on a core NATS subject. Delivery is best effort.
type AuditPublisher struct {
	nc      *nats.Conn
	subject string
	log     *zap.Logger
}

func NewAuditPublisher(nc *nats.Conn, subject string, log *zap.Logger) *AuditPublisher {
	return &AuditPublisher{nc: nc, subject: subject, log: log}
}

// Record never fails the caller; publish errors are logged.
func (p *AuditPublisher) Record(_ context.Context, ev dom.AuditEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("audit marshal", zap.Error(err))
		return
	}
	if err := p.nc.Publish(p.subject, b); err != nil {
		p.log.Warn("audit publish", zap.String("entity", ev.Entity), zap.Error(err))
	}
}

// AuditWriter persists audit events.
type AuditWriter interface {
	Insert(ctx context.Context, ev dom.AuditEvent) error
}

// SubscribeAudit forwards every event on subject to w. Undecodable messages are dropped.
func SubscribeAudit(nc *nats.Conn, subject string, w AuditWriter, log *zap.Logger) (*nats.Subscription, error) {
	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		var ev dom.AuditEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			log.Warn("audit decode", zap.Error(err))
			return
		}
		if err := w.Insert(context.Background(), ev); err != nil {
			log.Error("audit insert", zap.String("entity", ev.Entity), zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	return sub, nil
}
