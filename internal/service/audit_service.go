package service

import (
	"context"

	"hubplus/internal/audit"
	dom "hubplus/internal/domain"
)

// AuditReader is the query side of the audit log.
type AuditReader interface {
	Query(ctx context.Context, f audit.Filter) ([]dom.AuditEvent, error)
}

type AuditService struct {
	reader AuditReader
}

// NewAuditService accepts a nil reader when ClickHouse is not configured.
func NewAuditService(r AuditReader) *AuditService {
	return &AuditService{reader: r}
}

func (s *AuditService) Query(ctx context.Context, f audit.Filter) ([]dom.AuditEvent, error) {
	if s.reader == nil {
		return nil, ErrUnavailable
	}
	f.Limit = audit.ClampLimit(f.Limit)
	return s.reader.Query(ctx, f)
}
