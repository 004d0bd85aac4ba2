// Package audit stores write events in ClickHouse.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dom "hubplus/internal/domain"

	"github.com/ClickHouse/clickhouse-go/v2"
)

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

const createTable = `
CREATE TABLE IF NOT EXISTS audit_events (
    Entity    String,
    EntityId  String,
    Action    LowCardinality(String),
    ActorId   Int64,
    EventTime DateTime64(3, 'UTC')
) ENGINE = MergeTree()
ORDER BY (Entity, EntityId, EventTime)`

type Options struct {
	Addr     string
	Database string
	Username string
	Password string
}

// Store is the ClickHouse-backed audit log.
type Store struct {
	db *sql.DB
}

// Open connects over the HTTP protocol and creates the table if needed.
func Open(ctx context.Context, opt Options) (*Store, error) {
	db := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{opt.Addr},
		Auth: clickhouse.Auth{
			Database: opt.Database,
			Username: opt.Username,
			Password: opt.Password,
		},
		Protocol:    clickhouse.HTTP,
		DialTimeout: 5 * time.Second,
	})
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}
	s := NewStore(db)
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("clickhouse migrate: %w", err)
	}
	return s, nil
}

// NewStore wraps an already opened handle.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Insert(ctx context.Context, ev dom.AuditEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_events (Entity, EntityId, Action, ActorId, EventTime) VALUES (?, ?, ?, ?, ?)`,
		ev.Entity, ev.EntityID, ev.Action, ev.ActorID, ev.EventTime.UTC())
	return err
}

// Filter selects events; empty fields match everything.
type Filter struct {
	Entity   string
	EntityID string
	Limit    int
}

// ClampLimit applies the default and the upper bound.
func ClampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultLimit
	case n > MaxLimit:
		return MaxLimit
	}
	return n
}

func buildQuery(f Filter) (string, []any) {
	var where []string
	var args []any
	if f.Entity != "" {
		where = append(where, "Entity = ?")
		args = append(args, f.Entity)
	}
	if f.EntityID != "" {
		where = append(where, "EntityId = ?")
		args = append(args, f.EntityID)
	}
	q := `SELECT Entity, EntityId, Action, ActorId, EventTime FROM audit_events`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += fmt.Sprintf(" ORDER BY EventTime DESC LIMIT %d", ClampLimit(f.Limit))
	return q, args
}

// Query returns matching events, newest first.
func (s *Store) Query(ctx context.Context, f Filter) ([]dom.AuditEvent, error) {
	q, args := buildQuery(f)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []dom.AuditEvent{}
	for rows.Next() {
		var ev dom.AuditEvent
		if err := rows.Scan(&ev.Entity, &ev.EntityID, &ev.Action, &ev.ActorID, &ev.EventTime); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
