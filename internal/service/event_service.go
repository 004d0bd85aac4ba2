package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	dom "hubplus/internal/domain"
	"hubplus/internal/repo"
	"hubplus/internal/utils"
)

type EventService struct {
	repo  repo.EventRepo
	audit AuditSink
}

func NewEventService(r repo.EventRepo, audit AuditSink) *EventService {
	return &EventService{repo: r, audit: orNop(audit)}
}

type SessionPatch struct {
	Title    *string
	StartsAt *time.Time
	EndsAt   *time.Time
	Capacity *int
}

func validateSession(s dom.EventSession) error {
	if s.Title == "" {
		return invalid("title", "must not be blank")
	}
	if s.Capacity <= 0 {
		return invalid("capacity", "must be positive")
	}
	if !s.EndsAt.After(s.StartsAt) {
		return invalid("ends_at", "must be after starts_at")
	}
	return nil
}

func (s *EventService) CreateSession(ctx context.Context, actor int64, title string, starts, ends time.Time, capacity int) (dom.EventSession, error) {
	in := dom.EventSession{Title: strings.TrimSpace(title), StartsAt: starts, EndsAt: ends, Capacity: capacity}
	if err := validateSession(in); err != nil {
		return dom.EventSession{}, err
	}
	out, err := s.repo.CreateSession(ctx, in)
	if err != nil {
		return dom.EventSession{}, err
	}
	s.audit.Record(ctx, event("event_session", out.ID, dom.ActionCreate, actor))
	return out, nil
}

func (s *EventService) ListSessions(ctx context.Context) ([]dom.EventSession, error) {
	return s.repo.ListSessions(ctx)
}

func (s *EventService) GetSession(ctx context.Context, id int64) (dom.EventSession, error) {
	out, err := s.repo.GetSession(ctx, id)
	return out, mapNoRows(err)
}

// UpdateSession never demotes confirmed registrations when capacity shrinks.
func (s *EventService) UpdateSession(ctx context.Context, actor, id int64, p SessionPatch) (dom.EventSession, error) {
	existing, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return dom.EventSession{}, mapNoRows(err)
	}
	patch := existing
	if p.Title != nil {
		patch.Title = strings.TrimSpace(*p.Title)
	}
	if p.StartsAt != nil {
		patch.StartsAt = *p.StartsAt
	}
	if p.EndsAt != nil {
		patch.EndsAt = *p.EndsAt
	}
	if p.Capacity != nil {
		patch.Capacity = *p.Capacity
	}
	if err := validateSession(patch); err != nil {
		return dom.EventSession{}, err
	}
	out, err := s.repo.UpdateSession(ctx, id, patch)
	if err != nil {
		return dom.EventSession{}, mapNoRows(err)
	}
	s.audit.Record(ctx, event("event_session", id, dom.ActionUpdate, actor))
	return out, nil
}

func (s *EventService) DeleteSession(ctx context.Context, actor, id int64) error {
	ok, err := s.repo.DeleteSession(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.audit.Record(ctx, event("event_session", id, dom.ActionDelete, actor))
	return nil
}

func (s *EventService) Register(ctx context.Context, actor, sessionID int64, email, name string) (dom.Registration, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return dom.Registration{}, invalid("email", "must be a valid address")
	}
	reg, err := s.repo.Register(ctx, sessionID, email, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateRegistration) || utils.IsPGUniqueViolation(err) {
			return dom.Registration{}, ErrAlreadyRegistered
		}
		return dom.Registration{}, mapNoRows(err)
	}
	s.audit.Record(ctx, event("registration", reg.ID, dom.ActionCreate, actor))
	return reg, nil
}

// CancelRegistration returns the promoted registration when a confirmed seat was freed.
func (s *EventService) CancelRegistration(ctx context.Context, actor, sessionID, registrationID int64) (dom.Registration, *dom.Registration, error) {
	cancelled, promoted, err := s.repo.CancelRegistration(ctx, sessionID, registrationID)
	if err != nil {
		return dom.Registration{}, nil, mapNoRows(err)
	}
	s.audit.Record(ctx, event("registration", cancelled.ID, dom.ActionDelete, actor))
	if promoted != nil {
		s.audit.Record(ctx, event("registration", promoted.ID, dom.ActionUpdate, actor))
	}
	return cancelled, promoted, nil
}

func (s *EventService) ListRegistrations(ctx context.Context, sessionID int64) ([]dom.Registration, error) {
	if _, err := s.repo.GetSession(ctx, sessionID); err != nil {
		return nil, mapNoRows(err)
	}
	return s.repo.ListRegistrations(ctx, sessionID)
}
