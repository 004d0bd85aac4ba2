package service

import (
	"context"
	"strings"
	"time"

	"hubplus/internal/cache"
	dom "hubplus/internal/domain"
	"hubplus/internal/repo"
)

type GoalService struct {
	repo  repo.GoalRepo
	todos repo.TodoRepo
	cache *cache.TodoCache
	audit AuditSink
}

// NewGoalService creates a GoalService. c is the todo cache; deleting a goal unlinks
// its todos, so the owner's cached todo lists are dropped. c may be nil.
func NewGoalService(r repo.GoalRepo, todos repo.TodoRepo, c *cache.TodoCache, audit AuditSink) *GoalService {
	return &GoalService{repo: r, todos: todos, cache: c, audit: orNop(audit)}
}

type GoalPatch struct {
	Title       *string
	Description *string
	Status      *string
	TargetDate  *time.Time
}

func (s *GoalService) Create(ctx context.Context, userID int64, title, desc string, target *time.Time) (dom.Goal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Goal{}, invalid("title", "must not be blank")
	}
	g, err := s.repo.Create(ctx, dom.Goal{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(desc),
		Status:      dom.GoalActive,
		TargetDate:  target,
	})
	if err != nil {
		return dom.Goal{}, err
	}
	s.audit.Record(ctx, event("goal", g.ID, dom.ActionCreate, userID))
	return g, nil
}

func (s *GoalService) List(ctx context.Context, userID int64) ([]dom.Goal, error) {
	return s.repo.List(ctx, userID)
}

func (s *GoalService) GetByID(ctx context.Context, userID, id int64) (dom.Goal, error) {
	g, err := s.repo.GetByID(ctx, userID, id)
	return g, mapNoRows(err)
}

func (s *GoalService) Update(ctx context.Context, userID, id int64, p GoalPatch) (dom.Goal, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return dom.Goal{}, mapNoRows(err)
	}
	patch := existing
	if p.Title != nil {
		patch.Title = strings.TrimSpace(*p.Title)
		if patch.Title == "" {
			return dom.Goal{}, invalid("title", "must not be blank")
		}
	}
	if p.Description != nil {
		patch.Description = strings.TrimSpace(*p.Description)
	}
	if p.Status != nil {
		if !dom.ValidGoalStatus(*p.Status) {
			return dom.Goal{}, invalid("status", "must be one of active, completed, abandoned")
		}
		patch.Status = *p.Status
	}
	if p.TargetDate != nil {
		patch.TargetDate = p.TargetDate
	}
	g, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		return dom.Goal{}, mapNoRows(err)
	}
	s.audit.Record(ctx, event("goal", g.ID, dom.ActionUpdate, userID))
	return g, nil
}

func (s *GoalService) Complete(ctx context.Context, userID, id int64) (dom.Goal, error) {
	status := dom.GoalCompleted
	return s.Update(ctx, userID, id, GoalPatch{Status: &status})
}

func (s *GoalService) Delete(ctx context.Context, userID, id int64) error {
	ok, err := s.repo.SoftDelete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx, userID)
	}
	s.audit.Record(ctx, event("goal", id, dom.ActionDelete, userID))
	return nil
}

func (s *GoalService) Progress(ctx context.Context, userID, id int64) (dom.GoalProgress, error) {
	if _, err := s.repo.GetByID(ctx, userID, id); err != nil {
		return dom.GoalProgress{}, mapNoRows(err)
	}
	return s.repo.Progress(ctx, userID, id)
}

func (s *GoalService) Todos(ctx context.Context, userID, id int64) ([]dom.Todo, error) {
	if _, err := s.repo.GetByID(ctx, userID, id); err != nil {
		return nil, mapNoRows(err)
	}
	return s.todos.ListByGoal(ctx, userID, id)
}
