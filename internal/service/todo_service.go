package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"hubplus/internal/cache"
	dom "hubplus/internal/domain"
	"hubplus/internal/repo"

	"golang.org/x/sync/singleflight"
)

type TodoService struct {
	repo  repo.TodoRepo
	goals repo.GoalRepo
	cache *cache.TodoCache
	audit AuditSink
	sf    singleflight.Group
	now   func() time.Time
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, goals repo.GoalRepo, c *cache.TodoCache, audit AuditSink) *TodoService {
	return &TodoService{repo: r, goals: goals, cache: c, audit: orNop(audit), now: func() time.Time { return time.Now().UTC() }}
}

// TodoPatch carries optional fields; nil means "leave unchanged".
// ClearGoal unlinks the todo from its goal.
type TodoPatch struct {
	Title       *string
	Description *string
	DueAt       *time.Time
	IsDone      *bool
	GoalID      *int64
	ClearGoal   bool
}

func (s *TodoService) Create(ctx context.Context, userID int64, title, desc string, dueAt *time.Time, goalID *int64) (dom.Todo, error) {
	title = strings.TrimSpace(title)
	desc = strings.TrimSpace(desc)
	if title == "" {
		return dom.Todo{}, invalid("title", "must not be blank")
	}
	if dueAt != nil && dueAt.Before(s.now()) {
		return dom.Todo{}, ErrInvalidDueDate
	}
	if err := s.checkGoal(ctx, userID, goalID); err != nil {
		return dom.Todo{}, err
	}

	t, err := s.repo.Create(ctx, dom.Todo{
		UserID:      userID,
		GoalID:      goalID,
		Title:       title,
		Description: desc,
		DueAt:       dueAt,
	})
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, userID)
	s.audit.Record(ctx, event("todo", t.ID, dom.ActionCreate, userID))
	return t, nil
}

func (s *TodoService) List(ctx context.Context, userID int64) ([]dom.Todo, error) {
	return s.cached(ctx, "list:"+strconv.FormatInt(userID, 10),
		func() ([]dom.Todo, error) { return s.cache.GetList(ctx, userID) },
		func() ([]dom.Todo, error) { return s.repo.List(ctx, userID) },
		func(list []dom.Todo) error { return s.cache.SetList(ctx, userID, list) },
	)
}

func (s *TodoService) GetByID(ctx context.Context, userID, id int64) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return dom.Todo{}, mapNoRows(err)
	}
	return t, nil
}

func (s *TodoService) Update(ctx context.Context, userID, id int64, p TodoPatch) (dom.Todo, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return dom.Todo{}, mapNoRows(err)
	}
	patch := existing
	if p.Title != nil {
		patch.Title = strings.TrimSpace(*p.Title)
		if patch.Title == "" {
			return dom.Todo{}, invalid("title", "must not be blank")
		}
	}
	if p.Description != nil {
		patch.Description = strings.TrimSpace(*p.Description)
	}
	if p.DueAt != nil {
		if p.DueAt.Before(s.now()) {
			return dom.Todo{}, ErrInvalidDueDate
		}
		patch.DueAt = p.DueAt
	}
	if p.IsDone != nil {
		patch.IsDone = *p.IsDone
	}
	switch {
	case p.ClearGoal:
		patch.GoalID = nil
	case p.GoalID != nil:
		if err := s.checkGoal(ctx, userID, p.GoalID); err != nil {
			return dom.Todo{}, err
		}
		patch.GoalID = p.GoalID
	}
	t, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		return dom.Todo{}, mapNoRows(err)
	}
	s.invalidateCache(ctx, userID)
	s.audit.Record(ctx, event("todo", t.ID, dom.ActionUpdate, userID))
	return t, nil
}

func (s *TodoService) Complete(ctx context.Context, userID, id int64) (dom.Todo, error) {
	t, err := s.repo.MarkDone(ctx, userID, id, true)
	if err != nil {
		return dom.Todo{}, mapNoRows(err)
	}
	s.invalidateCache(ctx, userID)
	s.audit.Record(ctx, event("todo", t.ID, dom.ActionUpdate, userID))
	return t, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, id int64) error {
	ok, err := s.repo.SoftDelete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.invalidateCache(ctx, userID)
	s.audit.Record(ctx, event("todo", id, dom.ActionDelete, userID))
	return nil
}

func (s *TodoService) Search(ctx context.Context, userID int64, q string) ([]dom.Todo, error) {
	q = strings.TrimSpace(q)
	return s.cached(ctx, "search:"+strconv.FormatInt(userID, 10)+":"+strings.ToLower(q),
		func() ([]dom.Todo, error) { return s.cache.GetSearch(ctx, userID, q) },
		func() ([]dom.Todo, error) { return s.repo.Search(ctx, userID, q) },
		func(list []dom.Todo) error { return s.cache.SetSearch(ctx, userID, q, list) },
	)
}

func (s *TodoService) Overdue(ctx context.Context, userID int64) ([]dom.Todo, error) {
	return s.cached(ctx, "overdue:"+strconv.FormatInt(userID, 10),
		func() ([]dom.Todo, error) { return s.cache.GetOverdue(ctx, userID) },
		func() ([]dom.Todo, error) { return s.repo.Overdue(ctx, userID, s.now()) },
		func(list []dom.Todo) error { return s.cache.SetOverdue(ctx, userID, list) },
	)
}

// cached reads through the cache, collapsing concurrent misses for the same key.
// Cache errors degrade to a direct repo read.
func (s *TodoService) cached(ctx context.Context, key string,
	get func() ([]dom.Todo, error), load func() ([]dom.Todo, error), set func([]dom.Todo) error,
) ([]dom.Todo, error) {
	if s.cache == nil {
		return load()
	}
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if list, err := get(); err == nil && list != nil {
			return list, nil
		}
		list, err := load()
		if err != nil {
			return nil, err
		}
		_ = set(list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Todo), nil
}

func (s *TodoService) checkGoal(ctx context.Context, userID int64, goalID *int64) error {
	if goalID == nil {
		return nil
	}
	if _, err := s.goals.GetByID(ctx, userID, *goalID); err != nil {
		if errors.Is(mapNoRows(err), ErrNotFound) {
			return invalid("goal_id", "goal %d not found", *goalID)
		}
		return err
	}
	return nil
}

func (s *TodoService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx, userID)
	}
}
