package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"hubplus/internal/auth"
	dom "hubplus/internal/domain"
	"hubplus/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type stubUsers struct {
	mu   sync.Mutex
	rows []dom.User
}

func (s *stubUsers) find(match func(dom.User) bool) (dom.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.rows {
		if match(u) {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (s *stubUsers) GetByUsername(_ context.Context, username string) (dom.User, error) {
	return s.find(func(u dom.User) bool { return u.Username == username })
}

func (s *stubUsers) GetByID(_ context.Context, id int64) (dom.User, error) {
	return s.find(func(u dom.User) bool { return u.ID == id })
}

func (s *stubUsers) Create(ctx context.Context, username, hash, role string) (dom.User, error) {
	if _, err := s.GetByUsername(ctx, username); err == nil {
		return dom.User{}, &pgconn.PgError{Code: "23505"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := dom.User{ID: int64(len(s.rows) + 1), Username: username, PasswordHash: hash, Role: role}
	s.rows = append(s.rows, u)
	return u, nil
}

func (s *stubUsers) SetRole(context.Context, string, string) (dom.User, error) {
	return dom.User{}, pgx.ErrNoRows
}

type stubTodos struct {
	mu   sync.Mutex
	rows []dom.Todo
}

func (s *stubTodos) Create(_ context.Context, t dom.Todo) (dom.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = int64(len(s.rows) + 1)
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	s.rows = append(s.rows, t)
	return t, nil
}

func (s *stubTodos) GetByID(_ context.Context, userID, id int64) (dom.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.rows {
		if t.ID == id && t.UserID == userID && t.DeletedAt == nil {
			return t, nil
		}
	}
	return dom.Todo{}, pgx.ErrNoRows
}

func (s *stubTodos) List(_ context.Context, userID int64) ([]dom.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []dom.Todo{}
	for _, t := range s.rows {
		if t.UserID == userID && t.DeletedAt == nil {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubTodos) ListByGoal(context.Context, int64, int64) ([]dom.Todo, error) {
	return []dom.Todo{}, nil
}

func (s *stubTodos) Update(ctx context.Context, userID, id int64, patch dom.Todo) (dom.Todo, error) {
	if _, err := s.GetByID(ctx, userID, id); err != nil {
		return dom.Todo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[id-1] = patch
	return patch, nil
}

func (s *stubTodos) SoftDelete(ctx context.Context, userID, id int64) (bool, error) {
	if _, err := s.GetByID(ctx, userID, id); err != nil {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.rows[id-1].DeletedAt = &now
	return true, nil
}

func (s *stubTodos) MarkDone(ctx context.Context, userID, id int64, done bool) (dom.Todo, error) {
	t, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return dom.Todo{}, err
	}
	t.IsDone = done
	return s.Update(ctx, userID, id, t)
}

func (s *stubTodos) Search(ctx context.Context, userID int64, _ string) ([]dom.Todo, error) {
	return s.List(ctx, userID)
}

func (s *stubTodos) Overdue(context.Context, int64, time.Time) ([]dom.Todo, error) {
	return []dom.Todo{}, nil
}

type noGoals struct{}

func (noGoals) Create(context.Context, dom.Goal) (dom.Goal, error) { return dom.Goal{}, nil }
func (noGoals) GetByID(context.Context, int64, int64) (dom.Goal, error) {
	return dom.Goal{}, pgx.ErrNoRows
}
func (noGoals) List(context.Context, int64) ([]dom.Goal, error) { return nil, nil }
func (noGoals) Update(context.Context, int64, int64, dom.Goal) (dom.Goal, error) {
	return dom.Goal{}, pgx.ErrNoRows
}
func (noGoals) SoftDelete(context.Context, int64, int64) (bool, error) { return false, nil }
func (noGoals) Progress(context.Context, int64, int64) (dom.GoalProgress, error) {
	return dom.GoalProgress{}, nil
}

// testServer mounts the auth and todo routes the way the API does.
type testServer struct {
	router   *gin.Engine
	sessions *auth.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	sessions := auth.NewStore(rdb, time.Hour)
	users := service.NewUserService(&stubUsers{})
	todos := NewTodoHandler(service.NewTodoService(&stubTodos{}, noGoals{}, nil, nil))
	authH := NewAuthHandler(sessions, users)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)
	api.POST("/auth/logout", authH.Logout)

	protected := api.Group("", auth.RequireSession(sessions))
	protected.GET("/auth/me", authH.Me)
	protected.POST("/todos", todos.Create)
	protected.GET("/todos", todos.List)
	protected.GET("/todos/:id", todos.GetByID)
	protected.PATCH("/todos/:id", todos.Update)
	protected.DELETE("/todos/:id", todos.Delete)
	protected.POST("/todos/:id/complete", todos.Complete)

	return &testServer{router: r, sessions: sessions}
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", auth.SessionCookieName)
	return nil
}
