package cache

import (
	"context"
	"strconv"
	"time"

	dom "hubplus/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	todoPrefix = "todo"
	keyList    = "list"
	keyOverdue = "overdue"
	keySearch  = "search:"
)

// TodoCache caches each user's todo list, search and overdue results in Redis.
type TodoCache struct {
	lists *ListCache[dom.Todo]
}

// NewTodoCache returns a new TodoCache.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{lists: NewListCache[dom.Todo](rdb, todoPrefix, ttl)}
}

func scope(userID int64) string { return strconv.FormatInt(userID, 10) }

// GetList returns cached list or nil if miss.
func (c *TodoCache) GetList(ctx context.Context, userID int64) ([]dom.Todo, error) {
	return c.lists.Get(ctx, scope(userID), keyList)
}

func (c *TodoCache) SetList(ctx context.Context, userID int64, list []dom.Todo) error {
	return c.lists.Set(ctx, scope(userID), keyList, list)
}

// GetSearch returns cached search result for query q, or nil if miss.
func (c *TodoCache) GetSearch(ctx context.Context, userID int64, q string) ([]dom.Todo, error) {
	return c.lists.Get(ctx, scope(userID), keySearch+normalizeQuery(q))
}

func (c *TodoCache) SetSearch(ctx context.Context, userID int64, q string, list []dom.Todo) error {
	return c.lists.Set(ctx, scope(userID), keySearch+normalizeQuery(q), list)
}

func (c *TodoCache) GetOverdue(ctx context.Context, userID int64) ([]dom.Todo, error) {
	return c.lists.Get(ctx, scope(userID), keyOverdue)
}

func (c *TodoCache) SetOverdue(ctx context.Context, userID int64, list []dom.Todo) error {
	return c.lists.Set(ctx, scope(userID), keyOverdue, list)
}

// InvalidateAll removes the user's list, overdue and search keys (cache invalidation on write).
func (c *TodoCache) InvalidateAll(ctx context.Context, userID int64) error {
	return c.lists.Invalidate(ctx, scope(userID))
}
