package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ListCache stores JSON-encoded slices under "<prefix>:<scope>:<name>".
// A scope groups keys that are invalidated together (e.g. one user's todos).
type ListCache[T any] struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewListCache[T any](rdb *redis.Client, prefix string, ttl time.Duration) *ListCache[T] {
	return &ListCache[T]{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (c *ListCache[T]) key(scope, name string) string {
	return c.prefix + ":" + scope + ":" + name
}

// Get returns the cached list, or nil on miss. An empty cached list is returned as non-nil.
func (c *ListCache[T]) Get(ctx context.Context, scope, name string) ([]T, error) {
	b, err := c.rdb.Get(ctx, c.key(scope, name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list := []T{}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *ListCache[T]) Set(ctx context.Context, scope, name string, list []T) error {
	if list == nil {
		list = []T{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(scope, name), b, c.ttl).Err()
}

// Invalidate removes every key of the scope.
func (c *ListCache[T]) Invalidate(ctx context.Context, scope string) error {
	iter := c.rdb.Scan(ctx, 0, c.key(scope, "*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func normalizeQuery(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
