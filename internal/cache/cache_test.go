package cache

import (
	"context"
	"testing"
	"time"

	dom "hubplus/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestListCacheMissHitAndEmpty(t *testing.T) {
	_, rdb := newRedis(t)
	ctx := context.Background()
	c := NewListCache[dom.Todo](rdb, "todo", time.Minute)

	got, err := c.Get(ctx, "all", "list")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "all", "list", nil))
	got, err = c.Get(ctx, "all", "list")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	require.NoError(t, c.Set(ctx, "all", "list", []dom.Todo{{ID: 7, Title: "spring"}}))
	got, err = c.Get(ctx, "all", "list")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "spring", got[0].Title)
}

func TestListCacheTTL(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()
	c := NewListCache[int](rdb, "n", time.Minute)

	require.NoError(t, c.Set(ctx, "s", "k", []int{1, 2}))
	mr.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, "s", "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTodoCacheInvalidateIsPerUser(t *testing.T) {
	mr, rdb := newRedis(t)
	ctx := context.Background()
	c := NewTodoCache(rdb, time.Minute)

	todos := []dom.Todo{{ID: 1, Title: "write report"}}
	require.NoError(t, c.SetList(ctx, 1, todos))
	require.NoError(t, c.SetOverdue(ctx, 1, todos))
	require.NoError(t, c.SetSearch(ctx, 1, "  Report ", todos))
	require.NoError(t, c.SetList(ctx, 2, todos))

	hit, err := c.GetSearch(ctx, 1, "report")
	require.NoError(t, err)
	assert.Len(t, hit, 1, "query is normalized")

	require.NoError(t, c.InvalidateAll(ctx, 1))

	for _, k := range []string{"todo:1:list", "todo:1:overdue", "todo:1:search:report"} {
		assert.False(t, mr.Exists(k), k)
	}
	assert.True(t, mr.Exists("todo:2:list"))
}
