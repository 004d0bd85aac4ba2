package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexTimeDateOnlyIsUTCMidnight(t *testing.T) {
	var req CreateTodoRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","due_at":"2026-02-19"}`), &req))
	require.NotNil(t, req.DueAt.Ptr())
	assert.Equal(t, time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC), *req.DueAt.Ptr())
}

func TestFlexTimeRFC3339(t *testing.T) {
	var req CreateTodoRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","due_at":"2026-02-19T10:30:00+02:00"}`), &req))
	assert.True(t, req.DueAt.Ptr().Equal(time.Date(2026, 2, 19, 8, 30, 0, 0, time.UTC)))
}

func TestFlexTimeEmptyAndNull(t *testing.T) {
	var req CreateTodoRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","due_at":""}`), &req))
	assert.Nil(t, req.DueAt.Ptr())

	var upd UpdateTodoRequest
	require.NoError(t, json.Unmarshal([]byte(`{"due_at":null}`), &upd))
	assert.Nil(t, upd.DueAt)
	assert.False(t, upd.DueAt.Set())
	assert.Nil(t, PtrOf(upd.DueAt))
}

func TestFlexTimeRejectsGarbage(t *testing.T) {
	var req CreateTodoRequest
	err := json.Unmarshal([]byte(`{"title":"x","due_at":"next tuesday"}`), &req)
	assert.ErrorContains(t, err, "YYYY-MM-DD")
}
