package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, DefaultLimit, ClampLimit(-3))
	assert.Equal(t, 20, ClampLimit(20))
	assert.Equal(t, MaxLimit, ClampLimit(10_000))
}

func TestBuildQuery(t *testing.T) {
	q, args := buildQuery(Filter{})
	assert.Equal(t, "SELECT Entity, EntityId, Action, ActorId, EventTime FROM audit_events ORDER BY EventTime DESC LIMIT 100", q)
	assert.Empty(t, args)

	q, args = buildQuery(Filter{Entity: "campaign", EntityID: "4", Limit: 5})
	assert.Contains(t, q, "WHERE Entity = ? AND EntityId = ?")
	assert.Contains(t, q, "LIMIT 5")
	assert.Equal(t, []any{"campaign", "4"}, args)
}
