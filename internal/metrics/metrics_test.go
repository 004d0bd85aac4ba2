package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGinMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Gin())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/items/1", "/items/2", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/items/:id", "GET", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("unmatched", "GET", "404")))
}

func TestBatchAndHandler(t *testing.T) {
	m := New()
	m.Batch(false)
	m.Batch(true)
	m.Batch(false)
	var nilMetrics *Metrics
	nilMetrics.Batch(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.batches.WithLabelValues("ok")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `hubplus_worker_batches_total{outcome="failed"} 1`))
}
