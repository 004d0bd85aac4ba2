package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("prod", "loud")
	assert.Error(t, err)

	l, err := New("prod", "debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))
}

func TestGinLogsAndSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)

	r := gin.New()
	r.Use(Gin(zap.New(core)))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)
	assert.Equal(t, int64(http.StatusTeapot), entry.ContextMap()["status"])
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)

	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}
