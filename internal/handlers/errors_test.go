package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"hubplus/internal/dto"
	"hubplus/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func TestRespondErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{&service.ValidationError{Field: "title", Msg: "must not be blank"}, http.StatusBadRequest},
		{&service.RenderError{Err: errors.New("missing key")}, http.StatusUnprocessableEntity},
		{service.ErrInvalidDueDate, http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("load: %w", service.ErrNotFound), http.StatusNotFound},
		{service.ErrConflict, http.StatusConflict},
		{service.ErrUsernameTaken, http.StatusConflict},
		{service.ErrAlreadyRegistered, http.StatusConflict},
		{service.ErrNotDispatchable, http.StatusConflict},
		{service.ErrVoucherUnavailable, http.StatusConflict},
		{service.ErrVoucherExpired, http.StatusGone},
		{service.ErrUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.err.Error(), body.Error)
			assert.Empty(t, c.Errors)
		})
	}
}

func TestRespondErrorHidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, errors.New("pq: connection reset"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
	require.Len(t, c.Errors, 1)
	assert.Contains(t, c.Errors.String(), "connection reset")
}

func TestParseIDAndQueryInt(t *testing.T) {
	r := gin.New()
	r.GET("/things/:id", func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		limit, ok := queryInt(c, "limit", 25)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "limit": limit})
	})

	cases := []struct {
		path   string
		status int
		body   string
	}{
		{"/things/7", http.StatusOK, `{"id":7,"limit":25}`},
		{"/things/7?limit=3", http.StatusOK, `{"id":7,"limit":3}`},
		{"/things/0", http.StatusBadRequest, `{"error":"invalid id"}`},
		{"/things/abc", http.StatusBadRequest, `{"error":"invalid id"}`},
		{"/things/7?limit=-1", http.StatusBadRequest, `{"error":"invalid limit"}`},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		assert.Equal(t, tc.status, w.Code, tc.path)
		assert.JSONEq(t, tc.body, w.Body.String(), tc.path)
	}
}
