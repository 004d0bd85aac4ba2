package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"hubplus/internal/dto"
	"hubplus/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors to a status and a {"error": ...} body.
// Unknown errors become a generic 500; the cause is attached to the gin context
// and written by the request logger.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	var rerr *service.RenderError
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.As(err, &verr):
		status, msg = http.StatusBadRequest, verr.Error()
	case errors.As(err, &rerr):
		status, msg = http.StatusUnprocessableEntity, rerr.Error()
	case errors.Is(err, service.ErrInvalidDueDate):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrForbidden):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrNotDispatchable),
		errors.Is(err, service.ErrVoucherUnavailable):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrVoucherExpired):
		status, msg = http.StatusGone, err.Error()
	case errors.Is(err, service.ErrUnavailable):
		status, msg = http.StatusServiceUnavailable, err.Error()
	default:
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: msg})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}

// queryInt reads an optional non-negative integer query parameter.
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return n, true
}
