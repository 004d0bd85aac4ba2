package handlers

import (
	"net/http"

	"hubplus/internal/audit"
	"hubplus/internal/dto"
	"hubplus/internal/service"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	svc *service.AuditService
}

func NewAuditHandler(svc *service.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// List godoc
// @Summary      Read the audit log, newest first
// @Tags         audit
// @Produce      json
// @Security     CookieAuth
// @Param        entity     query  string  false  "Entity name"
// @Param        entity_id  query  string  false  "Entity ID"
// @Param        limit      query  int     false  "Max rows (default 100, max 500)"
// @Success      200  {object}  dto.ListAuditEventsResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}
	list, err := h.svc.Query(c.Request.Context(), audit.Filter{
		Entity:   c.Query("entity"),
		EntityID: c.Query("entity_id"),
		Limit:    limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.AuditEventResponse, len(list))
	for i, e := range list {
		out[i] = dto.AuditEventResponse{
			Entity:    e.Entity,
			EntityID:  e.EntityID,
			Action:    e.Action,
			ActorID:   e.ActorID,
			EventTime: e.EventTime,
		}
	}
	c.JSON(http.StatusOK, dto.ListAuditEventsResponse{Items: out})
}
