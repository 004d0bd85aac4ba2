package handlers

import (
	"net/http"

	"hubplus/internal/auth"
	dom "hubplus/internal/domain"
	"hubplus/internal/dto"
	"hubplus/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	svc *service.EventService
}

func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// CreateSession godoc
// @Summary      Create an event session
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateSessionRequest  true  "Session"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /event-sessions [post]
func (h *EventHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !req.StartsAt.Set() || !req.EndsAt.Set() {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "starts_at and ends_at are required"})
		return
	}
	s, err := h.svc.CreateSession(c.Request.Context(), auth.UserIDFromContext(c),
		req.Title, *req.StartsAt.Ptr(), *req.EndsAt.Ptr(), req.Capacity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionToResponse(s))
}

// ListSessions godoc
// @Summary      List event sessions
// @Tags         events
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListSessionsResponse
// @Router       /event-sessions [get]
func (h *EventHandler) ListSessions(c *gin.Context) {
	list, err := h.svc.ListSessions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.SessionResponse, len(list))
	for i := range list {
		out[i] = sessionToResponse(list[i])
	}
	c.JSON(http.StatusOK, dto.ListSessionsResponse{Items: out})
}

// GetSession godoc
// @Summary      Get an event session
// @Tags         events
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Session ID"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /event-sessions/{id} [get]
func (h *EventHandler) GetSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	s, err := h.svc.GetSession(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionToResponse(s))
}

// UpdateSession godoc
// @Summary      Update an event session
// @Description  Lowering capacity does not demote confirmed registrations.
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Session ID"
// @Param        body  body      dto.UpdateSessionRequest  true  "Partial update"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /event-sessions/{id} [patch]
func (h *EventHandler) UpdateSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.svc.UpdateSession(c.Request.Context(), auth.UserIDFromContext(c), id, service.SessionPatch{
		Title:    req.Title,
		StartsAt: dto.PtrOf(req.StartsAt),
		EndsAt:   dto.PtrOf(req.EndsAt),
		Capacity: req.Capacity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionToResponse(s))
}

// DeleteSession godoc
// @Summary      Delete an event session
// @Tags         events
// @Security     CookieAuth
// @Param        id   path  int  true  "Session ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /event-sessions/{id} [delete]
func (h *EventHandler) DeleteSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteSession(c.Request.Context(), auth.UserIDFromContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Register godoc
// @Summary      Register for a session
// @Description  Confirmed while seats remain, otherwise waitlisted with a position.
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Session ID"
// @Param        body  body      dto.CreateRegistrationRequest  true  "Attendee"
// @Success      201   {object}  dto.RegistrationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /event-sessions/{id}/registrations [post]
func (h *EventHandler) Register(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	reg, err := h.svc.Register(c.Request.Context(), auth.UserIDFromContext(c), id, req.Email, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, registrationToResponse(reg))
}

// ListRegistrations godoc
// @Summary      List registrations with waitlist positions
// @Tags         events
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Session ID"
// @Success      200  {object}  dto.ListRegistrationsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /event-sessions/{id}/registrations [get]
func (h *EventHandler) ListRegistrations(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.ListRegistrations(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.RegistrationResponse, len(list))
	for i := range list {
		out[i] = registrationToResponse(list[i])
	}
	c.JSON(http.StatusOK, dto.ListRegistrationsResponse{Items: out})
}

// CancelRegistration godoc
// @Summary      Cancel a registration and promote from the waitlist
// @Tags         events
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Session ID"
// @Param        rid  path      int  true  "Registration ID"
// @Success      200  {object}  dto.CancelRegistrationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /event-sessions/{id}/registrations/{rid} [delete]
func (h *EventHandler) CancelRegistration(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rid, ok := parseID(c, "rid")
	if !ok {
		return
	}
	cancelled, promoted, err := h.svc.CancelRegistration(c.Request.Context(), auth.UserIDFromContext(c), id, rid)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := dto.CancelRegistrationResponse{Cancelled: registrationToResponse(cancelled)}
	if promoted != nil {
		p := registrationToResponse(*promoted)
		resp.Promoted = &p
	}
	c.JSON(http.StatusOK, resp)
}

func sessionToResponse(s dom.EventSession) dto.SessionResponse {
	return dto.SessionResponse{
		ID:        s.ID,
		Title:     s.Title,
		StartsAt:  s.StartsAt,
		EndsAt:    s.EndsAt,
		Capacity:  s.Capacity,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func registrationToResponse(r dom.Registration) dto.RegistrationResponse {
	return dto.RegistrationResponse{
		ID:        r.ID,
		SessionID: r.SessionID,
		Email:     r.Email,
		Name:      r.Name,
		Status:    r.Status,
		Position:  r.Position,
		CreatedAt: r.CreatedAt,
	}
}
