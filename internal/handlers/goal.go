package handlers

import (
	"net/http"

	"hubplus/internal/auth"
	dom "hubplus/internal/domain"
	"hubplus/internal/dto"
	"hubplus/internal/service"

	"github.com/gin-gonic/gin"
)

type GoalHandler struct {
	svc *service.GoalService
}

func NewGoalHandler(svc *service.GoalService) *GoalHandler {
	return &GoalHandler{svc: svc}
}

// Create godoc
// @Summary      Create a goal
// @Tags         goals
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateGoalRequest  true  "Goal body"
// @Success      201   {object}  dto.GoalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	var req dto.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	g, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), req.Title, req.Description, req.TargetDate.Ptr())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, goalToResponse(g))
}

// List godoc
// @Summary      List the caller's goals
// @Tags         goals
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListGoalsResponse
// @Router       /goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.GoalResponse, len(list))
	for i := range list {
		out[i] = goalToResponse(list[i])
	}
	c.JSON(http.StatusOK, dto.ListGoalsResponse{Items: out})
}

// GetByID godoc
// @Summary      Get a goal
// @Tags         goals
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Goal ID"
// @Success      200  {object}  dto.GoalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /goals/{id} [get]
func (h *GoalHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	g, err := h.svc.GetByID(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goalToResponse(g))
}

// Update godoc
// @Summary      Update a goal
// @Tags         goals
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Goal ID"
// @Param        body  body      dto.UpdateGoalRequest  true  "Partial update"
// @Success      200   {object}  dto.GoalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /goals/{id} [patch]
func (h *GoalHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	g, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, service.GoalPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		TargetDate:  dto.PtrOf(req.TargetDate),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goalToResponse(g))
}

// Delete godoc
// @Summary      Delete a goal; linked todos are kept and unlinked
// @Tags         goals
// @Security     CookieAuth
// @Param        id   path  int  true  "Goal ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Complete godoc
// @Summary      Mark a goal completed
// @Tags         goals
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Goal ID"
// @Success      200  {object}  dto.GoalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /goals/{id}/complete [post]
func (h *GoalHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	g, err := h.svc.Complete(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goalToResponse(g))
}

// Progress godoc
// @Summary      Goal progress from linked todos
// @Tags         goals
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Goal ID"
// @Success      200  {object}  dto.GoalProgressResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /goals/{id}/progress [get]
func (h *GoalHandler) Progress(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Progress(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GoalProgressResponse{Total: p.Total, Done: p.Done, Percent: p.Percent()})
}

// Todos godoc
// @Summary      Todos linked to a goal
// @Tags         goals
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Goal ID"
// @Success      200  {object}  dto.ListTodosResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /goals/{id}/todos [get]
func (h *GoalHandler) Todos(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.Todos(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTodosResponse{Items: todosToResponses(list)})
}

func goalToResponse(g dom.Goal) dto.GoalResponse {
	return dto.GoalResponse{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Status:      g.Status,
		TargetDate:  g.TargetDate,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}
