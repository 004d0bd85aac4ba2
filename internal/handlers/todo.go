package handlers

import (
	"net/http"

	"hubplus/internal/auth"
	dom "hubplus/internal/domain"
	"hubplus/internal/dto"
	"hubplus/internal/service"

	"github.com/gin-gonic/gin"
)

type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c),
		req.Title, req.Description, req.DueAt.Ptr(), req.GoalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todoToResponse(t))
}

// List godoc
// @Summary      List the caller's todos
// @Tags         todos
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListTodosResponse
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTodosResponse{Items: todosToResponses(list)})
}

// GetByID godoc
// @Summary      Get a todo by ID
// @Tags         todos
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /todos/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Update godoc
// @Summary      Update a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Todo ID"
// @Param        body  body      dto.UpdateTodoRequest  true  "Partial update"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /todos/{id} [patch]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, service.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		DueAt:       dto.PtrOf(req.DueAt),
		IsDone:      req.IsDone,
		GoalID:      req.GoalID,
		ClearGoal:   req.ClearGoal,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todos
// @Security     CookieAuth
// @Param        id   path  int  true  "Todo ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
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
// @Summary      Mark a todo as done
// @Tags         todos
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /todos/{id}/complete [post]
func (h *TodoHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.Complete(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Search godoc
// @Summary      Search todos by title or description
// @Tags         todos
// @Produce      json
// @Security     CookieAuth
// @Param        q    query     string  true  "Search query"
// @Success      200  {object}  dto.ListTodosResponse
// @Router       /todos/search [get]
func (h *TodoHandler) Search(c *gin.Context) {
	list, err := h.svc.Search(c.Request.Context(), auth.UserIDFromContext(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTodosResponse{Items: todosToResponses(list)})
}

// Overdue godoc
// @Summary      List overdue todos
// @Tags         todos
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListTodosResponse
// @Router       /todos/overdue [get]
func (h *TodoHandler) Overdue(c *gin.Context) {
	list, err := h.svc.Overdue(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTodosResponse{Items: todosToResponses(list)})
}

func todoToResponse(t dom.Todo) dto.TodoResponse {
	return dto.TodoResponse{
		ID:          t.ID,
		GoalID:      t.GoalID,
		Title:       t.Title,
		Description: t.Description,
		IsDone:      t.IsDone,
		DueAt:       t.DueAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func todosToResponses(list []dom.Todo) []dto.TodoResponse {
	out := make([]dto.TodoResponse, len(list))
	for i := range list {
		out[i] = todoToResponse(list[i])
	}
	return out
}
