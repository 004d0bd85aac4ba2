package handlers

import (
	"net/http"

	"hubplus/internal/auth"
	dom "hubplus/internal/domain"
	"hubplus/internal/dto"
	"hubplus/internal/service"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	svc *service.TemplateService
}

func NewTemplateHandler(svc *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

// Create godoc
// @Summary      Create an email template
// @Tags         email-templates
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateTemplateRequest  true  "Template"
// @Success      201   {object}  dto.TemplateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /email-templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), req.Name, req.Subject, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, templateToResponse(t))
}

// List godoc
// @Summary      List email templates
// @Tags         email-templates
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListTemplatesResponse
// @Router       /email-templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.TemplateResponse, len(list))
	for i := range list {
		out[i] = templateToResponse(list[i])
	}
	c.JSON(http.StatusOK, dto.ListTemplatesResponse{Items: out})
}

// GetByID godoc
// @Summary      Get an email template
// @Tags         email-templates
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Template ID"
// @Success      200  {object}  dto.TemplateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /email-templates/{id} [get]
func (h *TemplateHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, templateToResponse(t))
}

// Update godoc
// @Summary      Update an email template
// @Tags         email-templates
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Template ID"
// @Param        body  body      dto.UpdateTemplateRequest  true  "Partial update"
// @Success      200   {object}  dto.TemplateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /email-templates/{id} [patch]
func (h *TemplateHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, service.TemplatePatch{
		Name:    req.Name,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, templateToResponse(t))
}

// Delete godoc
// @Summary      Delete an email template
// @Tags         email-templates
// @Security     CookieAuth
// @Param        id   path  int  true  "Template ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /email-templates/{id} [delete]
func (h *TemplateHandler) Delete(c *gin.Context) {
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

// Preview godoc
// @Summary      Render a template with variables
// @Tags         email-templates
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Template ID"
// @Param        body  body      dto.PreviewTemplateRequest  true  "Variables"
// @Success      200   {object}  dto.PreviewTemplateResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse "missing variable"
// @Router       /email-templates/{id}/preview [post]
func (h *TemplateHandler) Preview(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.PreviewTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	r, err := h.svc.Preview(c.Request.Context(), id, req.Vars)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PreviewTemplateResponse{Subject: r.Subject, Body: r.Body})
}

func templateToResponse(t dom.EmailTemplate) dto.TemplateResponse {
	return dto.TemplateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Subject:   t.Subject,
		Body:      t.Body,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
