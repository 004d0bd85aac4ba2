package handlers

import (
	"net/http"
	"strconv"

	"hubplus/internal/auth"
	dom "hubplus/internal/domain"
	"hubplus/internal/dto"
	"hubplus/internal/service"

	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	svc *service.CampaignService
}

func NewCampaignHandler(svc *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{svc: svc}
}

// Create godoc
// @Summary      Create a campaign
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateCampaignRequest  true  "Campaign"
// @Success      201   {object}  dto.CampaignResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /campaigns [post]
func (h *CampaignHandler) Create(c *gin.Context) {
	var req dto.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), service.CampaignInput{
		Name:        req.Name,
		Channel:     req.Channel,
		TemplateID:  req.TemplateID,
		ScheduledAt: req.ScheduledAt.Ptr(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, campaignToResponse(out))
}

// List godoc
// @Summary      List campaigns
// @Tags         campaigns
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListCampaignsResponse
// @Router       /campaigns [get]
func (h *CampaignHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.CampaignResponse, len(list))
	for i := range list {
		out[i] = campaignToResponse(list[i])
	}
	c.JSON(http.StatusOK, dto.ListCampaignsResponse{Items: out})
}

// GetByID godoc
// @Summary      Get a campaign with its resolved status
// @Tags         campaigns
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Campaign ID"
// @Success      200  {object}  dto.CampaignResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /campaigns/{id} [get]
func (h *CampaignHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	out, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaignToResponse(out))
}

// Update godoc
// @Summary      Update a draft or scheduled campaign
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Campaign ID"
// @Param        body  body      dto.UpdateCampaignRequest  true  "Partial update"
// @Success      200   {object}  dto.CampaignResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /campaigns/{id} [patch]
func (h *CampaignHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, service.CampaignPatch{
		Name:          req.Name,
		Channel:       req.Channel,
		TemplateID:    req.TemplateID,
		ScheduledAt:   dto.PtrOf(req.ScheduledAt),
		ClearSchedule: req.ClearSchedule,
		ClearTemplate: req.ClearTemplate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaignToResponse(out))
}

// Delete godoc
// @Summary      Delete a campaign
// @Tags         campaigns
// @Security     CookieAuth
// @Param        id   path  int  true  "Campaign ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /campaigns/{id} [delete]
func (h *CampaignHandler) Delete(c *gin.Context) {
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

// Cancel godoc
// @Summary      Cancel a campaign; a running job stops at the next batch
// @Tags         campaigns
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Campaign ID"
// @Success      200  {object}  dto.CampaignResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /campaigns/{id}/cancel [post]
func (h *CampaignHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	out, err := h.svc.Cancel(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaignToResponse(out))
}

// Dispatch godoc
// @Summary      Enqueue campaign processing
// @Description  Returns the job to poll at /jobs/{id}.
// @Tags         campaigns
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Campaign ID"
// @Success      202  {object}  dto.JobResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /campaigns/{id}/dispatch [post]
func (h *CampaignHandler) Dispatch(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	job, err := h.svc.Dispatch(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", "/api/v1/jobs/"+job.ID)
	c.JSON(http.StatusAccepted, jobToResponse(job))
}

// AddRecipients godoc
// @Summary      Bulk-add recipients
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Campaign ID"
// @Param        body  body      dto.AddRecipientsRequest  true  "Recipients"
// @Success      201   {object}  dto.AddRecipientsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /campaigns/{id}/recipients [post]
func (h *CampaignHandler) AddRecipients(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AddRecipientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	list := make([]dom.Recipient, len(req.Recipients))
	for i, r := range req.Recipients {
		list[i] = dom.Recipient{
			Email:        r.Email,
			Name:         r.Name,
			AddressLine1: r.AddressLine1,
			PostalCode:   r.PostalCode,
		}
	}
	n, err := h.svc.AddRecipients(c.Request.Context(), auth.UserIDFromContext(c), id, list)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.AddRecipientsResponse{Added: n})
}

// ListRecipients godoc
// @Summary      Page through recipients
// @Tags         campaigns
// @Produce      json
// @Security     CookieAuth
// @Param        id     path   int  true   "Campaign ID"
// @Param        after  query  int  false  "Cursor from next_after"
// @Param        limit  query  int  false  "Page size (max 500)"
// @Success      200  {object}  dto.ListRecipientsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /campaigns/{id}/recipients [get]
func (h *CampaignHandler) ListRecipients(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	after, ok := queryInt(c, "after", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 100)
	if !ok {
		return
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	list, err := h.svc.ListRecipients(c.Request.Context(), id, int64(after), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := dto.ListRecipientsResponse{Items: make([]dto.RecipientResponse, len(list))}
	for i, r := range list {
		resp.Items[i] = dto.RecipientResponse{
			ID:           r.ID,
			Email:        r.Email,
			Name:         r.Name,
			AddressLine1: r.AddressLine1,
			PostalCode:   r.PostalCode,
			Status:       r.Status,
		}
	}
	if len(list) > 0 && len(list) == limit {
		resp.NextAfter = list[len(list)-1].ID
	}
	c.Header("X-Next-After", strconv.FormatInt(resp.NextAfter, 10))
	c.JSON(http.StatusOK, resp)
}

func campaignToResponse(x dom.Campaign) dto.CampaignResponse {
	return dto.CampaignResponse{
		ID:               x.ID,
		Name:             x.Name,
		Channel:          x.Channel,
		Status:           string(x.Status),
		TemplateID:       x.TemplateID,
		ScheduledAt:      x.ScheduledAt,
		TotalBatches:     x.TotalBatches,
		ProcessedBatches: x.ProcessedBatches,
		FailedBatches:    x.FailedBatches,
		CancelledAt:      x.CancelledAt,
		CreatedAt:        x.CreatedAt,
		UpdatedAt:        x.UpdatedAt,
	}
}
