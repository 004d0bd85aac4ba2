package handlers

import (
	"net/http"

	dom "hubplus/internal/domain"
	"hubplus/internal/dto"
	"hubplus/internal/service"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	svc *service.JobService
}

func NewJobHandler(svc *service.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

// GetByID godoc
// @Summary      Poll a processing job
// @Tags         jobs
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Job ID (uuid)"
// @Success      200  {object}  dto.JobResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetByID(c *gin.Context) {
	job, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobToResponse(job))
}

func jobToResponse(j dom.ProcessingJob) dto.JobResponse {
	return dto.JobResponse{
		ID:         j.ID,
		Kind:       j.Kind,
		CampaignID: j.CampaignID,
		Status:     string(j.Status),
		Total:      j.Total,
		Processed:  j.Processed,
		Error:      j.Error,
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
	}
}
