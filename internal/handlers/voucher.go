package handlers

import (
	"net/http"

	"hubplus/internal/auth"
	dom "hubplus/internal/domain"
	"hubplus/internal/dto"
	"hubplus/internal/service"

	"github.com/gin-gonic/gin"
)

type VoucherHandler struct {
	svc *service.VoucherService
}

func NewVoucherHandler(svc *service.VoucherService) *VoucherHandler {
	return &VoucherHandler{svc: svc}
}

// Generate godoc
// @Summary      Generate voucher codes for a campaign
// @Tags         vouchers
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Campaign ID"
// @Param        body  body      dto.GenerateVouchersRequest  true  "Batch"
// @Success      201   {object}  dto.ListVouchersResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /campaigns/{id}/vouchers [post]
func (h *VoucherHandler) Generate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.GenerateVouchersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	list, err := h.svc.Generate(c.Request.Context(), auth.UserIDFromContext(c), id,
		req.Count, req.ValueCents, req.ExpiresAt.Ptr())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ListVouchersResponse{Items: vouchersToResponses(list)})
}

// ListByCampaign godoc
// @Summary      List a campaign's vouchers
// @Tags         vouchers
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Campaign ID"
// @Success      200  {object}  dto.ListVouchersResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /campaigns/{id}/vouchers [get]
func (h *VoucherHandler) ListByCampaign(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.ListByCampaign(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListVouchersResponse{Items: vouchersToResponses(list)})
}

// GetByCode godoc
// @Summary      Look up a voucher
// @Tags         vouchers
// @Produce      json
// @Security     CookieAuth
// @Param        code  path      string  true  "Voucher code"
// @Success      200   {object}  dto.VoucherResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /vouchers/{code} [get]
func (h *VoucherHandler) GetByCode(c *gin.Context) {
	v, err := h.svc.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, voucherToResponse(v))
}

// Redeem godoc
// @Summary      Redeem a voucher for the current user
// @Tags         vouchers
// @Produce      json
// @Security     CookieAuth
// @Param        code  path      string  true  "Voucher code"
// @Success      200   {object}  dto.VoucherResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse "already redeemed or void"
// @Failure      410   {object}  dto.ErrorResponse "expired"
// @Router       /vouchers/{code}/redeem [post]
func (h *VoucherHandler) Redeem(c *gin.Context) {
	v, err := h.svc.Redeem(c.Request.Context(), auth.UserIDFromContext(c), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, voucherToResponse(v))
}

// Void godoc
// @Summary      Void an available voucher
// @Tags         vouchers
// @Produce      json
// @Security     CookieAuth
// @Param        code  path      string  true  "Voucher code"
// @Success      200   {object}  dto.VoucherResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /vouchers/{code}/void [post]
func (h *VoucherHandler) Void(c *gin.Context) {
	v, err := h.svc.Void(c.Request.Context(), auth.UserIDFromContext(c), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, voucherToResponse(v))
}

func voucherToResponse(v dom.Voucher) dto.VoucherResponse {
	return dto.VoucherResponse{
		ID:         v.ID,
		CampaignID: v.CampaignID,
		Code:       v.Code,
		Status:     v.Status,
		ValueCents: v.ValueCents,
		ExpiresAt:  v.ExpiresAt,
		RedeemedBy: v.RedeemedBy,
		RedeemedAt: v.RedeemedAt,
		CreatedAt:  v.CreatedAt,
	}
}

func vouchersToResponses(list []dom.Voucher) []dto.VoucherResponse {
	out := make([]dto.VoucherResponse, len(list))
	for i := range list {
		out[i] = voucherToResponse(list[i])
	}
	return out
}
