package handlers

import (
	"net/http"

	"hubplus/internal/auth"
	dom "hubplus/internal/domain"
	"hubplus/internal/dto"
	"hubplus/internal/service"

	"github.com/gin-gonic/gin"
)

type RestrictedAddressHandler struct {
	svc *service.RestrictedAddressService
}

func NewRestrictedAddressHandler(svc *service.RestrictedAddressService) *RestrictedAddressHandler {
	return &RestrictedAddressHandler{svc: svc}
}

// Create godoc
// @Summary      Add a do-not-mail address
// @Tags         restricted-addresses
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateRestrictedAddressRequest  true  "Address"
// @Success      201   {object}  dto.RestrictedAddressResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /restricted-addresses [post]
func (h *RestrictedAddressHandler) Create(c *gin.Context) {
	var req dto.CreateRestrictedAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	a, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), req.AddressLine1, req.PostalCode, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, restrictedToResponse(a))
}

// List godoc
// @Summary      List do-not-mail addresses
// @Tags         restricted-addresses
// @Produce      json
// @Security     CookieAuth
// @Param        limit   query  int  false  "Page size"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {object}  dto.ListRestrictedAddressesResponse
// @Router       /restricted-addresses [get]
func (h *RestrictedAddressHandler) List(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 100)
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return
	}
	list, err := h.svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.RestrictedAddressResponse, len(list))
	for i := range list {
		out[i] = restrictedToResponse(list[i])
	}
	c.JSON(http.StatusOK, dto.ListRestrictedAddressesResponse{Items: out})
}

// GetByID godoc
// @Summary      Get a do-not-mail address
// @Tags         restricted-addresses
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Address ID"
// @Success      200  {object}  dto.RestrictedAddressResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /restricted-addresses/{id} [get]
func (h *RestrictedAddressHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	a, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, restrictedToResponse(a))
}

// Delete godoc
// @Summary      Remove a do-not-mail address
// @Tags         restricted-addresses
// @Security     CookieAuth
// @Param        id   path  int  true  "Address ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /restricted-addresses/{id} [delete]
func (h *RestrictedAddressHandler) Delete(c *gin.Context) {
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

// Check godoc
// @Summary      Check an address against the do-not-mail list
// @Tags         restricted-addresses
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CheckAddressRequest  true  "Address"
// @Success      200   {object}  dto.CheckAddressResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /restricted-addresses/check [post]
func (h *RestrictedAddressHandler) Check(c *gin.Context) {
	var req dto.CheckAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	match, err := h.svc.Check(c.Request.Context(), req.AddressLine1, req.PostalCode)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := dto.CheckAddressResponse{Restricted: match != nil}
	if match != nil {
		m := restrictedToResponse(*match)
		resp.Match = &m
	}
	c.JSON(http.StatusOK, resp)
}

func restrictedToResponse(a dom.RestrictedAddress) dto.RestrictedAddressResponse {
	return dto.RestrictedAddressResponse{
		ID:           a.ID,
		AddressLine1: a.AddressLine1,
		PostalCode:   a.PostalCode,
		MatchKey:     a.MatchKey,
		Reason:       a.Reason,
		CreatedAt:    a.CreatedAt,
	}
}
