package handlers

import (
	"net/http"

	"hubplus/internal/auth"
	dom "hubplus/internal/domain"
	"hubplus/internal/dto"
	"hubplus/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles login, register, logout and the current-user lookup.
type AuthHandler struct {
	sessions *auth.Store
	userSvc  *service.UserService
}

func NewAuthHandler(sessions *auth.Store, userSvc *service.UserService) *AuthHandler {
	return &AuthHandler{sessions: sessions, userSvc: userSvc}
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.userSvc.ValidateCredentials(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.startSession(c, user) {
		return
	}
	c.JSON(http.StatusOK, dto.AuthResponse{OK: true, User: userToResponse(user)})
}

// Register godoc
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "Credentials"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.userSvc.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.startSession(c, user) {
		return
	}
	c.JSON(http.StatusCreated, dto.AuthResponse{OK: true, User: userToResponse(user)})
}

// Logout godoc
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, err := c.Cookie(auth.SessionCookieName)
	if err == nil && sessionID != "" {
		_ = h.sessions.Delete(c.Request.Context(), sessionID)
	}
	c.SetCookie(auth.SessionCookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.userSvc.GetByID(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *AuthHandler) startSession(c *gin.Context, user dom.User) bool {
	sessionID, err := h.sessions.Create(c.Request.Context(), auth.Principal{UserID: user.ID, Role: user.Role})
	if err != nil {
		respondError(c, err)
		return false
	}
	c.SetCookie(auth.SessionCookieName, sessionID, int(h.sessions.TTL().Seconds()), "/", "", false, true)
	return true
}

func userToResponse(u dom.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Username: u.Username, Role: u.Role}
}
