package dto

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest is the JSON body for POST /auth/register.
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=1,max=120"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// UserResponse is returned when user info is needed (e.g. after login).
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type AuthResponse struct {
	OK   bool         `json:"ok"`
	User UserResponse `json:"user"`
}
