package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackhellowin/portfolio-api/internal/config"
	"github.com/jackhellowin/portfolio-api/internal/middleware"
	"github.com/jackhellowin/portfolio-api/internal/services"
	"github.com/jackhellowin/portfolio-api/pkg/response"
)

// RefreshCookieName is the HttpOnly cookie carrying the refresh token.
const RefreshCookieName = "refresh_token"

type AuthHandler struct {
	authService *services.AuthService
	cookie      config.CookieConfig
}

func NewAuthHandler(authService *services.AuthService, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidInput, "Username and password are required")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password, services.RefreshTokenMeta{
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, int(h.authService.RefreshTTL().Seconds()))

	data := gin.H{
		"user":         result.User,
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	}
	if result.User.IsEnvAdmin() {
		data["isEnvAdmin"] = true
	}
	response.Success(c, data)
}

// Refresh issues a new access token
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := h.presentedRefreshToken(c)
	if token == "" {
		response.Unauthorized(c, response.CodeInvalidToken, "Refresh token is required")
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"accessToken": result.AccessToken})
}

// Logout revokes the refresh token and clears the cookie. Always 200.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.authService.Logout(c.Request.Context(), h.presentedRefreshToken(c))
	h.setRefreshCookie(c, "", -1)
	response.Message(c, "Logged out successfully")
}

// GetCurrentUser returns the current logged-in user
// GET /api/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		response.Unauthorized(c, response.CodeUnauthorized, "Authentication required")
		return
	}
	response.Success(c, gin.H{"user": principal})
}

// ChangePassword replaces the caller's password and ends all its sessions
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), middleware.GetPrincipal(c), req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, "", -1)
	response.Message(c, "Password changed successfully")
}

// presentedRefreshToken prefers the JSON body and falls back to the cookie.
func (h *AuthHandler) presentedRefreshToken(c *gin.Context) string {
	var req refreshRequest
	if c.Request.ContentLength != 0 {
		_ = c.ShouldBindJSON(&req)
	}
	if req.RefreshToken != "" {
		return req.RefreshToken
	}
	token, _ := c.Cookie(RefreshCookieName)
	return token
}

// setRefreshCookie writes the refresh cookie. A negative maxAge deletes it.
func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(RefreshCookieName, value, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}
