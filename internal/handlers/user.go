package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackhellowin/portfolio-api/internal/middleware"
	"github.com/jackhellowin/portfolio-api/internal/models"
	"github.com/jackhellowin/portfolio-api/internal/services"
	"github.com/jackhellowin/portfolio-api/pkg/response"
)

type UserHandler struct {
	userService *services.UserService
	authService *services.AuthService
}

func NewUserHandler(userService *services.UserService, authService *services.AuthService) *UserHandler {
	return &UserHandler{userService: userService, authService: authService}
}

type createdUser struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// List returns all stored users
// GET /api/admin/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"users": users})
}

// Create adds a stored user
// POST /api/admin/users
func (h *UserHandler) Create(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), &req, middleware.GetPrincipal(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, gin.H{"user": toCreatedUser(user)})
}

// Delete removes a stored user
// DELETE /api/admin/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id, middleware.GetPrincipal(c)); err != nil {
		respondError(c, err)
		return
	}
	response.Message(c, "User deleted successfully")
}

// RevokeSessions revokes every refresh token of a user
// POST /api/admin/users/:id/revoke-sessions
func (h *UserHandler) RevokeSessions(c *gin.Context) {
	id, ok := parseID(c, "user")
	if !ok {
		return
	}

	revoked, err := h.authService.RevokeAllForUser(c.Request.Context(), id, middleware.GetPrincipal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"revoked": revoked})
}

func toCreatedUser(u *models.User) createdUser {
	return createdUser{ID: u.ID, Username: u.Username, Role: u.Role, CreatedAt: u.CreatedAt}
}
