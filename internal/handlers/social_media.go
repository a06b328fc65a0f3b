package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackhellowin/portfolio-api/internal/services"
	"github.com/jackhellowin/portfolio-api/pkg/response"
)

type SocialMediaHandler struct {
	socialService *services.SocialMediaService
}

func NewSocialMediaHandler(socialService *services.SocialMediaService) *SocialMediaHandler {
	return &SocialMediaHandler{socialService: socialService}
}

// List returns all social media links ordered by display order
// GET /api/social-media
func (h *SocialMediaHandler) List(c *gin.Context) {
	items, err := h.socialService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, items)
}

// GET /api/social-media/:id
func (h *SocialMediaHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "social media")
	if !ok {
		return
	}

	item, err := h.socialService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, item)
}

// POST /api/social-media
func (h *SocialMediaHandler) Create(c *gin.Context) {
	var req services.CreateSocialMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	item, err := h.socialService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, item)
}

// PUT /api/social-media/:id
func (h *SocialMediaHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "social media")
	if !ok {
		return
	}

	var req services.UpdateSocialMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	item, err := h.socialService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, item)
}

// DELETE /api/social-media/:id
func (h *SocialMediaHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "social media")
	if !ok {
		return
	}

	if err := h.socialService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	response.Message(c, "Social media link deleted successfully")
}
