package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackhellowin/portfolio-api/internal/services"
	"github.com/jackhellowin/portfolio-api/pkg/response"
)

type SelfContentHandler struct {
	selfContentService *services.SelfContentService
}

func NewSelfContentHandler(selfContentService *services.SelfContentService) *SelfContentHandler {
	return &SelfContentHandler{selfContentService: selfContentService}
}

// GET /api/self-content
func (h *SelfContentHandler) Get(c *gin.Context) {
	content, err := h.selfContentService.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, content)
}

// Save replaces the self content, creating it if needed
// POST /api/self-content
func (h *SelfContentHandler) Save(c *gin.Context) {
	var req services.SaveSelfContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	content, err := h.selfContentService.Save(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, content)
}

// Update changes only the provided fields
// PUT /api/self-content
func (h *SelfContentHandler) Update(c *gin.Context) {
	var req services.UpdateSelfContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	content, err := h.selfContentService.Update(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, content)
}
