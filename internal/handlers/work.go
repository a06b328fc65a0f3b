package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackhellowin/portfolio-api/internal/services"
	"github.com/jackhellowin/portfolio-api/pkg/response"
)

type WorkHandler struct {
	workService *services.WorkService
}

func NewWorkHandler(workService *services.WorkService) *WorkHandler {
	return &WorkHandler{workService: workService}
}

// List returns a page of works, newest first
// GET /api/works?page=1&limit=10
func (h *WorkHandler) List(c *gin.Context) {
	var req services.WorkListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		invalidInput(c, err)
		return
	}

	works, page, err := h.workService.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessWithMeta(c, works, gin.H{"pagination": page})
}

// GET /api/works/:id
func (h *WorkHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "work")
	if !ok {
		return
	}

	work, err := h.workService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, work)
}

// POST /api/works
func (h *WorkHandler) Create(c *gin.Context) {
	var req services.CreateWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	work, err := h.workService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, work)
}

// PUT /api/works/:id
func (h *WorkHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "work")
	if !ok {
		return
	}

	var req services.UpdateWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	work, err := h.workService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, work)
}

// DELETE /api/works/:id
func (h *WorkHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "work")
	if !ok {
		return
	}

	if err := h.workService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	response.Message(c, "Work deleted successfully")
}
