package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackhellowin/portfolio-api/internal/services"
	"github.com/jackhellowin/portfolio-api/pkg/response"
)

type SkillHandler struct {
	skillService *services.SkillService
}

func NewSkillHandler(skillService *services.SkillService) *SkillHandler {
	return &SkillHandler{skillService: skillService}
}

// List returns all skills ordered by display order
// GET /api/skills
func (h *SkillHandler) List(c *gin.Context) {
	items, err := h.skillService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, items)
}

// GET /api/skills/:id
func (h *SkillHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "skill")
	if !ok {
		return
	}

	skill, err := h.skillService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, skill)
}

// POST /api/skills
func (h *SkillHandler) Create(c *gin.Context) {
	var req services.CreateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	skill, err := h.skillService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, skill)
}

// PUT /api/skills/:id
func (h *SkillHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "skill")
	if !ok {
		return
	}

	var req services.UpdateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	skill, err := h.skillService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, skill)
}

// DELETE /api/skills/:id
func (h *SkillHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "skill")
	if !ok {
		return
	}

	if err := h.skillService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	response.Message(c, "Skill deleted successfully")
}
