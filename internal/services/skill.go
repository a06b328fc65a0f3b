package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackhellowin/portfolio-api/internal/models"
	"gorm.io/gorm"
)

var ErrSkillNotFound = fmt.Errorf("skill %w", ErrNotFound)

type SkillService struct {
	db *gorm.DB
}

func NewSkillService(db *gorm.DB) *SkillService {
	return &SkillService{db: db}
}

type CreateSkillRequest struct {
	Title   string   `json:"title" binding:"required,min=1,max=100"`
	Icon    string   `json:"icon" binding:"required"`
	Details []string `json:"details"`
	Order   int      `json:"order"`
}

type UpdateSkillRequest struct {
	Title   *string  `json:"title" binding:"omitempty,min=1,max=100"`
	Icon    *string  `json:"icon" binding:"omitempty,min=1"`
	Details []string `json:"details"`
	Order   *int     `json:"order"`
}

// List returns all skills by display order.
func (s *SkillService) List(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	if err := s.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&skills).Error; err != nil {
		return nil, err
	}
	for i := range skills {
		if skills[i].Details == nil {
			skills[i].Details = []string{}
		}
	}
	return skills, nil
}

func (s *SkillService) GetByID(ctx context.Context, id uint) (*models.Skill, error) {
	var skill models.Skill
	if err := s.db.WithContext(ctx).First(&skill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}
	if skill.Details == nil {
		skill.Details = []string{}
	}
	return &skill, nil
}

func (s *SkillService) Create(ctx context.Context, req *CreateSkillRequest) (*models.Skill, error) {
	details := req.Details
	if details == nil {
		details = []string{}
	}
	skill := models.Skill{
		Title:   req.Title,
		Icon:    req.Icon,
		Details: details,
		Order:   req.Order,
	}
	if err := s.db.WithContext(ctx).Create(&skill).Error; err != nil {
		return nil, err
	}
	return &skill, nil
}

func (s *SkillService) Update(ctx context.Context, id uint, req *UpdateSkillRequest) (*models.Skill, error) {
	skill, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		skill.Title = *req.Title
	}
	if req.Icon != nil {
		skill.Icon = *req.Icon
	}
	if req.Details != nil {
		skill.Details = req.Details
	}
	if req.Order != nil {
		skill.Order = *req.Order
	}

	if err := s.db.WithContext(ctx).Save(skill).Error; err != nil {
		return nil, err
	}
	return skill, nil
}

func (s *SkillService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Skill{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSkillNotFound
	}
	return nil
}
