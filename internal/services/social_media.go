package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackhellowin/portfolio-api/internal/models"
	"gorm.io/gorm"
)

var ErrSocialMediaNotFound = fmt.Errorf("social media link %w", ErrNotFound)

type SocialMediaService struct {
	db *gorm.DB
}

func NewSocialMediaService(db *gorm.DB) *SocialMediaService {
	return &SocialMediaService{db: db}
}

type CreateSocialMediaRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Link  string `json:"link" binding:"required,url"`
	Order int    `json:"order"`
}

type UpdateSocialMediaRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Link  *string `json:"link" binding:"omitempty,url"`
	Order *int    `json:"order"`
}

func (s *SocialMediaService) List(ctx context.Context) ([]models.SocialMedia, error) {
	links := []models.SocialMedia{}
	if err := s.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (s *SocialMediaService) GetByID(ctx context.Context, id uint) (*models.SocialMedia, error) {
	var link models.SocialMedia
	if err := s.db.WithContext(ctx).First(&link, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSocialMediaNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (s *SocialMediaService) Create(ctx context.Context, req *CreateSocialMediaRequest) (*models.SocialMedia, error) {
	link := models.SocialMedia{Name: req.Name, Link: req.Link, Order: req.Order}
	if err := s.db.WithContext(ctx).Create(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (s *SocialMediaService) Update(ctx context.Context, id uint, req *UpdateSocialMediaRequest) (*models.SocialMedia, error) {
	link, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		link.Name = *req.Name
	}
	if req.Link != nil {
		link.Link = *req.Link
	}
	if req.Order != nil {
		link.Order = *req.Order
	}

	if err := s.db.WithContext(ctx).Save(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

func (s *SocialMediaService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.SocialMedia{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSocialMediaNotFound
	}
	return nil
}
