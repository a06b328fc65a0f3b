package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackhellowin/portfolio-api/internal/models"
	"gorm.io/gorm"
)

var ErrSelfContentNotFound = fmt.Errorf("self content %w", ErrNotFound)

// SelfContentService manages the single self-introduction row.
type SelfContentService struct {
	db *gorm.DB
}

func NewSelfContentService(db *gorm.DB) *SelfContentService {
	return &SelfContentService{db: db}
}

type SaveSelfContentRequest struct {
	BriefIntro string   `json:"briefIntro"`
	About      string   `json:"about"`
	HashTags   []string `json:"hashTags"`
}

type UpdateSelfContentRequest struct {
	BriefIntro *string  `json:"briefIntro"`
	About      *string  `json:"about"`
	HashTags   []string `json:"hashTags"`
}

// Get returns the first self content row.
func (s *SelfContentService) Get(ctx context.Context) (*models.SelfContent, error) {
	var content models.SelfContent
	if err := s.db.WithContext(ctx).Order("id ASC").First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSelfContentNotFound
		}
		return nil, err
	}
	if content.HashTags == nil {
		content.HashTags = []string{}
	}
	return &content, nil
}

// Save replaces the self content, creating the row when none exists.
func (s *SelfContentService) Save(ctx context.Context, req *SaveSelfContentRequest) (*models.SelfContent, error) {
	content, err := s.Get(ctx)
	if errors.Is(err, ErrSelfContentNotFound) {
		content = &models.SelfContent{}
	} else if err != nil {
		return nil, err
	}

	content.BriefIntro = req.BriefIntro
	content.About = req.About
	content.HashTags = req.HashTags
	if content.HashTags == nil {
		content.HashTags = []string{}
	}

	if err := s.db.WithContext(ctx).Save(content).Error; err != nil {
		return nil, err
	}
	return content, nil
}

// Update changes the provided fields of the existing self content.
func (s *SelfContentService) Update(ctx context.Context, req *UpdateSelfContentRequest) (*models.SelfContent, error) {
	content, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.BriefIntro != nil {
		content.BriefIntro = *req.BriefIntro
	}
	if req.About != nil {
		content.About = *req.About
	}
	if req.HashTags != nil {
		content.HashTags = req.HashTags
	}

	if err := s.db.WithContext(ctx).Save(content).Error; err != nil {
		return nil, err
	}
	return content, nil
}
