package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackhellowin/portfolio-api/internal/models"
	"gorm.io/gorm"
)

var ErrWorkNotFound = fmt.Errorf("work %w", ErrNotFound)

type WorkService struct {
	db *gorm.DB
}

func NewWorkService(db *gorm.DB) *WorkService {
	return &WorkService{db: db}
}

type WorkListRequest struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Pagination is returned in the response meta of paged lists.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type CreateWorkRequest struct {
	Title       string   `json:"title" binding:"required,min=1,max=255"`
	Description string   `json:"description" binding:"required"`
	ImgURL      string   `json:"imgUrl" binding:"omitempty,url"`
	ImgLink     string   `json:"imgLink" binding:"omitempty,url"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	GitHubURL   string   `json:"gitHubUrl" binding:"omitempty,url"`
	GitPageURL  string   `json:"gitPageUrl" binding:"omitempty,url"`
}

// UpdateWorkRequest is a partial update; nil fields are left unchanged.
type UpdateWorkRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string  `json:"description" binding:"omitempty,min=1"`
	ImgURL      *string  `json:"imgUrl" binding:"omitempty,url"`
	ImgLink     *string  `json:"imgLink" binding:"omitempty,url"`
	Content     *string  `json:"content"`
	Tags        []string `json:"tags"`
	GitHubURL   *string  `json:"gitHubUrl" binding:"omitempty,url"`
	GitPageURL  *string  `json:"gitPageUrl" binding:"omitempty,url"`
}

// List returns a page of works, newest first.
func (s *WorkService) List(ctx context.Context, req *WorkListRequest) ([]models.Work, *Pagination, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.Limit == 0 {
		req.Limit = 10
	}

	var works []models.Work
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Work{})
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(req.Limit).Find(&works).Error; err != nil {
		return nil, nil, err
	}
	for i := range works {
		if works[i].Tags == nil {
			works[i].Tags = []string{}
		}
	}

	return works, &Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: int((total + int64(req.Limit) - 1) / int64(req.Limit)),
	}, nil
}

func (s *WorkService) GetByID(ctx context.Context, id uint) (*models.Work, error) {
	var work models.Work
	if err := s.db.WithContext(ctx).First(&work, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkNotFound
		}
		return nil, err
	}
	if work.Tags == nil {
		work.Tags = []string{}
	}
	return &work, nil
}

func (s *WorkService) Create(ctx context.Context, req *CreateWorkRequest) (*models.Work, error) {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	work := models.Work{
		Title:       req.Title,
		Description: req.Description,
		ImgURL:      req.ImgURL,
		ImgLink:     req.ImgLink,
		Content:     req.Content,
		Tags:        tags,
		GitHubURL:   req.GitHubURL,
		GitPageURL:  req.GitPageURL,
	}
	if err := s.db.WithContext(ctx).Create(&work).Error; err != nil {
		return nil, err
	}
	return &work, nil
}

func (s *WorkService) Update(ctx context.Context, id uint, req *UpdateWorkRequest) (*models.Work, error) {
	work, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		work.Title = *req.Title
	}
	if req.Description != nil {
		work.Description = *req.Description
	}
	if req.ImgURL != nil {
		work.ImgURL = *req.ImgURL
	}
	if req.ImgLink != nil {
		work.ImgLink = *req.ImgLink
	}
	if req.Content != nil {
		work.Content = *req.Content
	}
	if req.Tags != nil {
		work.Tags = req.Tags
	}
	if req.GitHubURL != nil {
		work.GitHubURL = *req.GitHubURL
	}
	if req.GitPageURL != nil {
		work.GitPageURL = *req.GitPageURL
	}

	if err := s.db.WithContext(ctx).Save(work).Error; err != nil {
		return nil, err
	}
	return work, nil
}

func (s *WorkService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Work{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWorkNotFound
	}
	return nil
}
