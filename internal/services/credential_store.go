package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackhellowin/portfolio-api/internal/models"
	"gorm.io/gorm"
)

// RefreshTokenMeta is client information recorded with an issued refresh token.
type RefreshTokenMeta struct {
	ClientIP  string
	UserAgent string
}

// CredentialStore persists users and revocable refresh tokens. Times are
// stored in UTC so comparisons hold on drivers that store text timestamps.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, username, passwordHash, role string) (*models.User, error)
	Delete(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error

	StoreRefreshToken(ctx context.Context, userID uint, tokenHash string, expiresAt time.Time, meta RefreshTokenMeta) error
	IsRefreshTokenValid(ctx context.Context, tokenHash string, now time.Time) (bool, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string, now time.Time) error
	RevokeAllForUser(ctx context.Context, userID uint, now time.Time) (int64, error)
}

// GormCredentialStore is the CredentialStore backed by the application database.
type GormCredentialStore struct {
	db *gorm.DB
}

func NewGormCredentialStore(db *gorm.DB) *GormCredentialStore {
	return &GormCredentialStore{db: db}
}

var _ CredentialStore = (*GormCredentialStore)(nil)

func (s *GormCredentialStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormCredentialStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create inserts a user. A taken username yields ErrDuplicateUsername.
func (s *GormCredentialStore) Create(ctx context.Context, username, passwordHash, role string) (*models.User, error) {
	user := models.User{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		// Not every driver translates constraint errors.
		if _, findErr := s.FindByUsername(ctx, username); findErr == nil {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return &user, nil
}

// Delete removes the user and its refresh tokens. It reports whether a user row existed.
func (s *GormCredentialStore) Delete(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func (s *GormCredentialStore) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormCredentialStore) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login_at", at.UTC()).Error
}

func (s *GormCredentialStore) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *GormCredentialStore) StoreRefreshToken(ctx context.Context, userID uint, tokenHash string, expiresAt time.Time, meta RefreshTokenMeta) error {
	record := models.RefreshToken{
		UserID:      userID,
		TokenHash:   tokenHash,
		ExpiresAt:   expiresAt.UTC(),
		CreatedByIP: meta.ClientIP,
		UserAgent:   truncate(meta.UserAgent, 255),
	}
	return s.db.WithContext(ctx).Create(&record).Error
}

func (s *GormCredentialStore) IsRefreshTokenValid(ctx context.Context, tokenHash string, now time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", tokenHash, now.UTC()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormCredentialStore) RevokeRefreshToken(ctx context.Context, tokenHash string, now time.Time) error {
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", tokenHash).
		Update("revoked_at", now.UTC()).Error
}

func (s *GormCredentialStore) RevokeAllForUser(ctx context.Context, userID uint, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now.UTC())
	return result.RowsAffected, result.Error
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
