package models

import "time"

// RefreshToken records an issued refresh token by hash. It is usable while
// RevokedAt is nil and ExpiresAt is in the future.
type RefreshToken struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"userId"`
	User        *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TokenHash   string     `gorm:"uniqueIndex;size:64;not null" json:"-"`
	ExpiresAt   time.Time  `gorm:"index;not null" json:"expiresAt"`
	RevokedAt   *time.Time `gorm:"index" json:"revokedAt,omitempty"`
	CreatedByIP string     `gorm:"size:64" json:"createdByIp,omitempty"`
	UserAgent   string     `gorm:"size:255" json:"userAgent,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

// Usable reports whether the token may still be exchanged at now.
func (t *RefreshToken) Usable(now time.Time) bool {
	return t.RevokedAt == nil && t.ExpiresAt.After(now)
}
