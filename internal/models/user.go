package models

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an admin back-office account. ID 0 is reserved for the
// bootstrap admin and is never stored.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash string     `gorm:"column:password_hash;size:255;not null" json:"-"`
	Role         string     `gorm:"size:20;not null;default:admin" json:"role"` // admin, user
	CreatedAt    time.Time  `gorm:"index" json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt"`
}

func (User) TableName() string { return "users" }
