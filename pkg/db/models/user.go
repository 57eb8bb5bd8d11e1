package models

import (
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID           int64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username     string         `gorm:"column:username;not null;uniqueIndex" json:"username"`
	Email        string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	Phone        *string        `gorm:"column:phone" json:"phone,omitempty"`
	Role         enums.UserRole `gorm:"column:role;not null;default:unassigned" json:"role"`
	FailedLogins int            `gorm:"column:failed_logins;not null;default:0" json:"failedLogins"`
	IsBanned     bool           `gorm:"column:is_banned;not null;default:false" json:"isBanned"`
	BannedUntil  *time.Time     `gorm:"column:banned_until" json:"bannedUntil,omitempty"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
