package models

import (
	"time"

	"chapelcast/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID              uint                 `gorm:"primaryKey" json:"id"`
	Username        string               `gorm:"uniqueIndex;size:64;not null;default:''" json:"username"`
	Email           string               `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash    string               `gorm:"size:255" json:"-"`
	Role            string               `gorm:"size:20;not null;index" json:"role"` // MEMBER | ADMIN
	GoogleID        *string              `gorm:"uniqueIndex;size:255" json:"-"`      // nil for email signups (avoids duplicate '' on unique index)
	AvatarURL       string               `gorm:"size:512" json:"avatar_url"`
	FCMToken        string               `gorm:"size:512" json:"-"` // For push notifications
	Settings        NotificationSettings `gorm:"column:notification_settings;type:json" json:"notification_settings"`
	EmailVerifiedAt *time.Time           `json:"email_verified_at"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	DeletedAt       gorm.DeletedAt       `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }
