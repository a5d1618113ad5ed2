package models

import "time"

// NotificationFrequency is the per-user delivery cap. Singleton row per
// user, upserted on change and never deleted.
type NotificationFrequency struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	MaxPerDay  int       `gorm:"default:10" json:"max_per_day"`
	MaxPerWeek int       `gorm:"default:50" json:"max_per_week"`
	Enabled    bool      `gorm:"default:true" json:"enabled"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (NotificationFrequency) TableName() string {
	return "user_notification_frequency"
}
