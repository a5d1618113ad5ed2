package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification is one entry in the append-only event log of notifications
// actually delivered to a user. Only the read/archive flags ever change
// after insert; the log otherwise feeds statistics aggregation.
type Notification struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	Type       string         `gorm:"size:50;not null;index" json:"type"`
	Title      string         `gorm:"size:255" json:"title"`
	Body       string         `gorm:"type:text" json:"body"`
	Data       string         `gorm:"type:text" json:"data"` // JSON payload
	Priority   string         `gorm:"size:16" json:"priority,omitempty"`
	Source     string         `gorm:"size:32" json:"source,omitempty"`
	CampaignID string         `gorm:"size:36;index" json:"campaign_id,omitempty"`
	SentAt     time.Time      `gorm:"not null;index" json:"sent_at"`
	ReadAt     *time.Time     `json:"read_at"`
	IsRead     bool           `gorm:"default:false" json:"is_read"`
	ArchivedAt *time.Time     `json:"archived_at"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
