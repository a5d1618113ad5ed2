package models

import (
	"time"

	"gorm.io/gorm"
)

type Sermon struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Speaker     string         `gorm:"size:128" json:"speaker"`
	Series      string         `gorm:"size:128;index" json:"series"`
	Description string         `gorm:"type:text" json:"description"`
	AudioURL    string         `gorm:"size:512" json:"audio_url"`
	ArtworkURL  string         `gorm:"size:512" json:"artwork_url"`
	DurationSec int            `json:"duration_sec"`
	Status      string         `gorm:"size:20;not null;index;default:DRAFT" json:"status"` // DRAFT | PUBLISHED
	PublishedAt *time.Time     `json:"published_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Sermon) TableName() string {
	return "sermons"
}
