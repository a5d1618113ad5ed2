package models

import (
	"time"

	"gorm.io/gorm"
)

type Article struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Author      string         `gorm:"size:128" json:"author"`
	Summary     string         `gorm:"size:512" json:"summary"`
	Body        string         `gorm:"type:text" json:"body"`
	CoverURL    string         `gorm:"size:512" json:"cover_url"`
	Status      string         `gorm:"size:20;not null;index;default:DRAFT" json:"status"` // DRAFT | PUBLISHED
	PublishedAt *time.Time     `json:"published_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Article) TableName() string {
	return "articles"
}
