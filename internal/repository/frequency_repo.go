package repository

import (
	"chapelcast/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FrequencyRepository struct {
	db *gorm.DB
}

func NewFrequencyRepository(db *gorm.DB) *FrequencyRepository {
	return &FrequencyRepository{db: db}
}

func (r *FrequencyRepository) GetByUserID(userID uint) (*models.NotificationFrequency, error) {
	var f models.NotificationFrequency
	err := r.db.Where("user_id = ?", userID).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Upsert keyed on user_id: repeated calls with the same payload keep a
// single row per user.
func (r *FrequencyRepository) Upsert(f *models.NotificationFrequency) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"max_per_day", "max_per_week", "enabled", "updated_at"}),
	}).Create(f).Error
}
