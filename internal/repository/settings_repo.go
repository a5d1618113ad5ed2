package repository

import (
	"chapelcast/internal/models"

	"gorm.io/gorm"
)

// SettingsRepository reads and writes the per-user notification settings
// blob stored on the users row.
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) GetSettings(userID uint) (models.NotificationSettings, error) {
	var u models.User
	if err := r.db.Select("id", "notification_settings").First(&u, userID).Error; err != nil {
		return models.NotificationSettings{}, err
	}
	return u.Settings, nil
}

// UpdateSettings replaces the whole settings record. Callers merge the
// single-field edits before writing; the record is small enough that a full
// overwrite is the merge.
func (r *SettingsRepository) UpdateSettings(userID uint, s models.NotificationSettings) error {
	res := r.db.Model(&models.User{}).Where("id = ?", userID).Update("notification_settings", s)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
