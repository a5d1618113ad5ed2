package repository

import (
	"chapelcast/internal/models"

	"gorm.io/gorm"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) ListByUserID(userID uint) ([]models.NotificationSchedule, error) {
	var list []models.NotificationSchedule
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *ScheduleRepository) GetByID(id, userID uint) (*models.NotificationSchedule, error) {
	var s models.NotificationSchedule
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert creates the schedule or updates it in place when ID is set.
func (r *ScheduleRepository) Upsert(s *models.NotificationSchedule) error {
	return r.db.Save(s).Error
}

func (r *ScheduleRepository) Delete(id, userID uint) error {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.NotificationSchedule{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
