package repository

import (
	"chapelcast/internal/domain"
	"chapelcast/internal/models"

	"gorm.io/gorm"
)

type SermonRepository struct {
	db *gorm.DB
}

func NewSermonRepository(db *gorm.DB) *SermonRepository {
	return &SermonRepository{db: db}
}

func (r *SermonRepository) Create(s *models.Sermon) error {
	return r.db.Create(s).Error
}

func (r *SermonRepository) GetByID(id uint) (*models.Sermon, error) {
	var s models.Sermon
	err := r.db.First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SermonRepository) ListPublished(limit, offset int) ([]models.Sermon, error) {
	var list []models.Sermon
	err := r.db.Where("status = ?", domain.ContentStatusPublished).
		Order("published_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *SermonRepository) ListAll(limit, offset int) ([]models.Sermon, error) {
	var list []models.Sermon
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *SermonRepository) Update(s *models.Sermon) error {
	return r.db.Save(s).Error
}

func (r *SermonRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Sermon{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
