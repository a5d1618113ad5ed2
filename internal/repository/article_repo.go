package repository

import (
	"chapelcast/internal/domain"
	"chapelcast/internal/models"

	"gorm.io/gorm"
)

type ArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Create(a *models.Article) error {
	return r.db.Create(a).Error
}

func (r *ArticleRepository) GetByID(id uint) (*models.Article, error) {
	var a models.Article
	err := r.db.First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ArticleRepository) ListPublished(limit, offset int) ([]models.Article, error) {
	var list []models.Article
	err := r.db.Where("status = ?", domain.ContentStatusPublished).
		Order("published_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *ArticleRepository) ListAll(limit, offset int) ([]models.Article, error) {
	var list []models.Article
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *ArticleRepository) Update(a *models.Article) error {
	return r.db.Save(a).Error
}

func (r *ArticleRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Article{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
