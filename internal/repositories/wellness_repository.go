package repositories

import (
	"time"

	"eduhealth_backend/internal/models"

	"gorm.io/gorm"
)

type WellnessRepository interface {
	Create(activity *models.WellnessActivity) error
	FindByUser(userID string, since time.Time) ([]models.WellnessActivity, error)
}

type WellnessRepositoryImpl struct {
	db *gorm.DB
}

func NewWellnessRepository(db *gorm.DB) WellnessRepository {
	return &WellnessRepositoryImpl{db: db}
}

func (r *WellnessRepositoryImpl) Create(activity *models.WellnessActivity) error {
	return r.db.Create(activity).Error
}

func (r *WellnessRepositoryImpl) FindByUser(userID string, since time.Time) ([]models.WellnessActivity, error) {
	var activities []models.WellnessActivity
	q := r.db.Where("user_id = ?", userID)
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	err := q.Order("created_at DESC").Find(&activities).Error
	return activities, err
}
