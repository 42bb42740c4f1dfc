package repositories

import (
	"errors"
	"time"

	"eduhealth_backend/internal/models"

	"gorm.io/gorm"
)

var ErrCourseNotFound = errors.New("course not found")

type CourseRepository interface {
	FindAll(category string) ([]models.Course, error)
	FindByID(id string) (*models.Course, error)
	UpsertProgress(userID, courseID string, percent float64, completedLessons int) error
	FindProgressByUser(userID string) ([]models.CourseProgress, error)
}

type CourseRepositoryImpl struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &CourseRepositoryImpl{db: db}
}

func (r *CourseRepositoryImpl) FindAll(category string) ([]models.Course, error) {
	var courses []models.Course
	q := r.db.Order("title ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Find(&courses).Error
	return courses, err
}

func (r *CourseRepositoryImpl) FindByID(id string) (*models.Course, error) {
	var course models.Course
	err := r.db.First(&course, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepositoryImpl) UpsertProgress(userID, courseID string, percent float64, completedLessons int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var progress models.CourseProgress
		err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.CourseProgress{
				UserID:           userID,
				CourseID:         courseID,
				Percent:          percent,
				CompletedLessons: completedLessons,
				LastAccessed:     time.Now(),
			}).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&progress).Updates(map[string]interface{}{
			"percent":           percent,
			"completed_lessons": completedLessons,
			"last_accessed":     time.Now(),
			"updated_at":        time.Now(),
		}).Error
	})
}

func (r *CourseRepositoryImpl) FindProgressByUser(userID string) ([]models.CourseProgress, error) {
	var progress []models.CourseProgress
	err := r.db.Preload("Course").
		Where("user_id = ?", userID).
		Order("last_accessed DESC").
		Find(&progress).Error
	return progress, err
}
