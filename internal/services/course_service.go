package services

import (
	"time"

	"eduhealth_backend/internal/dto"
	"eduhealth_backend/internal/models"
	"eduhealth_backend/internal/repositories"
	"eduhealth_backend/pkg/apperrors"
)

type CourseService interface {
	ListCourses(category string, user *models.User) ([]dto.CourseResponse, error)
	GetCourse(courseID string, user *models.User) (*dto.CourseResponse, error)
	UpdateProgress(userID, courseID string, req *dto.UpdateProgressRequest) error
	GetProgress(userID string) ([]dto.ProgressResponse, error)
}

type CourseServiceImpl struct {
	courseRepo repositories.CourseRepository
}

func NewCourseService(courseRepo repositories.CourseRepository) CourseService {
	return &CourseServiceImpl{courseRepo: courseRepo}
}

func (s *CourseServiceImpl) ListCourses(category string, user *models.User) ([]dto.CourseResponse, error) {
	courses, err := s.courseRepo.FindAll(category)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		responses = append(responses, *courseResponse(&c))
	}
	return responses, nil
}

func (s *CourseServiceImpl) GetCourse(courseID string, user *models.User) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCourseNotFound) {
			return nil, apperrors.NewNotFoundError("course", "Course not found")
		}
		return nil, apperrors.InternalError(err)
	}

	// Premium content is gated on a live expiry check, not just the flag.
	if course.PremiumRequired && !user.HasActivePremium(time.Now()) {
		return nil, apperrors.NewForbiddenError("Premium subscription required")
	}

	return courseResponse(course), nil
}

func (s *CourseServiceImpl) UpdateProgress(userID, courseID string, req *dto.UpdateProgressRequest) error {
	if _, err := s.courseRepo.FindByID(courseID); err != nil {
		if apperrors.Is(err, repositories.ErrCourseNotFound) {
			return apperrors.NewNotFoundError("course", "Course not found")
		}
		return apperrors.InternalError(err)
	}

	if err := s.courseRepo.UpsertProgress(userID, courseID, req.Percent, req.CompletedLessons); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *CourseServiceImpl) GetProgress(userID string) ([]dto.ProgressResponse, error) {
	progress, err := s.courseRepo.FindProgressByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.ProgressResponse, 0, len(progress))
	for _, p := range progress {
		responses = append(responses, dto.ProgressResponse{
			CourseID:         p.CourseID,
			CourseTitle:      p.Course.Title,
			Percent:          p.Percent,
			CompletedLessons: p.CompletedLessons,
			LastAccessed:     p.LastAccessed,
		})
	}
	return responses, nil
}

func courseResponse(c *models.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		Category:        c.Category,
		Difficulty:      string(c.Difficulty),
		Lessons:         c.Lessons,
		PremiumRequired: c.PremiumRequired,
	}
}
