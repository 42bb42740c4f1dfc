package services

import (
	"time"

	"eduhealth_backend/internal/dto"
	"eduhealth_backend/internal/models"
	"eduhealth_backend/internal/repositories"
	"eduhealth_backend/pkg/apperrors"
)

type WellnessService interface {
	LogActivity(userID string, req *dto.LogActivityRequest) (*dto.ActivityResponse, error)
	ListActivities(userID string, days int) ([]dto.ActivityResponse, error)
	Summary(userID string, days int) (*dto.WellnessSummary, error)
}

type WellnessServiceImpl struct {
	wellnessRepo repositories.WellnessRepository
}

func NewWellnessService(wellnessRepo repositories.WellnessRepository) WellnessService {
	return &WellnessServiceImpl{wellnessRepo: wellnessRepo}
}

func (s *WellnessServiceImpl) LogActivity(userID string, req *dto.LogActivityRequest) (*dto.ActivityResponse, error) {
	activity := &models.WellnessActivity{
		UserID:          userID,
		ActivityType:    req.ActivityType,
		DurationMinutes: req.DurationMinutes,
		Intensity:       req.Intensity,
		MoodBefore:      req.MoodBefore,
		MoodAfter:       req.MoodAfter,
		Notes:           req.Notes,
	}

	if err := s.wellnessRepo.Create(activity); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return activityResponse(activity), nil
}

func (s *WellnessServiceImpl) ListActivities(userID string, days int) ([]dto.ActivityResponse, error) {
	activities, err := s.wellnessRepo.FindByUser(userID, sinceDays(days))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.ActivityResponse, 0, len(activities))
	for _, a := range activities {
		responses = append(responses, *activityResponse(&a))
	}
	return responses, nil
}

func (s *WellnessServiceImpl) Summary(userID string, days int) (*dto.WellnessSummary, error) {
	activities, err := s.wellnessRepo.FindByUser(userID, sinceDays(days))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	summary := &dto.WellnessSummary{
		ByType: make(map[string]int),
	}
	var moodDeltaSum, moodDeltaCount int
	for _, a := range activities {
		summary.TotalActivities++
		summary.TotalMinutes += a.DurationMinutes
		summary.ByType[a.ActivityType]++
		if a.MoodBefore > 0 && a.MoodAfter > 0 {
			moodDeltaSum += a.MoodAfter - a.MoodBefore
			moodDeltaCount++
		}
	}
	if moodDeltaCount > 0 {
		summary.AvgMoodDelta = float64(moodDeltaSum) / float64(moodDeltaCount)
	}
	return summary, nil
}

func sinceDays(days int) time.Time {
	if days <= 0 {
		return time.Time{}
	}
	return time.Now().AddDate(0, 0, -days)
}

func activityResponse(a *models.WellnessActivity) *dto.ActivityResponse {
	return &dto.ActivityResponse{
		ID:              a.ID,
		ActivityType:    a.ActivityType,
		DurationMinutes: a.DurationMinutes,
		Intensity:       a.Intensity,
		MoodBefore:      a.MoodBefore,
		MoodAfter:       a.MoodAfter,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
	}
}
