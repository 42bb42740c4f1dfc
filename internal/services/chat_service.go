package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"eduhealth_backend/internal/ai"
	"eduhealth_backend/internal/dto"
	"eduhealth_backend/internal/logger"
	"eduhealth_backend/internal/models"
	"eduhealth_backend/internal/repositories"
	"eduhealth_backend/pkg/apperrors"
)

const (
	chatHistoryWindow = 20

	defaultStudyHours      = 10
	defaultStudyDifficulty = "intermediate"
)

type ChatService interface {
	Chat(ctx context.Context, user *models.User, req *dto.ChatRequest) (*dto.ChatResponse, error)
	History(userID string) ([]dto.ChatHistoryItem, error)
	LearningRecommendation(ctx context.Context, user *models.User) (*dto.RecommendationResponse, error)
	WellnessRecommendation(ctx context.Context, user *models.User) (*dto.RecommendationResponse, error)
	StudyPlan(ctx context.Context, user *models.User, req *dto.StudyPlanRequest) (json.RawMessage, error)
	LearningAnalysis(ctx context.Context, user *models.User) (json.RawMessage, error)
}

type ChatServiceImpl struct {
	chatRepo     repositories.ChatRepository
	courseRepo   repositories.CourseRepository
	wellnessRepo repositories.WellnessRepository
	client       *ai.Client
}

func NewChatService(
	chatRepo repositories.ChatRepository,
	courseRepo repositories.CourseRepository,
	wellnessRepo repositories.WellnessRepository,
	client *ai.Client,
) ChatService {
	return &ChatServiceImpl{
		chatRepo:     chatRepo,
		courseRepo:   courseRepo,
		wellnessRepo: wellnessRepo,
		client:       client,
	}
}

func (s *ChatServiceImpl) Chat(ctx context.Context, user *models.User, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	recent, err := s.chatRepo.FindRecentByUser(user.ID, chatHistoryWindow)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	history := make([]ai.Message, 0, len(recent))
	for _, m := range recent {
		history = append(history, ai.Message{Role: string(m.Role), Content: m.Content})
	}

	reply, err := s.client.ChatReply(ctx, req.Message, history, s.userContext(user))
	if err != nil {
		return nil, err
	}

	// Persist both sides; a storage failure here is logged but does not eat
	// the reply the user already paid the latency for.
	if err := s.chatRepo.Create(&models.ChatMessage{
		UserID: user.ID, Role: models.ChatRoleUser, Content: req.Message, Context: "chat",
	}); err != nil {
		logger.CtxWithError(ctx, "failed to persist chat message", err, "user_id", user.ID)
	}
	if err := s.chatRepo.Create(&models.ChatMessage{
		UserID: user.ID, Role: models.ChatRoleAssistant, Content: reply, Context: "chat",
	}); err != nil {
		logger.CtxWithError(ctx, "failed to persist chat reply", err, "user_id", user.ID)
	}

	return &dto.ChatResponse{Reply: reply}, nil
}

func (s *ChatServiceImpl) History(userID string) ([]dto.ChatHistoryItem, error) {
	messages, err := s.chatRepo.FindRecentByUser(userID, chatHistoryWindow*2)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.ChatHistoryItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, dto.ChatHistoryItem{
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return items, nil
}

func (s *ChatServiceImpl) LearningRecommendation(ctx context.Context, user *models.User) (*dto.RecommendationResponse, error) {
	progress, err := s.courseRepo.FindProgressByUser(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Learner: %s. Courses in progress: %d.\n", user.Name, len(progress))
	for _, p := range progress {
		fmt.Fprintf(&b, "- %s: %.0f%% complete, %d lessons done\n", p.Course.Title, p.Percent, p.CompletedLessons)
	}

	text, err := s.client.LearningRecommendation(ctx, b.String())
	if err != nil {
		return nil, err
	}
	return &dto.RecommendationResponse{Recommendation: text, Context: "learning"}, nil
}

func (s *ChatServiceImpl) WellnessRecommendation(ctx context.Context, user *models.User) (*dto.RecommendationResponse, error) {
	activities, err := s.wellnessRepo.FindByUser(user.ID, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User: %s. Activities over the last 7 days: %d.\n", user.Name, len(activities))
	for _, a := range activities {
		fmt.Fprintf(&b, "- %s, %d min, intensity %s, mood %d->%d\n",
			a.ActivityType, a.DurationMinutes, a.Intensity, a.MoodBefore, a.MoodAfter)
	}

	text, err := s.client.WellnessRecommendation(ctx, b.String())
	if err != nil {
		return nil, err
	}
	return &dto.RecommendationResponse{Recommendation: text, Context: "wellness"}, nil
}

// StudyPlan builds a personalized weekly plan from the caller's goals.
func (s *ChatServiceImpl) StudyPlan(ctx context.Context, user *models.User, req *dto.StudyPlanRequest) (json.RawMessage, error) {
	hours := req.AvailableHours
	if hours <= 0 {
		hours = defaultStudyHours
	}
	difficulty := req.DifficultyLevel
	if difficulty == "" {
		difficulty = defaultStudyDifficulty
	}

	plan, err := s.client.StudyPlan(ctx, req.Goals, hours, difficulty)
	if err != nil {
		logger.CtxWithError(ctx, "study plan generation failed", err, "user_id", user.ID)
		return nil, err
	}
	return plan, nil
}

// LearningAnalysis feeds the user's course progress and the last 30 days of
// wellness activity into the analysis prompt.
func (s *ChatServiceImpl) LearningAnalysis(ctx context.Context, user *models.User) (json.RawMessage, error) {
	progress, err := s.courseRepo.FindProgressByUser(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	activities, err := s.wellnessRepo.FindByUser(user.ID, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Courses in progress: %d\n", len(progress))
	for _, p := range progress {
		fmt.Fprintf(&b, "- %s: %.0f%% complete, %d lessons done, last accessed %s\n",
			p.Course.Title, p.Percent, p.CompletedLessons, p.LastAccessed.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "Wellness activities over the last 30 days: %d\n", len(activities))
	for _, a := range activities {
		fmt.Fprintf(&b, "- %s, %d min, mood %d->%d\n",
			a.ActivityType, a.DurationMinutes, a.MoodBefore, a.MoodAfter)
	}

	return s.client.LearningAnalysis(ctx, b.String())
}

func (s *ChatServiceImpl) userContext(user *models.User) string {
	return fmt.Sprintf("name=%s subscription=%s", user.Name, user.SubscriptionType)
}
