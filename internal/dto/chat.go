package dto

import "time"

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type ChatHistoryItem struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type RecommendationResponse struct {
	Recommendation string `json:"recommendation"`
	Context        string `json:"context"`
}

type StudyPlanRequest struct {
	Goals           string `json:"goals" validate:"required,max=2000"`
	AvailableHours  int    `json:"available_time" validate:"omitempty,min=1,max=100"`
	DifficultyLevel string `json:"difficulty_level" validate:"omitempty,oneof=beginner intermediate advanced"`
}
