package dto

import "time"

type LogActivityRequest struct {
	ActivityType    string `json:"activity_type" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=1"`
	Intensity       string `json:"intensity" validate:"omitempty,oneof=low moderate high"`
	MoodBefore      int    `json:"mood_before" validate:"omitempty,min=1,max=10"`
	MoodAfter       int    `json:"mood_after" validate:"omitempty,min=1,max=10"`
	Notes           string `json:"notes" validate:"max=1000"`
}

type ActivityResponse struct {
	ID              string    `json:"id"`
	ActivityType    string    `json:"activity_type"`
	DurationMinutes int       `json:"duration_minutes"`
	Intensity       string    `json:"intensity"`
	MoodBefore      int       `json:"mood_before"`
	MoodAfter       int       `json:"mood_after"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

type WellnessSummary struct {
	TotalActivities int     `json:"total_activities"`
	TotalMinutes    int     `json:"total_minutes"`
	AvgMoodDelta    float64 `json:"avg_mood_delta"`
	ByType          map[string]int `json:"by_type"`
}
