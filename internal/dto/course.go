package dto

import "time"

type CourseResponse struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	Difficulty      string  `json:"difficulty"`
	Lessons         int     `json:"lessons"`
	PremiumRequired bool    `json:"premium_required"`
	Percent         float64 `json:"percent,omitempty"` // requesting user's progress
}

type UpdateProgressRequest struct {
	Percent          float64 `json:"percent" validate:"min=0,max=100"`
	CompletedLessons int     `json:"completed_lessons" validate:"min=0"`
}

type ProgressResponse struct {
	CourseID         string    `json:"course_id"`
	CourseTitle      string    `json:"course_title"`
	Percent          float64   `json:"percent"`
	CompletedLessons int       `json:"completed_lessons"`
	LastAccessed     time.Time `json:"last_accessed"`
}
