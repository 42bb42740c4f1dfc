package models

import "time"

type Course struct {
	BaseModel
	Title           string `gorm:"not null"`
	Description     string
	Category        string           `gorm:"index"`
	Difficulty      CourseDifficulty `gorm:"type:varchar(20)"`
	Lessons         int
	PremiumRequired bool `gorm:"default:false"`
}

type CourseProgress struct {
	BaseModel
	UserID           string `gorm:"not null;uniqueIndex:idx_user_course"`
	CourseID         string `gorm:"not null;uniqueIndex:idx_user_course"`
	Percent          float64
	CompletedLessons int
	LastAccessed     time.Time

	// Relations
	Course Course `gorm:"foreignKey:CourseID"`
}
