package models

type WellnessActivity struct {
	BaseModel
	UserID          string `gorm:"not null;index"`
	ActivityType    string `gorm:"not null"` // meditation, exercise, sleep, ...
	DurationMinutes int
	Intensity       string // low, moderate, high
	MoodBefore      int    // 1-10
	MoodAfter       int    // 1-10
	Notes           string
}
