package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string `gorm:"not null"`

	// Subscription state. Premium implies SubscriptionExpires is set;
	// the value is rewritten (not extended) on every successful payment.
	SubscriptionType    SubscriptionType `gorm:"type:varchar(20);default:'free'"`
	SubscriptionExpires *time.Time

	// Learning/wellness preferences, e.g. {"daily_goal_minutes": 30}
	Preferences datatypes.JSON `gorm:"type:jsonb"`

	// Relations
	Payments   []PaymentTransaction `gorm:"foreignKey:UserID"`
	Progress   []CourseProgress     `gorm:"foreignKey:UserID"`
	Activities []WellnessActivity   `gorm:"foreignKey:UserID"`
}

// HasActivePremium reports whether the user currently has premium access.
func (u *User) HasActivePremium(now time.Time) bool {
	return u.SubscriptionType == SubscriptionPremium &&
		u.SubscriptionExpires != nil &&
		u.SubscriptionExpires.After(now)
}
