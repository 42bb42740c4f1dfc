package models

import "time"

// PaymentTransaction is one attempted or completed payment. Reference is the
// key shared with the gateway: the webhook and the verify poll both resolve
// through it, and its unique index is what makes duplicate deliveries safe.
type PaymentTransaction struct {
	BaseModel
	UserID      string `gorm:"not null;index"`
	Reference   string `gorm:"uniqueIndex;not null"`
	AmountMinor int64  // amount actually sent to the gateway, in minor units
	Currency    string `gorm:"size:3"` // ISO 4217, gateway settlement currency
	PlanType    PlanType
	Status      PaymentStatus `gorm:"type:varchar(20);default:'pending';index"`
	PaidAt      *time.Time
}
