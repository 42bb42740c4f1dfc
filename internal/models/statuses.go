package models

type SubscriptionType string
type PlanType string
type PaymentStatus string
type CourseDifficulty string
type ChatRole string

const (
	SubscriptionFree    SubscriptionType = "free"
	SubscriptionPremium SubscriptionType = "premium"

	PlanMonthly PlanType = "monthly"
	PlanAnnual  PlanType = "annual"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"

	CourseDifficultyBeginner     CourseDifficulty = "beginner"
	CourseDifficultyIntermediate CourseDifficulty = "intermediate"
	CourseDifficultyAdvanced     CourseDifficulty = "advanced"

	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// IsValid reports whether p is one of the two supported plans.
func (p PlanType) IsValid() bool {
	return p == PlanMonthly || p == PlanAnnual
}

// IsTerminal reports whether a payment can no longer change state.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}
