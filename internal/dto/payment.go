package dto

import "time"

type InitializePaymentRequest struct {
	PlanType string `json:"plan_type" validate:"required,oneof=monthly annual"`
}

type InitializePaymentResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AmountMinor      int64  `json:"amount"`
	Currency         string `json:"currency"`
}

type PaymentStatusResponse struct {
	Reference string     `json:"reference"`
	Status    string     `json:"status"`
	PlanType  string     `json:"plan_type"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

type PaymentHistoryItem struct {
	Reference   string     `json:"reference"`
	AmountMinor int64      `json:"amount"`
	Currency    string     `json:"currency"`
	PlanType    string     `json:"plan_type"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}
