package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHasActivePremium(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name    string
		subType SubscriptionType
		expires *time.Time
		want    bool
	}{
		{"premium with future expiry", SubscriptionPremium, &future, true},
		{"premium expired", SubscriptionPremium, &past, false},
		{"premium without expiry", SubscriptionPremium, nil, false},
		{"free user", SubscriptionFree, &future, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := User{SubscriptionType: tt.subType, SubscriptionExpires: tt.expires}
			assert.Equal(t, tt.want, u.HasActivePremium(now))
		})
	}
}

func TestPlanTypeIsValid(t *testing.T) {
	assert.True(t, PlanMonthly.IsValid())
	assert.True(t, PlanAnnual.IsValid())
	assert.False(t, PlanType("weekly").IsValid())
	assert.False(t, PlanType("").IsValid())
}

func TestPaymentStatusIsTerminal(t *testing.T) {
	assert.False(t, PaymentStatusPending.IsTerminal())
	assert.True(t, PaymentStatusCompleted.IsTerminal())
	assert.True(t, PaymentStatusFailed.IsTerminal())
}
