package payment

import (
	"fmt"
	"math"
	"strings"
	"time"

	"eduhealth_backend/internal/models"

	"github.com/google/uuid"
)

// Plan prices in the platform's base currency (USD).
const (
	monthlyPriceUSD = 9.99
	annualPriceUSD  = 99.99

	monthlyDays = 30
	annualDays  = 365
)

// Pricing converts plan prices into the amount actually charged through the
// gateway. The gateway settles in a different currency than the display one,
// so the exchange rate comes from configuration, never from a literal here.
type Pricing struct {
	Currency     string  // gateway settlement currency (ISO 4217)
	ExchangeRate float64 // base currency -> settlement currency
}

func NewPricing(currency string, exchangeRate float64) *Pricing {
	return &Pricing{
		Currency:     currency,
		ExchangeRate: exchangeRate,
	}
}

// PriceFor returns the plan price in the base currency.
func PriceFor(plan models.PlanType) (float64, error) {
	switch plan {
	case models.PlanMonthly:
		return monthlyPriceUSD, nil
	case models.PlanAnnual:
		return annualPriceUSD, nil
	default:
		return 0, fmt.Errorf("unknown plan type: %q", plan)
	}
}

// Duration returns how long a successful payment extends the subscription.
// Renewal is non-cumulative: the expiry is always now + this duration.
func Duration(plan models.PlanType) time.Duration {
	if plan == models.PlanAnnual {
		return annualDays * 24 * time.Hour
	}
	return monthlyDays * 24 * time.Hour
}

// GatewayAmount converts a base-currency price to minor units of the
// settlement currency.
func (p *Pricing) GatewayAmount(amountUSD float64) int64 {
	return int64(math.Round(amountUSD * p.ExchangeRate * 100))
}

// AmountFor resolves a plan straight to the charged minor-unit amount.
func (p *Pricing) AmountFor(plan models.PlanType) (int64, error) {
	price, err := PriceFor(plan)
	if err != nil {
		return 0, err
	}
	return p.GatewayAmount(price), nil
}

// GenerateReference builds a globally unique transaction reference. The
// readable timestamp prefix survives from the legacy scheme; the suffix is
// random, so concurrent calls in the same second cannot collide.
func GenerateReference() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("eduhealth_%s_%s", time.Now().UTC().Format("20060102150405"), suffix)
}
