package payment

import (
	"strings"
	"testing"
	"time"

	"eduhealth_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceFor(t *testing.T) {
	monthly, err := PriceFor(models.PlanMonthly)
	require.NoError(t, err)
	assert.Equal(t, 9.99, monthly)

	annual, err := PriceFor(models.PlanAnnual)
	require.NoError(t, err)
	assert.Equal(t, 99.99, annual)

	_, err = PriceFor(models.PlanType("weekly"))
	assert.Error(t, err)
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 30*24*time.Hour, Duration(models.PlanMonthly))
	assert.Equal(t, 365*24*time.Hour, Duration(models.PlanAnnual))
}

func TestGatewayAmount_MinorUnits(t *testing.T) {
	p := NewPricing("ZAR", 18.0)

	// 9.99 * 18.0 = 179.82 -> 17982 cents
	assert.Equal(t, int64(17982), p.GatewayAmount(9.99))
	// 99.99 * 18.0 = 1799.82 -> 179982 cents
	assert.Equal(t, int64(179982), p.GatewayAmount(99.99))
}

func TestGatewayAmount_RoundsHalfUp(t *testing.T) {
	p := NewPricing("ZAR", 1.0)

	assert.Equal(t, int64(1000), p.GatewayAmount(10.004999))
	assert.Equal(t, int64(1001), p.GatewayAmount(10.005001))
}

func TestAmountFor(t *testing.T) {
	p := NewPricing("ZAR", 18.0)

	amount, err := p.AmountFor(models.PlanMonthly)
	require.NoError(t, err)
	assert.Equal(t, int64(17982), amount)

	_, err = p.AmountFor(models.PlanType(""))
	assert.Error(t, err)
}

func TestGenerateReference_Format(t *testing.T) {
	ref := GenerateReference()

	parts := strings.Split(ref, "_")
	require.Len(t, parts, 3)
	assert.Equal(t, "eduhealth", parts[0])
	assert.Len(t, parts[1], 14) // yyyymmddhhmmss
	assert.Len(t, parts[2], 8)

	_, err := time.Parse("20060102150405", parts[1])
	assert.NoError(t, err)
}

func TestGenerateReference_UniquePerCall(t *testing.T) {
	// Many calls within the same second must still produce distinct suffixes.
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := GenerateReference()
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}
