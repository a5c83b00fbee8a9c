package discount_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/service-booking/internal/domain/discount"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

var today = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func fixed(amount string) *models.Discount {
	return &models.Discount{
		Code:   "SPRING",
		Type:   string(discount.TypeFixed),
		Amount: decimal.RequireFromString(amount),
		Active: true,
	}
}

func TestValidate_RejectionOrder(t *testing.T) {
	subtotal := decimal.NewFromInt(100)

	_, err := discount.Validate(nil, today, subtotal)
	assert.ErrorIs(t, err, discount.ErrInvalidCode)

	inactive := fixed("10")
	inactive.Active = false
	inactive.ExpiryDate = day(2020, 1, 1)
	_, err = discount.Validate(inactive, today, subtotal)
	assert.ErrorIs(t, err, discount.ErrInvalidCode, "inactive wins over expired")

	expired := fixed("10")
	expired.ExpiryDate = day(2026, 3, 14)
	expired.UsageLimit = 1
	expired.UsageCount = 1
	_, err = discount.Validate(expired, today, subtotal)
	assert.ErrorIs(t, err, discount.ErrExpired, "expired wins over exhausted")

	exhausted := fixed("10")
	exhausted.UsageLimit = 1
	exhausted.UsageCount = 1
	_, err = discount.Validate(exhausted, today, subtotal)
	assert.ErrorIs(t, err, discount.ErrUsageLimitReached)
}

func TestValidate_ExpiryDayIsInclusive(t *testing.T) {
	d := fixed("10")
	d.ExpiryDate = day(2026, 3, 15)

	amount, err := discount.Validate(d, today, decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(10)))
}

func TestValidate_UnlimitedUsage(t *testing.T) {
	d := fixed("5")
	d.UsageCount = 1000

	_, err := discount.Validate(d, today, decimal.NewFromInt(40))
	assert.NoError(t, err)
}

func TestAmount(t *testing.T) {
	pct := &models.Discount{Type: "percentage", Amount: decimal.NewFromInt(15), Active: true}
	amount, err := discount.Validate(pct, today, decimal.RequireFromString("55.00"))
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("8.25")), amount.String())

	big := fixed("80")
	amount, err = discount.Validate(big, today, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(50)), "fixed discount is capped at subtotal")
}

func TestAmount_FixedNeverExceedsSubtotal(t *testing.T) {
	for _, sub := range []string{"0", "0.01", "9.99", "10", "10.01", "1000"} {
		subtotal := decimal.RequireFromString(sub)
		amount := discount.Amount(fixed("10"), subtotal)
		assert.True(t, amount.LessThanOrEqual(subtotal), "subtotal %s amount %s", sub, amount)
		assert.False(t, amount.IsNegative())
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SAVE10", discount.NormalizeCode("  save10 "))
}
