package discount

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/service-booking/internal/httperr"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

type Type string

const (
	TypePercentage Type = "percentage"
	TypeFixed      Type = "fixed"
)

// Rejection reasons, in the order they are checked.
const (
	CodeInvalid           = "INVALID_CODE"
	CodeExpired           = "EXPIRED"
	CodeUsageLimitReached = "USAGE_LIMIT_REACHED"
)

var (
	ErrInvalidCode       = httperr.ErrBusiness(CodeInvalid)
	ErrExpired           = httperr.ErrBusiness(CodeExpired)
	ErrUsageLimitReached = httperr.ErrBusiness(CodeUsageLimitReached)
)

var hundred = decimal.NewFromInt(100)

type Repository interface {
	GetActiveOwner(ctx context.Context, ownerID uint) (*models.Owner, error)
	FindByCode(ctx context.Context, ownerID uint, code string) (*models.Discount, error)

	// DeactivateExpired turns off every active discount whose expiry date is
	// before today and returns how many rows changed.
	DeactivateExpired(ctx context.Context, today time.Time) (int64, error)
}

func IsValidType(t string) bool {
	return Type(t) == TypePercentage || Type(t) == TypeFixed
}

// NormalizeCode is the stored form of a code. Codes match case-insensitively.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsExpired compares calendar dates; a discount is still valid on its expiry
// date.
func IsExpired(d *models.Discount, today time.Time) bool {
	if d.ExpiryDate == nil {
		return false
	}
	return d.ExpiryDate.Format(time.DateOnly) < today.Format(time.DateOnly)
}

// Validate runs the discount checks in order and returns the amount the
// discount takes off subtotal. It never touches usage_count.
func Validate(d *models.Discount, today time.Time, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if d == nil || !d.Active || !IsValidType(d.Type) {
		return decimal.Zero, ErrInvalidCode
	}

	if IsExpired(d, today) {
		return decimal.Zero, ErrExpired
	}

	if d.UsageLimit > 0 && d.UsageCount >= d.UsageLimit {
		return decimal.Zero, ErrUsageLimitReached
	}

	return Amount(d, subtotal), nil
}

// Amount never exceeds subtotal, so the discounted total stays >= 0.
func Amount(d *models.Discount, subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}

	var amount decimal.Decimal
	switch Type(d.Type) {
	case TypePercentage:
		amount = subtotal.Mul(d.Amount).Div(hundred).Round(2)
	case TypeFixed:
		amount = d.Amount
	}

	if amount.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(amount, subtotal)
}
