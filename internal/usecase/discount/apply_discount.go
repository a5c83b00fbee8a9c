package discount

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/service-booking/internal/domain"
	"github.com/BruksfildServices01/service-booking/internal/domain/coverage"
	domainDiscount "github.com/BruksfildServices01/service-booking/internal/domain/discount"
	"github.com/BruksfildServices01/service-booking/internal/timezone"
)

type ApplyDiscountInput struct {
	OwnerID  uint
	Code     string
	Subtotal decimal.Decimal
}

type ApplyDiscountResult struct {
	Code           string          `json:"code"`
	Type           string          `json:"type"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// ApplyDiscount previews a code against a subtotal. Usage is not consumed.
type ApplyDiscount struct {
	repo domainDiscount.Repository
}

func NewApplyDiscount(repo domainDiscount.Repository) *ApplyDiscount {
	return &ApplyDiscount{repo: repo}
}

func (uc *ApplyDiscount) Execute(
	ctx context.Context,
	in ApplyDiscountInput,
) (*ApplyDiscountResult, error) {

	code := domainDiscount.NormalizeCode(in.Code)
	if code == "" {
		return nil, domainDiscount.ErrInvalidCode
	}

	owner, err := uc.repo.GetActiveOwner(ctx, in.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, coverage.ErrUnknownOwner
		}
		return nil, err
	}

	d, err := uc.repo.FindByCode(ctx, owner.ID, code)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	subtotal := decimal.Max(decimal.Zero, in.Subtotal)

	amount, err := domainDiscount.Validate(d, timezone.NowIn(owner.Timezone), subtotal)
	if err != nil {
		return nil, err
	}

	return &ApplyDiscountResult{
		Code:           d.Code,
		Type:           d.Type,
		DiscountAmount: amount,
		Total:          subtotal.Sub(amount),
	}, nil
}
