package booking

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/service-booking/internal/domain"
	domainBooking "github.com/BruksfildServices01/service-booking/internal/domain/booking"
	"github.com/BruksfildServices01/service-booking/internal/domain/coverage"
	"github.com/BruksfildServices01/service-booking/internal/domain/discount"
	"github.com/BruksfildServices01/service-booking/internal/domain/pricing"
	"github.com/BruksfildServices01/service-booking/internal/httperr"
	"github.com/BruksfildServices01/service-booking/internal/models"
	"github.com/BruksfildServices01/service-booking/internal/timezone"
)

type PreviewPricingInput struct {
	OwnerID      uint
	ServiceIDs   []uint
	OptionValues map[uint]string
	DiscountCode string
}

type PreviewPricingResult struct {
	pricing.Breakdown

	// DiscountError carries the rejection code when a code was given but
	// could not be applied. The rest of the breakdown is still valid.
	DiscountError string `json:"discount_error,omitempty"`
}

// PreviewPricing prices a selection the same way CreateBooking will, without
// writing anything. Unknown or inactive services are left out.
type PreviewPricing struct {
	repo domainBooking.Reader
}

func NewPreviewPricing(repo domainBooking.Reader) *PreviewPricing {
	return &PreviewPricing{repo: repo}
}

func (uc *PreviewPricing) Execute(
	ctx context.Context,
	in PreviewPricingInput,
) (*PreviewPricingResult, error) {

	owner, err := uc.repo.GetActiveOwner(ctx, in.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, coverage.ErrUnknownOwner
		}
		return nil, err
	}

	ids := pricing.UniqueIDs(in.ServiceIDs)

	services, err := uc.repo.ListServicesByIDs(ctx, owner.ID, ids)
	if err != nil {
		return nil, err
	}

	active := make([]models.Service, 0, len(services))
	activeIDs := make([]uint, 0, len(services))
	for _, s := range services {
		if s.Status == models.ServiceStatusActive {
			active = append(active, s)
			activeIDs = append(activeIDs, s.ID)
		}
	}

	options, err := uc.repo.ListOptionsByServiceIDs(ctx, activeIDs)
	if err != nil {
		return nil, err
	}

	res := &PreviewPricingResult{
		Breakdown: pricing.ComputeBookingPricing(active, options, ids, in.OptionValues, decimal.Zero),
	}

	if in.DiscountCode == "" {
		return res, nil
	}

	d, err := uc.repo.FindDiscountByCode(ctx, owner.ID, discount.NormalizeCode(in.DiscountCode))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	amount, err := discount.Validate(d, timezone.NowIn(owner.Timezone), res.Subtotal)
	if err != nil {
		res.DiscountError = httperr.CodeOf(err)
		return res, nil
	}

	res.Breakdown = res.WithDiscount(amount)
	return res, nil
}
