package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/service-booking/internal/audit"
	"github.com/BruksfildServices01/service-booking/internal/domain"
	domainBooking "github.com/BruksfildServices01/service-booking/internal/domain/booking"
	"github.com/BruksfildServices01/service-booking/internal/domain/coverage"
	"github.com/BruksfildServices01/service-booking/internal/domain/discount"
	"github.com/BruksfildServices01/service-booking/internal/domain/pricing"
	"github.com/BruksfildServices01/service-booking/internal/guard"
	"github.com/BruksfildServices01/service-booking/internal/httperr"
	"github.com/BruksfildServices01/service-booking/internal/models"
	"github.com/BruksfildServices01/service-booking/internal/timezone"
)

const maxAttempts = 3

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreateBookingInput struct {
	domainBooking.Submission

	// IdempotencyKey is optional. A second submission with the same key
	// gets the booking already committed under it, or a duplicate error
	// while the first one is still in flight.
	IdempotencyKey string
}

type CreateBookingResult struct {
	Booking *models.Booking
	Owner   models.Owner
	Pricing pricing.Breakdown

	// Replayed is set when the booking was committed by an earlier request
	// with the same idempotency key.
	Replayed bool
}

// ======================================================
// USE CASE
// ======================================================

// CreateBooking is the only write path for bookings. It re-prices the
// selection from stored catalog rows and writes the booking, its service and
// option rows and the discount usage in one transaction.
type CreateBooking struct {
	repo     domainBooking.Repository
	guard    guard.Guard
	audit    Auditor
	notifier Notifier
	log      *logrus.Logger

	newReference func() string
	now          func() time.Time
}

func NewCreateBooking(
	repo domainBooking.Repository,
	submitGuard guard.Guard,
	audit Auditor,
	notifier Notifier,
	log *logrus.Logger,
	referencePrefix string,
) *CreateBooking {
	return &CreateBooking{
		repo:         repo,
		guard:        submitGuard,
		audit:        audit,
		notifier:     notifier,
		log:          log,
		newReference: NewReferenceGenerator(referencePrefix),
		now:          time.Now,
	}
}

// NewReferenceGenerator returns "<prefix>-<ULID>" references.
func NewReferenceGenerator(prefix string) func() string {
	if prefix == "" {
		prefix = "BK"
	}
	return func() string {
		return prefix + "-" + ulid.Make().String()
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*CreateBookingResult, error) {

	// --------------------------------------------------
	// 1️⃣ Input validation (no storage access)
	// --------------------------------------------------
	sub := in.Submission.Normalize()
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Double submit guard
	// --------------------------------------------------
	var idem *string
	guardKey := ""
	if key := strings.TrimSpace(in.IdempotencyKey); key != "" {
		idem = &key

		if uc.guard != nil {
			guardKey = fmt.Sprintf("%d:%s", sub.OwnerID, key)
			ok, err := uc.guard.Acquire(ctx, guardKey)
			switch {
			case err != nil:
				uc.log.WithError(err).Warn("submission guard unavailable")
				guardKey = ""
			case !ok:
				return uc.replay(ctx, sub.OwnerID, key)
			}
		}
	}

	// --------------------------------------------------
	// 2️⃣ - 7️⃣ Transaction
	// --------------------------------------------------
	var (
		res *CreateBookingResult
		err error
	)
	for attempt := 1; ; attempt++ {
		res, err = uc.persist(ctx, sub, idem)
		if err == nil || attempt >= maxAttempts || !retryable(err) {
			break
		}
		uc.log.WithError(err).WithField("attempt", attempt).Warn("retrying booking transaction")
	}

	if err != nil {
		if guardKey != "" {
			if rerr := uc.guard.Release(context.WithoutCancel(ctx), guardKey); rerr != nil {
				uc.log.WithError(rerr).Warn("release submission guard")
			}
		}
		if idem != nil && errors.Is(err, domainBooking.ErrIdempotencyKeyTaken) {
			return uc.replay(ctx, sub.OwnerID, *idem)
		}
		return nil, uc.translate(err, sub)
	}

	// --------------------------------------------------
	// 8️⃣ Post-commit side effects (best effort)
	// --------------------------------------------------
	uc.afterCommit(res, sub)

	return res, nil
}

func (uc *CreateBooking) persist(
	ctx context.Context,
	sub domainBooking.Submission,
	idem *string,
) (*CreateBookingResult, error) {

	var out *CreateBookingResult

	err := uc.repo.WithinTx(ctx, func(tx domainBooking.Tx) error {

		// --------------------------------------------------
		// 2️⃣ Owner + service authorization
		// --------------------------------------------------
		owner, err := tx.GetActiveOwner(ctx, sub.OwnerID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domainBooking.ErrInvalidConfiguration
			}
			return err
		}

		loc := timezone.Location(owner.Timezone)
		now := uc.now().In(loc)

		serviceAt, err := sub.ServiceAt(loc)
		if err != nil {
			return err
		}
		if serviceAt.Before(timezone.StartOfDay(now)) {
			return domainBooking.ErrInvalidServiceDate
		}

		covered, err := tx.HasActiveArea(ctx, owner.ID, coverage.Candidates(sub.ZipCode))
		if err != nil {
			return err
		}
		if !covered {
			return coverage.ErrNotCovered
		}

		services, err := tx.ListServicesByIDs(ctx, owner.ID, sub.ServiceIDs)
		if err != nil {
			return err
		}
		if err := authorizeServices(sub.ServiceIDs, services); err != nil {
			return err
		}

		options, err := tx.ListOptionsByServiceIDs(ctx, sub.ServiceIDs)
		if err != nil {
			return err
		}
		if err := checkOptionValues(options, sub.OptionValues); err != nil {
			return err
		}

		// --------------------------------------------------
		// 3️⃣ Authoritative pricing
		// --------------------------------------------------
		priced := pricing.ComputeBookingPricing(services, options, sub.ServiceIDs, sub.OptionValues, decimal.Zero)

		var applied *models.Discount
		if sub.DiscountCode != "" {
			d, err := tx.FindDiscountByCode(ctx, owner.ID, discount.NormalizeCode(sub.DiscountCode))
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}

			amount, err := discount.Validate(d, now, priced.Subtotal)
			if err != nil {
				return err
			}
			priced = priced.WithDiscount(amount)
			applied = d
		}

		// --------------------------------------------------
		// 4️⃣ Root row
		// --------------------------------------------------
		b := &models.Booking{
			OwnerID:         owner.ID,
			Reference:       uc.newReference(),
			CustomerName:    sub.CustomerName,
			CustomerEmail:   sub.CustomerEmail,
			CustomerPhone:   sub.CustomerPhone,
			CustomerAddress: sub.CustomerAddress,
			ZipCode:         sub.ZipCode,
			ServiceDatetime: serviceAt,
			Subtotal:        priced.Subtotal,
			DiscountAmount:  priced.DiscountAmount,
			TotalPrice:      priced.Total,
			Status:          string(domainBooking.InitialStatus()),
			Notes:           sub.Notes,
			IdempotencyKey:  idem,
		}
		if applied != nil {
			b.DiscountCode = applied.Code
		}

		if err := tx.CreateBooking(ctx, b); err != nil {
			return err
		}

		// --------------------------------------------------
		// 5️⃣ Children with price snapshots
		// --------------------------------------------------
		for _, line := range priced.Services {
			row := &models.BookingService{
				BookingID:   b.ID,
				ServiceID:   line.ServiceID,
				ServiceName: line.Name,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				TotalPrice:  line.Total,
			}
			if err := tx.CreateBookingService(ctx, row); err != nil {
				return err
			}
			b.Services = append(b.Services, *row)
		}

		for _, line := range priced.Options {
			row := &models.BookingServiceOption{
				BookingID:       b.ID,
				ServiceID:       line.ServiceID,
				ServiceOptionID: line.OptionID,
				OptionName:      line.Name,
				OptionValue:     line.Value,
				PriceImpact:     line.Impact,
			}
			if err := tx.CreateBookingServiceOption(ctx, row); err != nil {
				return err
			}
			b.Options = append(b.Options, *row)
		}

		// --------------------------------------------------
		// 6️⃣ Discount usage
		// --------------------------------------------------
		if applied != nil {
			ok, err := tx.IncrementDiscountUsage(ctx, applied.ID)
			if err != nil {
				return err
			}
			if !ok {
				return discount.ErrUsageLimitReached
			}
		}

		out = &CreateBookingResult{
			Booking: b,
			Owner:   *owner,
			Pricing: priced,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *CreateBooking) afterCommit(res *CreateBookingResult, sub domainBooking.Submission) {
	b := res.Booking

	entry := uc.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"owner_id":   b.OwnerID,
		"reference":  b.Reference,
	})

	meta := map[string]any{
		"reference": b.Reference,
		"total":     b.TotalPrice.StringFixed(2),
	}

	if sub.ClaimedTotal != "" {
		meta["claimed_total"] = sub.ClaimedTotal
		claimed, err := decimal.NewFromString(sub.ClaimedTotal)
		if err != nil || !claimed.Equal(b.TotalPrice) {
			entry.WithField("claimed_total", sub.ClaimedTotal).
				WithField("total", b.TotalPrice.StringFixed(2)).
				Warn("client total differs from server pricing")
		}
	}

	entry.Info("booking created")

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			OwnerID:  b.OwnerID,
			Action:   "booking_created",
			Entity:   "booking",
			EntityID: &b.ID,
			Metadata: meta,
		})
	}

	if uc.notifier != nil {
		uc.notifier.BookingCreated(res.Owner, *b)
	}
}

// replay returns the booking committed under key. Without one the earlier
// request is still running and the caller gets a duplicate error.
func (uc *CreateBooking) replay(
	ctx context.Context,
	ownerID uint,
	key string,
) (*CreateBookingResult, error) {

	b, err := uc.repo.FindBookingByIdempotencyKey(ctx, ownerID, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.log.WithError(err).WithField("owner_id", ownerID).Warn("idempotent lookup failed")
		}
		return nil, domainBooking.ErrDuplicate
	}

	owner, err := uc.repo.GetActiveOwner(ctx, ownerID)
	if err != nil {
		uc.log.WithError(err).WithField("owner_id", ownerID).Warn("idempotent lookup failed")
		return nil, domainBooking.ErrDuplicate
	}

	uc.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"owner_id":   ownerID,
		"reference":  b.Reference,
	}).Info("booking replayed for idempotency key")

	return &CreateBookingResult{
		Booking:  b,
		Owner:    *owner,
		Pricing:  pricing.BreakdownOf(b),
		Replayed: true,
	}, nil
}

func (uc *CreateBooking) translate(err error, sub domainBooking.Submission) error {
	if httperr.CodeOf(err) != "" {
		return err
	}

	if errors.Is(err, domainBooking.ErrIdempotencyKeyTaken) {
		return domainBooking.ErrDuplicate
	}

	uc.log.WithError(err).WithField("owner_id", sub.OwnerID).Error("booking transaction failed")
	return domainBooking.ErrBookingFailed
}

func retryable(err error) bool {
	return errors.Is(err, domainBooking.ErrReferenceTaken) || errors.Is(err, domain.ErrTransient)
}

// ======================================================
// CHECKS
// ======================================================

// authorizeServices rejects the whole booking when any requested service is
// not an active service of the owner.
func authorizeServices(requested []uint, services []models.Service) error {
	byID := make(map[uint]models.Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	for _, id := range requested {
		s, ok := byID[id]
		if !ok || s.Status != models.ServiceStatusActive {
			return domainBooking.ErrInvalidConfiguration
		}
	}
	return nil
}

func checkOptionValues(options []models.ServiceOption, values map[uint]string) error {
	known := make(map[uint]struct{}, len(options))
	for _, o := range options {
		known[o.ID] = struct{}{}
	}
	for id := range values {
		if _, ok := known[id]; !ok {
			return domainBooking.ErrInvalidConfiguration
		}
	}

	ordered := append([]models.ServiceOption(nil), options...)
	pricing.SortOptions(ordered)

	for _, opt := range ordered {
		spec := pricing.SpecFor(opt)
		value, ok := values[opt.ID]

		if ok {
			if err := spec.Validate(value); err != nil {
				return err
			}
		}
		if opt.IsRequired && !spec.Present(value) {
			return domainBooking.ErrRequiredOptionMissing
		}
	}
	return nil
}
