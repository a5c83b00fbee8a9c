package booking

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/service-booking/internal/audit"
	"github.com/BruksfildServices01/service-booking/internal/domain"
	domainBooking "github.com/BruksfildServices01/service-booking/internal/domain/booking"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

type ChangeStatusInput struct {
	OwnerID   uint
	UserID    uint
	BookingID uint
	Status    string
}

// ChangeBookingStatus moves a booking along the status graph. Prices and
// snapshot rows are never touched here.
type ChangeBookingStatus struct {
	repo     domainBooking.Repository
	audit    Auditor
	notifier Notifier
	log      *logrus.Logger
	now      func() time.Time
}

func NewChangeBookingStatus(
	repo domainBooking.Repository,
	audit Auditor,
	notifier Notifier,
	log *logrus.Logger,
) *ChangeBookingStatus {
	return &ChangeBookingStatus{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

func (uc *ChangeBookingStatus) Execute(
	ctx context.Context,
	in ChangeStatusInput,
) (*models.Booking, error) {

	if !domainBooking.IsValidStatus(in.Status) {
		return nil, domainBooking.ErrInvalidTransition
	}

	b, err := uc.repo.GetBooking(ctx, in.OwnerID, in.BookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domainBooking.ErrNotFound
		}
		return nil, err
	}

	from := b.Status
	if err := domainBooking.Transition(b, domainBooking.Status(in.Status), uc.now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBookingStatus(ctx, b, domainBooking.Status(from)); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domainBooking.ErrInvalidTransition
		}
		return nil, err
	}

	uc.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"owner_id":   b.OwnerID,
		"from":       from,
		"to":         b.Status,
	}).Info("booking status changed")

	if uc.audit != nil {
		userID := in.UserID
		uc.audit.Dispatch(audit.Event{
			OwnerID:  b.OwnerID,
			UserID:   &userID,
			Action:   "booking_status_changed",
			Entity:   "booking",
			EntityID: &b.ID,
			Metadata: map[string]any{
				"reference": b.Reference,
				"from":      from,
				"to":        b.Status,
			},
		})
	}

	if uc.notifier != nil {
		owner, err := uc.repo.GetActiveOwner(ctx, b.OwnerID)
		if err != nil {
			uc.log.WithError(err).WithField("booking_id", b.ID).Warn("status notification skipped")
		} else {
			uc.notifier.StatusChanged(*owner, *b)
		}
	}

	return b, nil
}
