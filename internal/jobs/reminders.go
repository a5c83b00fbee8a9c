package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/service-booking/internal/domain"
	domainBooking "github.com/BruksfildServices01/service-booking/internal/domain/booking"
	"github.com/BruksfildServices01/service-booking/internal/models"
	"github.com/BruksfildServices01/service-booking/internal/timezone"
)

type reminderRepo interface {
	GetActiveOwner(ctx context.Context, ownerID uint) (*models.Owner, error)
	ListBookingsInWindow(
		ctx context.Context,
		status domainBooking.Status,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)
}

type reminderNotifier interface {
	BookingReminder(owner models.Owner, b models.Booking)
}

// SendReminders notifies customers of confirmed bookings that fall on the
// next calendar day in the owner's timezone. It is meant to run once a day.
type SendReminders struct {
	repo     reminderRepo
	notifier reminderNotifier
	log      *logrus.Logger
	now      func() time.Time
}

func NewSendReminders(repo reminderRepo, notifier reminderNotifier, log *logrus.Logger) *SendReminders {
	return &SendReminders{repo: repo, notifier: notifier, log: log, now: time.Now}
}

func (j *SendReminders) Name() string { return "booking_reminders" }

func (j *SendReminders) Run(ctx context.Context) error {
	now := j.now()

	// Wide enough to hold "tomorrow" in every timezone; narrowed per owner
	// below.
	bookings, err := j.repo.ListBookingsInWindow(
		ctx,
		domainBooking.StatusConfirmed,
		now,
		now.Add(48*time.Hour),
	)
	if err != nil {
		return err
	}

	owners := map[uint]*models.Owner{}
	sent := 0

	for _, b := range bookings {
		owner, ok := owners[b.OwnerID]
		if !ok {
			owner, err = j.repo.GetActiveOwner(ctx, b.OwnerID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			owners[b.OwnerID] = owner
		}
		if owner == nil {
			continue
		}

		loc := timezone.Location(owner.Timezone)
		tomorrow := timezone.StartOfDay(now.In(loc)).AddDate(0, 0, 1)
		if b.ServiceDatetime.In(loc).Format(time.DateOnly) != tomorrow.Format(time.DateOnly) {
			continue
		}

		j.notifier.BookingReminder(*owner, b)
		sent++
	}

	j.log.WithFields(logrus.Fields{
		"candidates": len(bookings),
		"sent":       sent,
	}).Info("booking reminders queued")
	return nil
}
