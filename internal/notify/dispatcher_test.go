package notify

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/service-booking/internal/models"
)

type sent struct {
	to, subject, body string
}

type recorder struct {
	mu    sync.Mutex
	mails []sent
	texts []sent
	fail  bool
}

func (r *recorder) SendEmail(_ context.Context, to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("smtp: connection refused")
	}
	r.mails = append(r.mails, sent{to: to, subject: subject, body: body})
	return nil
}

func (r *recorder) SendSMS(_ context.Context, to, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("twilio: 401")
	}
	r.texts = append(r.texts, sent{to: to, body: body})
	return nil
}

func quiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func sampleBooking() (models.Owner, models.Booking) {
	owner := models.Owner{ID: 1, Name: "Sparkle Cleaning", Email: "owner@sparkle.test", Timezone: "America/Chicago"}
	b := models.Booking{
		ID:              10,
		Reference:       "BK-01TEST",
		CustomerName:    "Dana",
		CustomerEmail:   "dana@example.com",
		CustomerPhone:   "+15550100",
		CustomerAddress: "12 Elm St",
		ZipCode:         "60601",
		ServiceDatetime: time.Date(2026, 11, 2, 15, 0, 0, 0, time.UTC),
		Subtotal:        decimal.RequireFromString("55"),
		DiscountCode:    "SAVE10",
		DiscountAmount:  decimal.RequireFromString("10"),
		TotalPrice:      decimal.RequireFromString("45"),
		Status:          "pending",
		Services: []models.BookingService{
			{ServiceName: "Deep clean", TotalPrice: decimal.RequireFromString("50")},
		},
	}
	return owner, b
}

func TestDispatcher_BookingCreatedNotifiesCustomerAndOwner(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(rec, rec, quiet())

	owner, b := sampleBooking()
	d.BookingCreated(owner, b)
	d.Close()

	require.Len(t, rec.mails, 2)
	assert.Equal(t, "dana@example.com", rec.mails[0].to)
	assert.Contains(t, rec.mails[0].body, "BK-01TEST")
	assert.Contains(t, rec.mails[0].body, "Total: 45.00")
	assert.Contains(t, rec.mails[0].body, "Discount (SAVE10): -10.00")
	assert.Equal(t, "owner@sparkle.test", rec.mails[1].to)

	require.Len(t, rec.texts, 1)
	assert.Equal(t, "+15550100", rec.texts[0].to)
	assert.Contains(t, rec.texts[0].body, "received your booking BK-01TEST")
	assert.NotContains(t, rec.texts[0].body, "is now")
}

func TestDispatcher_FailuresAreSwallowed(t *testing.T) {
	rec := &recorder{fail: true}
	d := NewDispatcher(rec, rec, quiet())

	owner, b := sampleBooking()
	assert.NotPanics(t, func() {
		d.BookingCreated(owner, b)
		d.BookingReminder(owner, b)
		d.Close()
	})
	assert.Empty(t, rec.mails)
}

func TestRender_UsesOwnerTimezone(t *testing.T) {
	owner, b := sampleBooking()

	body, err := render(reminder, owner, b)
	require.NoError(t, err)
	assert.Contains(t, body, "9:00 AM")
}
