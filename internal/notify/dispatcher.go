package notify

import (
	"context"
	"sync"
	"text/template"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/service-booking/internal/models"
)

type kind int

const (
	kindCreated kind = iota
	kindReminder
	kindStatusChanged
)

type job struct {
	kind    kind
	owner   models.Owner
	booking models.Booking
}

// Dispatcher sends booking notifications in the background. Delivery is
// best effort: failures are logged and dropped, never returned to callers.
type Dispatcher struct {
	email   EmailSender
	sms     SMSSender
	log     *logrus.Logger
	timeout time.Duration

	queue chan job
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(email EmailSender, sms SMSSender, log *logrus.Logger) *Dispatcher {
	if email == nil {
		email = NopSender{}
	}
	if sms == nil {
		sms = NopSender{}
	}

	d := &Dispatcher{
		email:   email,
		sms:     sms,
		log:     log,
		timeout: 30 * time.Second,
		queue:   make(chan job, 256),
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) BookingCreated(owner models.Owner, b models.Booking) {
	d.enqueue(job{kind: kindCreated, owner: owner, booking: b})
}

func (d *Dispatcher) BookingReminder(owner models.Owner, b models.Booking) {
	d.enqueue(job{kind: kindReminder, owner: owner, booking: b})
}

func (d *Dispatcher) StatusChanged(owner models.Owner, b models.Booking) {
	d.enqueue(job{kind: kindStatusChanged, owner: owner, booking: b})
}

// Close stops accepting notifications and waits for queued ones.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}

func (d *Dispatcher) enqueue(j job) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- j:
	default:
		d.log.WithField("reference", j.booking.Reference).Warn("notification queue full, dropping")
	}
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for j := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		d.deliver(ctx, j)
		cancel()
	}
}

func (d *Dispatcher) deliver(ctx context.Context, j job) {
	entry := d.log.WithFields(logrus.Fields{
		"booking_id": j.booking.ID,
		"reference":  j.booking.Reference,
		"owner_id":   j.owner.ID,
	})

	b := j.booking

	switch j.kind {
	case kindCreated:
		d.sendEmail(ctx, entry, b.CustomerEmail, "Booking received: "+b.Reference, customerConfirmation, j)
		if j.owner.Email != "" {
			d.sendEmail(ctx, entry, j.owner.Email, "New booking "+b.Reference, ownerConfirmation, j)
		}
		d.sendSMS(ctx, entry, b.CustomerPhone, customerReceived, j)

	case kindReminder:
		d.sendEmail(ctx, entry, b.CustomerEmail, "Reminder: "+j.owner.Name+" tomorrow", reminder, j)
		d.sendSMS(ctx, entry, b.CustomerPhone, reminder, j)

	case kindStatusChanged:
		d.sendEmail(ctx, entry, b.CustomerEmail, "Booking "+b.Reference+" "+b.Status, statusChanged, j)
		d.sendSMS(ctx, entry, b.CustomerPhone, statusChanged, j)
	}
}

func (d *Dispatcher) sendEmail(
	ctx context.Context,
	entry *logrus.Entry,
	to string,
	subject string,
	tpl *template.Template,
	j job,
) {
	if to == "" {
		return
	}

	body, err := render(tpl, j.owner, j.booking)
	if err != nil {
		entry.WithError(err).Error("render email")
		return
	}

	if err := d.email.SendEmail(ctx, to, subject, body); err != nil {
		entry.WithError(err).Warn("email notification failed")
	}
}

func (d *Dispatcher) sendSMS(
	ctx context.Context,
	entry *logrus.Entry,
	to string,
	tpl *template.Template,
	j job,
) {
	if to == "" {
		return
	}

	body, err := render(tpl, j.owner, j.booking)
	if err != nil {
		entry.WithError(err).Error("render sms")
		return
	}

	if err := d.sms.SendSMS(ctx, to, body); err != nil {
		entry.WithError(err).Warn("sms notification failed")
	}
}
