package booking

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/service-booking/internal/audit"
	"github.com/BruksfildServices01/service-booking/internal/domain"
	domainBooking "github.com/BruksfildServices01/service-booking/internal/domain/booking"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

// memStore is a transactional in-memory repository. Transactions hold the
// store lock for their whole duration and buffer writes until commit.
type memStore struct {
	mu sync.Mutex

	owners    map[uint]models.Owner
	areas     []models.Area
	services  []models.Service
	options   []models.ServiceOption
	discounts map[uint]*models.Discount

	bookings        []models.Booking
	bookingServices []models.BookingService
	bookingOptions  []models.BookingServiceOption

	nextID uint

	txCalls int

	// failServiceInsert makes the n-th service insert of a transaction fail.
	failServiceInsert int
	failErr           error

	// refCollisions makes the next n root inserts fail with a reference clash.
	refCollisions int
}

func newMemStore() *memStore {
	return &memStore{
		owners:    map[uint]models.Owner{},
		discounts: map[uint]*models.Discount{},
		nextID:    1000,
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

// -------- Reader (unlocked) --------

func (s *memStore) getActiveOwner(ownerID uint) (*models.Owner, error) {
	o, ok := s.owners[ownerID]
	if !ok || !o.Active {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (s *memStore) hasActiveArea(ownerID uint, zips []string) bool {
	for _, a := range s.areas {
		if a.OwnerID != ownerID || !a.Active {
			continue
		}
		for _, z := range zips {
			if a.ZipCode == z {
				return true
			}
		}
	}
	return false
}

func (s *memStore) listServicesByIDs(ownerID uint, ids []uint) []models.Service {
	var out []models.Service
	for _, svc := range s.services {
		if svc.OwnerID != ownerID {
			continue
		}
		for _, id := range ids {
			if svc.ID == id {
				out = append(out, svc)
			}
		}
	}
	return out
}

func (s *memStore) listOptionsByServiceIDs(ids []uint) []models.ServiceOption {
	var out []models.ServiceOption
	for _, o := range s.options {
		for _, id := range ids {
			if o.ServiceID == id {
				out = append(out, o)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) findDiscount(ownerID uint, code string) (*models.Discount, error) {
	for _, d := range s.discounts {
		if d.OwnerID == ownerID && d.Code == code {
			cp := *d
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// -------- Repository --------

func (s *memStore) GetActiveOwner(_ context.Context, ownerID uint) (*models.Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getActiveOwner(ownerID)
}

func (s *memStore) HasActiveArea(_ context.Context, ownerID uint, zips []string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasActiveArea(ownerID, zips), nil
}

func (s *memStore) ListServicesByIDs(_ context.Context, ownerID uint, ids []uint) ([]models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listServicesByIDs(ownerID, ids), nil
}

func (s *memStore) ListOptionsByServiceIDs(_ context.Context, ids []uint) ([]models.ServiceOption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listOptionsByServiceIDs(ids), nil
}

func (s *memStore) FindDiscountByCode(_ context.Context, ownerID uint, code string) (*models.Discount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findDiscount(ownerID, code)
}

func (s *memStore) WithinTx(_ context.Context, fn func(tx domainBooking.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txCalls++
	tx := &memTx{s: s, usage: map[uint]int{}}
	if err := fn(tx); err != nil {
		return err
	}

	s.bookings = append(s.bookings, tx.bookings...)
	s.bookingServices = append(s.bookingServices, tx.services...)
	s.bookingOptions = append(s.bookingOptions, tx.options...)
	for id, n := range tx.usage {
		s.discounts[id].UsageCount += n
	}
	return nil
}

func (s *memStore) FindBookingByIdempotencyKey(ctx context.Context, ownerID uint, key string) (*models.Booking, error) {
	s.mu.Lock()
	var id uint
	for _, b := range s.bookings {
		if b.OwnerID == ownerID && b.IdempotencyKey != nil && *b.IdempotencyKey == key {
			id = b.ID
			break
		}
	}
	s.mu.Unlock()

	if id == 0 {
		return nil, domain.ErrNotFound
	}
	return s.GetBooking(ctx, ownerID, id)
}

func (s *memStore) GetBooking(_ context.Context, ownerID, bookingID uint) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bookings {
		if b.ID != bookingID || b.OwnerID != ownerID {
			continue
		}
		b.Services = nil
		b.Options = nil
		for _, row := range s.bookingServices {
			if row.BookingID == b.ID {
				b.Services = append(b.Services, row)
			}
		}
		for _, row := range s.bookingOptions {
			if row.BookingID == b.ID {
				b.Options = append(b.Options, row)
			}
		}
		return &b, nil
	}
	return nil, domain.ErrNotFound
}

func (s *memStore) ListBookings(_ context.Context, ownerID uint, f domainBooking.ListFilter) ([]models.Booking, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Booking
	for _, b := range s.bookings {
		if b.OwnerID != ownerID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (s *memStore) UpdateBookingStatus(_ context.Context, b *models.Booking, from domainBooking.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.bookings {
		if s.bookings[i].ID == b.ID {
			if s.bookings[i].Status != string(from) {
				return domain.ErrConflict
			}
			s.bookings[i].Status = b.Status
			s.bookings[i].StatusChangedAt = b.StatusChangedAt
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *memStore) ListBookingsInWindow(_ context.Context, status domainBooking.Status, start, end time.Time) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Booking
	for _, b := range s.bookings {
		if b.Status == string(status) && !b.ServiceDatetime.Before(start) && b.ServiceDatetime.Before(end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memStore) usageOf(id uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discounts[id].UsageCount
}

func (s *memStore) counts() (bookings, services, options int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings), len(s.bookingServices), len(s.bookingOptions)
}

// -------- Tx --------

type memTx struct {
	s *memStore

	bookings []models.Booking
	services []models.BookingService
	options  []models.BookingServiceOption
	usage    map[uint]int

	serviceInserts int
}

func (t *memTx) GetActiveOwner(_ context.Context, ownerID uint) (*models.Owner, error) {
	return t.s.getActiveOwner(ownerID)
}

func (t *memTx) HasActiveArea(_ context.Context, ownerID uint, zips []string) (bool, error) {
	return t.s.hasActiveArea(ownerID, zips), nil
}

func (t *memTx) ListServicesByIDs(_ context.Context, ownerID uint, ids []uint) ([]models.Service, error) {
	return t.s.listServicesByIDs(ownerID, ids), nil
}

func (t *memTx) ListOptionsByServiceIDs(_ context.Context, ids []uint) ([]models.ServiceOption, error) {
	return t.s.listOptionsByServiceIDs(ids), nil
}

func (t *memTx) FindDiscountByCode(_ context.Context, ownerID uint, code string) (*models.Discount, error) {
	d, err := t.s.findDiscount(ownerID, code)
	if err != nil {
		return nil, err
	}
	d.UsageCount += t.usage[d.ID]
	return d, nil
}

func (t *memTx) CreateBooking(_ context.Context, b *models.Booking) error {
	if t.s.refCollisions > 0 {
		t.s.refCollisions--
		return domainBooking.ErrReferenceTaken
	}
	if b.IdempotencyKey != nil {
		for _, existing := range t.s.bookings {
			if existing.IdempotencyKey != nil && *existing.IdempotencyKey == *b.IdempotencyKey {
				return domainBooking.ErrIdempotencyKeyTaken
			}
		}
	}

	b.ID = t.s.id()
	b.CreatedAt = time.Now()
	t.bookings = append(t.bookings, *b)
	return nil
}

func (t *memTx) CreateBookingService(_ context.Context, row *models.BookingService) error {
	t.serviceInserts++
	if t.s.failServiceInsert > 0 && t.serviceInserts == t.s.failServiceInsert {
		return t.s.failErr
	}
	row.ID = t.s.id()
	t.services = append(t.services, *row)
	return nil
}

func (t *memTx) CreateBookingServiceOption(_ context.Context, row *models.BookingServiceOption) error {
	row.ID = t.s.id()
	t.options = append(t.options, *row)
	return nil
}

func (t *memTx) IncrementDiscountUsage(_ context.Context, id uint) (bool, error) {
	d, ok := t.s.discounts[id]
	if !ok || !d.Active {
		return false, nil
	}
	if d.UsageLimit > 0 && d.UsageCount+t.usage[id] >= d.UsageLimit {
		return false, nil
	}
	t.usage[id]++
	return true, nil
}

var (
	_ domainBooking.Repository = (*memStore)(nil)
	_ domainBooking.Tx         = (*memTx)(nil)
)

// -------- Side effect recorders --------

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingAuditor) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingAuditor) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Action)
	}
	return out
}

type recordingNotifier struct {
	mu      sync.Mutex
	created []models.Booking
	changed []models.Booking
}

func (r *recordingNotifier) BookingCreated(_ models.Owner, b models.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, b)
}

func (r *recordingNotifier) StatusChanged(_ models.Owner, b models.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changed = append(r.changed, b)
}

// -------- Fixture --------

var fixedNow = time.Date(2026, 10, 18, 16, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// seededStore has one owner (id 1) covering 10001 with:
//
//	service 1  Deep Clean   50.00  option 10: checkbox +10%
//	service 2  Windows      30.00  inactive
//	service 3  Move Out     40.00  option 12: required text
//	service 4  belongs to owner 2
//	discount 7 SAVE10 fixed 10.00, limit 3
func seededStore() *memStore {
	s := newMemStore()
	s.owners[1] = models.Owner{ID: 1, Name: "Sparkle Co", Slug: "sparkle", Timezone: "America/New_York", Active: true}
	s.owners[2] = models.Owner{ID: 2, Name: "Other", Slug: "other", Timezone: "UTC", Active: true}

	s.areas = []models.Area{
		{ID: 1, OwnerID: 1, ZipCode: "10001", Active: true},
		{ID: 2, OwnerID: 2, ZipCode: "00000", Active: true},
	}

	s.services = []models.Service{
		{ID: 1, OwnerID: 1, Name: "Deep Clean", Price: dec("50.00"), Status: models.ServiceStatusActive},
		{ID: 2, OwnerID: 1, Name: "Windows", Price: dec("30.00"), Status: models.ServiceStatusInactive},
		{ID: 3, OwnerID: 1, Name: "Move Out", Price: dec("40.00"), Status: models.ServiceStatusActive},
		{ID: 4, OwnerID: 2, Name: "Foreign", Price: dec("10.00"), Status: models.ServiceStatusActive},
	}

	s.options = []models.ServiceOption{
		{ID: 10, ServiceID: 1, Name: "Eco products", Type: "checkbox", PriceType: "percentage", PriceImpact: dec("10")},
		{ID: 12, ServiceID: 3, Name: "Gate code", Type: "text", PriceType: "none", IsRequired: true},
	}

	s.discounts[7] = &models.Discount{
		ID: 7, OwnerID: 1, Code: "SAVE10", Type: "fixed", Amount: dec("10.00"), UsageLimit: 3, Active: true,
	}
	return s
}

func validSubmission() domainBooking.Submission {
	return domainBooking.Submission{
		OwnerID:         1,
		CustomerName:    "Ada Lovelace",
		CustomerEmail:   "Ada@Example.com",
		CustomerPhone:   "+15550100",
		CustomerAddress: "1 Main St",
		ZipCode:         "10001",
		ServiceDate:     "2026-10-25",
		ServiceTime:     "10:30",
		ServiceIDs:      []uint{1},
		OptionValues:    map[uint]string{10: "1"},
	}
}
