package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	shared "github.com/BruksfildServices01/service-booking/internal/domain"
	domain "github.com/BruksfildServices01/service-booking/internal/domain/booking"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type BookingGormRepository struct {
	queries
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{queries{db: db}}
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *BookingGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx domain.Tx) error,
) error {

	err := r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&bookingGormTx{queries{db: db}})
	})
	return translate(err)
}

type bookingGormTx struct {
	queries
}

func (t *bookingGormTx) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	// children are written explicitly so each insert can fail on its own
	return translate(t.db.WithContext(ctx).Omit("Services", "Options").Create(b).Error)
}

func (t *bookingGormTx) CreateBookingService(
	ctx context.Context,
	s *models.BookingService,
) error {
	return translate(t.db.WithContext(ctx).Create(s).Error)
}

func (t *bookingGormTx) CreateBookingServiceOption(
	ctx context.Context,
	o *models.BookingServiceOption,
) error {
	return translate(t.db.WithContext(ctx).Create(o).Error)
}

func (t *bookingGormTx) IncrementDiscountUsage(
	ctx context.Context,
	discountID uint,
) (bool, error) {

	res := t.db.WithContext(ctx).
		Model(&models.Discount{}).
		Where(
			"id = ? AND active = ? AND (usage_limit = 0 OR usage_count < usage_limit)",
			discountID,
			true,
		).
		UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1))

	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// --------------------------------------------------
// Booking (owner side)
// --------------------------------------------------

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	ownerID uint,
	bookingID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("id = ? AND owner_id = ?", bookingID, ownerID).
		First(&b).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) FindBookingByIdempotencyKey(
	ctx context.Context,
	ownerID uint,
	key string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("owner_id = ? AND idempotency_key = ?", ownerID, key).
		First(&b).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	ownerID uint,
	filter domain.ListFilter,
) ([]models.Booking, int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("owner_id = ?", ownerID)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		q = q.Where("service_datetime >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("service_datetime < ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	var bookings []models.Booking
	if err := q.
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Order("service_datetime DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&bookings).Error; err != nil {
		return nil, 0, translate(err)
	}

	return bookings, total, nil
}

func (r *BookingGormRepository) UpdateBookingStatus(
	ctx context.Context,
	b *models.Booking,
	from domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND owner_id = ? AND status = ?", b.ID, b.OwnerID, string(from)).
		Updates(map[string]any{
			"status":            b.Status,
			"status_changed_at": b.StatusChangedAt,
			"updated_at":        time.Now(),
		})

	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: booking %d is no longer %s", shared.ErrConflict, b.ID, from)
	}
	return nil
}

// --------------------------------------------------
// Reminders
// --------------------------------------------------

func (r *BookingGormRepository) ListBookingsInWindow(
	ctx context.Context,
	status domain.Status,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Services", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where(
			"status = ? AND service_datetime >= ? AND service_datetime < ?",
			string(status), start, end,
		).
		Order("owner_id ASC, service_datetime ASC").
		Find(&bookings).Error; err != nil {
		return nil, translate(err)
	}
	return bookings, nil
}

// Compile-time check
var (
	_ domain.Repository = (*BookingGormRepository)(nil)
	_ domain.Tx         = (*bookingGormTx)(nil)
)
