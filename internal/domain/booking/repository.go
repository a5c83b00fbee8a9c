package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/service-booking/internal/models"
)

// Reader holds the lookups the booking write path needs. Every method is
// also available inside a transaction.
type Reader interface {
	// -------- Owner / coverage --------
	GetActiveOwner(
		ctx context.Context,
		ownerID uint,
	) (*models.Owner, error)

	HasActiveArea(
		ctx context.Context,
		ownerID uint,
		zips []string,
	) (bool, error)

	// -------- Catalog --------
	ListServicesByIDs(
		ctx context.Context,
		ownerID uint,
		ids []uint,
	) ([]models.Service, error)

	ListOptionsByServiceIDs(
		ctx context.Context,
		serviceIDs []uint,
	) ([]models.ServiceOption, error)

	// -------- Discount --------
	FindDiscountByCode(
		ctx context.Context,
		ownerID uint,
		code string,
	) (*models.Discount, error)
}

// Tx is the unit of work for one booking submission.
type Tx interface {
	Reader

	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	CreateBookingService(
		ctx context.Context,
		s *models.BookingService,
	) error

	CreateBookingServiceOption(
		ctx context.Context,
		o *models.BookingServiceOption,
	) error

	// IncrementDiscountUsage bumps usage_count in a single conditional
	// update and reports false when the limit was already reached.
	IncrementDiscountUsage(
		ctx context.Context,
		discountID uint,
	) (bool, error)
}

type ListFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

type Repository interface {
	Reader

	// WithinTx runs fn in one database transaction. Any error returned by fn
	// rolls back every write made through tx.
	WithinTx(
		ctx context.Context,
		fn func(tx Tx) error,
	) error

	// -------- Booking (owner side) --------
	GetBooking(
		ctx context.Context,
		ownerID uint,
		bookingID uint,
	) (*models.Booking, error)

	ListBookings(
		ctx context.Context,
		ownerID uint,
		filter ListFilter,
	) ([]models.Booking, int64, error)

	// FindBookingByIdempotencyKey returns the booking committed under key,
	// with its snapshot rows.
	FindBookingByIdempotencyKey(
		ctx context.Context,
		ownerID uint,
		key string,
	) (*models.Booking, error)

	// UpdateBookingStatus writes b.Status only if the stored status is
	// still from. A lost race returns domain.ErrConflict.
	UpdateBookingStatus(
		ctx context.Context,
		b *models.Booking,
		from Status,
	) error

	// -------- Reminders --------
	ListBookingsInWindow(
		ctx context.Context,
		status Status,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)
}
