package repository

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-booking/internal/domain"
	"github.com/BruksfildServices01/service-booking/internal/domain/booking"
)

// Unique index names declared on the models.
const (
	constraintBookingReference   = "idx_bookings_reference"
	constraintBookingIdempotency = "idx_bookings_idempotency_key"
)

// translate maps driver errors onto the domain sentinels. Errors it does not
// recognise are returned unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}

	if errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case pgErr.Code == pgerrcode.UniqueViolation:
		switch pgErr.ConstraintName {
		case constraintBookingReference:
			return booking.ErrReferenceTaken
		case constraintBookingIdempotency:
			return booking.ErrIdempotencyKeyTaken
		}
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)

	case pgErr.Code == pgerrcode.StringDataRightTruncationDataException:
		return booking.ErrFieldTooLong

	case pgErr.Code == pgerrcode.SerializationFailure,
		pgErr.Code == pgerrcode.DeadlockDetected,
		pgerrcode.IsConnectionException(pgErr.Code):
		return fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}

	return err
}

// IsConflict reports whether err, raw from gorm or already translated, came
// from a unique constraint.
func IsConflict(err error) bool {
	return errors.Is(translate(err), domain.ErrConflict)
}
