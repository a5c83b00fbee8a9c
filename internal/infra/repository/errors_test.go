package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-booking/internal/domain"
	"github.com/BruksfildServices01/service-booking/internal/domain/booking"
)

func TestTranslate(t *testing.T) {
	plain := errors.New("boom")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"not found", gorm.ErrRecordNotFound, domain.ErrNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound), domain.ErrNotFound},
		{
			"reference taken",
			&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraintBookingReference},
			booking.ErrReferenceTaken,
		},
		{
			"idempotency key taken",
			&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraintBookingIdempotency},
			booking.ErrIdempotencyKeyTaken,
		},
		{
			"other unique violation",
			&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "idx_areas_owner_zip"},
			domain.ErrConflict,
		},
		{"value too long", &pgconn.PgError{Code: pgerrcode.StringDataRightTruncationDataException}, booking.ErrFieldTooLong},
		{"serialization failure", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, domain.ErrTransient},
		{"deadlock", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, domain.ErrTransient},
		{"connection failure", &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, domain.ErrTransient},
		{"unrelated", plain, plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestTranslate_CheckViolationPassesThrough(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.CheckViolation}

	got := translate(pgErr)

	assert.Same(t, pgErr, got)
	assert.False(t, IsConflict(got))
}

func TestIsConflict_AcceptsRawAndTranslated(t *testing.T) {
	raw := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "idx_discounts_owner_code"})

	assert.True(t, IsConflict(raw))
	assert.True(t, IsConflict(translate(raw)))
	assert.False(t, IsConflict(gorm.ErrRecordNotFound))
}
