package booking

import (
	"errors"

	"github.com/BruksfildServices01/service-booking/internal/httperr"
)

const (
	CodeMissingField          = "missing_field"
	CodeInvalidEmail          = "invalid_email"
	CodeFieldTooLong          = "field_too_long"
	CodeInvalidServiceDate    = "invalid_service_date"
	CodeNoServices            = "no_services_selected"
	CodeInvalidConfiguration  = "invalid_booking_configuration"
	CodeRequiredOptionMissing = "required_option_missing"
	CodeInvalidTransition     = "invalid_transition"
	CodeNotFound              = "booking_not_found"
	CodeDuplicateSubmission   = "duplicate_submission"
	CodeBookingFailed         = "booking_failed"
)

var (
	ErrMissingField          = httperr.ErrBusiness(CodeMissingField)
	ErrInvalidEmail          = httperr.ErrBusiness(CodeInvalidEmail)
	ErrFieldTooLong          = httperr.ErrBusiness(CodeFieldTooLong)
	ErrInvalidServiceDate    = httperr.ErrBusiness(CodeInvalidServiceDate)
	ErrNoServices            = httperr.ErrBusiness(CodeNoServices)
	ErrInvalidConfiguration  = httperr.ErrBusiness(CodeInvalidConfiguration)
	ErrRequiredOptionMissing = httperr.ErrBusiness(CodeRequiredOptionMissing)
	ErrInvalidTransition     = httperr.ErrBusiness(CodeInvalidTransition)
	ErrNotFound              = httperr.ErrBusiness(CodeNotFound)
	ErrDuplicate             = httperr.ErrBusiness(CodeDuplicateSubmission)

	// ErrBookingFailed is what callers see for any storage failure: nothing
	// was written and the request can be retried.
	ErrBookingFailed = httperr.ErrBusiness(CodeBookingFailed)
)

// Storage-level conflicts raised by repositories on unique indexes.
var (
	ErrReferenceTaken      = errors.New("booking reference already used")
	ErrIdempotencyKeyTaken = errors.New("idempotency key already used")
)
