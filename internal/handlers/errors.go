package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/service-booking/internal/domain"
	domainBooking "github.com/BruksfildServices01/service-booking/internal/domain/booking"
	domainCatalog "github.com/BruksfildServices01/service-booking/internal/domain/catalog"
	"github.com/BruksfildServices01/service-booking/internal/domain/coverage"
	"github.com/BruksfildServices01/service-booking/internal/domain/discount"
	"github.com/BruksfildServices01/service-booking/internal/domain/pricing"
	"github.com/BruksfildServices01/service-booking/internal/httperr"
	ucBooking "github.com/BruksfildServices01/service-booking/internal/usecase/booking"
)

// ======================================================
// CODE → HTTP
// ======================================================

type errorSpec struct {
	status  int
	message string
}

var errorSpecs = map[string]errorSpec{
	// validation
	"invalid_request":                      {http.StatusBadRequest, "Invalid request."},
	domainBooking.CodeMissingField:         {http.StatusBadRequest, "Please fill in all required fields."},
	domainBooking.CodeInvalidEmail:         {http.StatusBadRequest, "Please enter a valid email address."},
	domainBooking.CodeFieldTooLong:         {http.StatusBadRequest, "One of the fields is too long."},
	coverage.CodeInvalidZip:                {http.StatusBadRequest, "Please enter a valid ZIP code."},
	domainBooking.CodeInvalidServiceDate:   {http.StatusBadRequest, "Please choose a valid service date."},
	domainBooking.CodeNoServices:           {http.StatusBadRequest, "Please select at least one service."},
	pricing.CodeInvalidOptionValue:         {http.StatusBadRequest, "One of the selected options has an invalid value."},
	ucBooking.CodeInvalidFilter:            {http.StatusBadRequest, "Invalid filter."},
	domainBooking.CodeInvalidConfiguration: {http.StatusBadRequest, "The selected services could not be booked."},

	// business rejections
	coverage.CodeNotCovered:                 {http.StatusUnprocessableEntity, "Sorry, we do not service this area yet."},
	discount.CodeInvalid:                    {http.StatusUnprocessableEntity, "This discount code is not valid."},
	discount.CodeExpired:                    {http.StatusUnprocessableEntity, "This discount code has expired."},
	discount.CodeUsageLimitReached:          {http.StatusUnprocessableEntity, "This discount code is no longer available."},
	domainBooking.CodeRequiredOptionMissing: {http.StatusUnprocessableEntity, "Please complete all required options."},
	domainBooking.CodeInvalidTransition:     {http.StatusUnprocessableEntity, "This status change is not allowed."},

	// lookups
	coverage.CodeUnknownOwner:         {http.StatusNotFound, "Business not found."},
	domainCatalog.CodeServiceNotFound: {http.StatusNotFound, "Service not found."},
	domainBooking.CodeNotFound:        {http.StatusNotFound, "Booking not found."},

	domainBooking.CodeDuplicateSubmission: {http.StatusConflict, "This booking was already submitted."},
}

const unavailableMessage = "We could not complete your request. Please try again."

// writeError renders err as the JSON error body. Unknown errors are
// infrastructure failures: logged, reported as retryable and never leaked.
func writeError(c *gin.Context, log *logrus.Logger, err error) {
	code := httperr.CodeOf(err)

	if code == "" && errors.Is(err, domain.ErrNotFound) {
		httperr.NotFound(c, "not_found", "Not found.")
		return
	}

	if spec, ok := errorSpecs[code]; ok {
		httperr.Write(c, spec.status, code, spec.message)
		return
	}

	if log != nil && code != domainBooking.CodeBookingFailed {
		log.WithError(err).
			WithField("path", c.FullPath()).
			Error("request failed")
	}
	httperr.Unavailable(c, domainBooking.CodeBookingFailed, unavailableMessage)
}

func badRequest(c *gin.Context, err error) {
	body := gin.H{
		"error_code": "invalid_request",
		"message":    "Invalid request.",
	}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}
