package bookingflow

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/service-booking/internal/apiclient"
	"github.com/BruksfildServices01/service-booking/internal/domain/booking"
	"github.com/BruksfildServices01/service-booking/internal/domain/coverage"
	"github.com/BruksfildServices01/service-booking/internal/domain/pricing"
	"github.com/BruksfildServices01/service-booking/internal/dto"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

// Reduce returns the state after ev. It is pure: s is left untouched and no
// I/O happens here. Work to be done next is reported in Pending.
func Reduce(s State, ev Event) State {
	s = s.clone()
	s.Pending = EffectNone

	switch e := ev.(type) {

	// --------------------------------------------------
	// ZIP
	// --------------------------------------------------
	case ZipEntered:
		if s.Step != StepZipEntry {
			return s
		}
		s.Zip = coverage.Normalize(e.Zip)
		s.ZipCovered = false
		s.Notice = ""
		if err := coverage.ValidateZIP(s.Zip); err != nil {
			s.Failure = validation(coverage.CodeInvalidZip, "enter a 5 digit ZIP code (or ZIP+4)")
			return s
		}
		s.Failure = nil
		s.Loading = true
		s.Pending = EffectCheckCoverage

	case CoverageChecked:
		if s.Step != StepZipEntry || e.Zip != s.Zip {
			return s
		}
		s.Loading = false
		s.ZipCovered = e.Covered
		s.Notice = e.Message
		if !e.Covered {
			s.Failure = &Failure{Class: apiclient.ClassRejection, Code: coverage.CodeNotCovered, Message: e.Message}
			return s
		}
		s.Failure = nil
		s.Pending = EffectAutoAdvance

	case AutoAdvance:
		if s.Step == StepZipEntry && s.ZipCovered && e.Zip == s.Zip {
			return next(s)
		}

	// --------------------------------------------------
	// Services / options
	// --------------------------------------------------
	case ServicesLoaded:
		s.Loading = false
		s.Services = append([]dto.ServiceItem(nil), e.Services...)

	case ToggleService:
		if s.Step != StepServiceSelection || !s.offers(e.ServiceID) {
			return s
		}
		s.Failure = nil
		if s.IsSelected(e.ServiceID) {
			kept := s.Selected[:0]
			for _, id := range s.Selected {
				if id != e.ServiceID {
					kept = append(kept, id)
				}
			}
			s.Selected = kept
		} else {
			s.Selected = append(s.Selected, e.ServiceID)
		}

	case OptionsLoaded:
		if s.Step != StepServiceSelection {
			return s
		}
		s.Loading = false
		s.Options = make(map[uint][]models.ServiceOption, len(s.Selected))
		for _, id := range s.Selected {
			s.Options[id] = append([]models.ServiceOption(nil), e.Options[id]...)
		}

		offered := map[uint]models.ServiceOption{}
		for _, opt := range s.SelectedOptions() {
			offered[opt.ID] = opt
		}
		for id := range s.Values {
			if _, ok := offered[id]; !ok {
				delete(s.Values, id)
			}
		}
		for id, opt := range offered {
			if _, ok := s.Values[id]; !ok && opt.DefaultValue != "" {
				s.Values[id] = opt.DefaultValue
			}
		}

		if s.hasOptions() {
			s.Step = StepOptionConfiguration
		} else {
			s.Step = StepCustomerInfo
		}

	case SetOption:
		if s.Step != StepOptionConfiguration {
			return s
		}
		s.Values[e.OptionID] = e.Value

	case SetCustomer:
		if s.Step != StepCustomerInfo {
			return s
		}
		s.Customer = e.Customer

	// --------------------------------------------------
	// Discount
	// --------------------------------------------------
	case SetDiscountCode:
		if s.Step != StepReview || s.Submitting {
			return s
		}
		s.DiscountCode = strings.TrimSpace(e.Code)
		s.DiscountAmount = decimal.Zero
		s.DiscountError = ""
		s.Failure = nil
		s.Preview = preview(s)
		if s.DiscountCode != "" {
			s.Loading = true
			s.Pending = EffectApplyDiscount
		}

	case DiscountApplied:
		if e.Code != s.DiscountCode {
			return s
		}
		s.Loading = false
		s.DiscountAmount = e.Amount
		s.Preview = preview(s)

	case DiscountRejected:
		if e.Code != s.DiscountCode {
			return s
		}
		f := e.Failure
		s.Loading = false
		s.DiscountCode = ""
		s.DiscountAmount = decimal.Zero
		s.DiscountError = f.Code
		s.Failure = &f
		s.Preview = preview(s)

	// --------------------------------------------------
	// Navigation
	// --------------------------------------------------
	case Next:
		return next(s)

	case Prev:
		return prev(s)

	// --------------------------------------------------
	// Submission
	// --------------------------------------------------
	case Submit:
		if s.Step != StepReview || s.Submitting {
			return s
		}
		if s.IdempotencyKey == "" {
			s.IdempotencyKey = e.IdempotencyKey
		}
		s.Submitting = true
		s.Failure = nil
		s.Pending = EffectSubmit

	case SubmitSucceeded:
		s.Submitting = false
		s.Loading = false
		s.Failure = nil
		s.Step = StepSubmitted
		s.BookingID = e.BookingID
		s.Reference = e.Reference

	case RequestFailed:
		f := e.Failure
		s.Loading = false
		if e.Effect == EffectSubmit {
			s.Submitting = false
		}
		s.Failure = &f
	}

	return s
}

func next(s State) State {
	switch s.Step {
	case StepZipEntry:
		if !s.ZipCovered {
			s.Failure = validation(coverage.CodeInvalidZip, "check your ZIP code first")
			return s
		}
		s.Step = StepServiceSelection
		s.Failure = nil
		if len(s.Services) == 0 {
			s.Loading = true
			s.Pending = EffectLoadServices
		}

	case StepServiceSelection:
		if len(s.Selected) == 0 {
			s.Failure = validation(booking.CodeNoServices, "select at least one service")
			return s
		}
		s.Failure = nil
		s.Loading = true
		s.Pending = EffectLoadOptions

	case StepOptionConfiguration:
		if f := checkOptions(s); f != nil {
			s.Failure = f
			return s
		}
		s.Failure = nil
		s.Step = StepCustomerInfo

	case StepCustomerInfo:
		if f := checkCustomer(s.Customer); f != nil {
			s.Failure = f
			return s
		}
		s.Failure = nil
		s.Step = StepReview
		s.Preview = preview(s)
	}

	return s
}

func prev(s State) State {
	switch s.Step {
	case StepZipEntry, StepSubmitted:
		return s
	case StepServiceSelection:
		s.Step = StepZipEntry
	case StepOptionConfiguration:
		s.Step = StepServiceSelection
	case StepCustomerInfo:
		if s.hasOptions() {
			s.Step = StepOptionConfiguration
		} else {
			s.Step = StepServiceSelection
		}
	case StepReview:
		s.Step = StepCustomerInfo
	}

	s.Failure = nil
	s.Loading = false
	return s
}

// ======================================================
// Gates
// ======================================================

func checkOptions(s State) *Failure {
	for _, opt := range s.SelectedOptions() {
		spec := pricing.SpecFor(opt)
		value := s.Values[opt.ID]

		if opt.IsRequired && !spec.Present(value) {
			return validation(booking.CodeRequiredOptionMissing, opt.Name+" is required")
		}
		if value != "" && spec.Validate(value) != nil {
			return validation(pricing.CodeInvalidOptionValue, opt.Name+" has an invalid value")
		}
	}
	return nil
}

func checkCustomer(c Customer) *Failure {
	if strings.TrimSpace(c.Name) == "" ||
		strings.TrimSpace(c.Email) == "" ||
		strings.TrimSpace(c.Address) == "" ||
		strings.TrimSpace(c.ServiceDate) == "" {
		return validation(booking.CodeMissingField, "name, email, address and date are required")
	}

	contact := booking.Contact{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
		Notes:   strings.TrimSpace(c.Notes),
	}
	if field := contact.TooLong(); field != "" {
		return validation(booking.CodeFieldTooLong, field+" is too long")
	}

	if !booking.IsValidEmail(strings.TrimSpace(c.Email)) {
		return validation(booking.CodeInvalidEmail, "enter a valid email address")
	}

	if _, err := time.Parse(booking.DateLayout, strings.TrimSpace(c.ServiceDate)); err != nil {
		return validation(booking.CodeInvalidServiceDate, "use the YYYY-MM-DD date format")
	}
	return nil
}

// ======================================================
// Pricing preview
// ======================================================

// preview mirrors the server pricing on the fetched definitions. It is
// advisory: the server prices the booking again on submit.
func preview(s State) pricing.Breakdown {
	services := make([]models.Service, 0, len(s.Services))
	for _, item := range s.Services {
		services = append(services, models.Service{
			ID:     item.ID,
			Name:   item.Name,
			Price:  item.Price,
			Status: models.ServiceStatusActive,
		})
	}

	return pricing.ComputeBookingPricing(services, s.SelectedOptions(), s.Selected, s.Values, s.DiscountAmount)
}

func (s State) offers(serviceID uint) bool {
	for _, item := range s.Services {
		if item.ID == serviceID {
			return true
		}
	}
	return false
}

// Request builds the submission payload. Only values of options offered by
// the selected services are sent.
func (s State) Request() dto.BookingSubmitRequest {
	values := map[uint]string{}
	for _, opt := range s.SelectedOptions() {
		if v, ok := s.Values[opt.ID]; ok && strings.TrimSpace(v) != "" {
			values[opt.ID] = v
		}
	}

	return dto.BookingSubmitRequest{
		CustomerName:    strings.TrimSpace(s.Customer.Name),
		CustomerEmail:   strings.TrimSpace(s.Customer.Email),
		CustomerPhone:   strings.TrimSpace(s.Customer.Phone),
		CustomerAddress: strings.TrimSpace(s.Customer.Address),
		ZipCode:         s.Zip,
		ServiceDate:     strings.TrimSpace(s.Customer.ServiceDate),
		ServiceTime:     strings.TrimSpace(s.Customer.ServiceTime),
		ServiceIDs:      append([]uint(nil), s.Selected...),
		OptionValues:    values,
		DiscountCode:    s.DiscountCode,
		Notes:           strings.TrimSpace(s.Customer.Notes),
		ClaimedTotal:    s.Preview.Total.StringFixed(2),
		IdempotencyKey:  s.IdempotencyKey,
	}
}
