package booking

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/service-booking/internal/domain/coverage"
	"github.com/BruksfildServices01/service-booking/internal/domain/pricing"
)

const (
	DateLayout       = "2006-01-02"
	TimeLayout       = "15:04"
	DefaultTimeOfDay = "09:00"
)

var validate = validator.New()

// Contact holds the customer fields stored on the booking row. The limits
// match the column sizes.
type Contact struct {
	Name    string `validate:"max=100"`
	Email   string `validate:"max=100"`
	Phone   string `validate:"max=20"`
	Address string `validate:"max=255"`
	Notes   string `validate:"max=500"`
}

// TooLong returns the first field over its limit, or "".
func (c Contact) TooLong() string {
	err := validate.Struct(c)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return strings.ToLower(verrs[0].Field())
	}
	return "contact"
}

// Submission is a customer's booking request as received. ClaimedTotal is
// what the client computed; it is only compared against, never stored.
type Submission struct {
	OwnerID uint

	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	ZipCode         string

	ServiceDate string
	ServiceTime string

	ServiceIDs   []uint
	OptionValues map[uint]string
	DiscountCode string
	ClaimedTotal string
	Notes        string
}

// Normalize trims free text fields and drops duplicate service ids.
func (s Submission) Normalize() Submission {
	s.CustomerName = strings.TrimSpace(s.CustomerName)
	s.CustomerEmail = strings.ToLower(strings.TrimSpace(s.CustomerEmail))
	s.CustomerPhone = strings.TrimSpace(s.CustomerPhone)
	s.CustomerAddress = strings.TrimSpace(s.CustomerAddress)
	s.ZipCode = coverage.Normalize(s.ZipCode)
	s.ServiceDate = strings.TrimSpace(s.ServiceDate)
	s.ServiceTime = strings.TrimSpace(s.ServiceTime)
	s.DiscountCode = strings.TrimSpace(s.DiscountCode)
	s.Notes = strings.TrimSpace(s.Notes)
	s.ServiceIDs = pricing.UniqueIDs(s.ServiceIDs)
	return s
}

// Validate checks the request shape only; nothing here touches storage.
func (s Submission) Validate() error {
	if s.OwnerID == 0 ||
		s.CustomerName == "" ||
		s.CustomerEmail == "" ||
		s.CustomerAddress == "" ||
		s.ZipCode == "" ||
		s.ServiceDate == "" {
		return ErrMissingField
	}

	if s.Contact().TooLong() != "" {
		return ErrFieldTooLong
	}

	if len(s.ServiceIDs) == 0 {
		return ErrNoServices
	}

	if !IsValidEmail(s.CustomerEmail) {
		return ErrInvalidEmail
	}

	if err := coverage.ValidateZIP(s.ZipCode); err != nil {
		return err
	}

	if _, err := time.Parse(DateLayout+" "+TimeLayout, s.ServiceDate+" "+s.timeOfDay()); err != nil {
		return ErrInvalidServiceDate
	}

	return nil
}

func (s Submission) Contact() Contact {
	return Contact{
		Name:    s.CustomerName,
		Email:   s.CustomerEmail,
		Phone:   s.CustomerPhone,
		Address: s.CustomerAddress,
		Notes:   s.Notes,
	}
}

// ServiceAt resolves the requested date and time in the owner's location.
func (s Submission) ServiceAt(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, s.ServiceDate+" "+s.timeOfDay(), loc)
	if err != nil {
		return time.Time{}, ErrInvalidServiceDate
	}
	return t, nil
}

func (s Submission) timeOfDay() string {
	if s.ServiceTime == "" {
		return DefaultTimeOfDay
	}
	return s.ServiceTime
}

func IsValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}
