package bookingflow

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/service-booking/internal/dto"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

// Event is anything that can move the flow: a user action or the outcome of
// an effect.
type Event interface {
	event()
}

// -------- user actions --------

type ZipEntered struct{ Zip string }

type ToggleService struct{ ServiceID uint }

type SetOption struct {
	OptionID uint
	Value    string
}

type SetCustomer struct{ Customer Customer }

type SetDiscountCode struct{ Code string }

// Next asks to move forward; each step applies its own gate. REVIEW is left
// only through Submit.
type Next struct{}

type Prev struct{}

// Submit confirms the booking from REVIEW. The key is kept across retries of
// the same booking.
type Submit struct{ IdempotencyKey string }

// -------- effect outcomes --------

type CoverageChecked struct {
	Zip     string
	Covered bool
	Message string
}

type AutoAdvance struct{ Zip string }

type ServicesLoaded struct{ Services []dto.ServiceItem }

type OptionsLoaded struct {
	Options map[uint][]models.ServiceOption
}

type DiscountApplied struct {
	Code   string
	Amount decimal.Decimal
}

type DiscountRejected struct {
	Code    string
	Failure Failure
}

type SubmitSucceeded struct {
	BookingID uint
	Reference string
}

// RequestFailed reports a failed effect other than discount preview.
type RequestFailed struct {
	Effect  Effect
	Failure Failure
}

func (ZipEntered) event()       {}
func (ToggleService) event()    {}
func (SetOption) event()        {}
func (SetCustomer) event()      {}
func (SetDiscountCode) event()  {}
func (Next) event()             {}
func (Prev) event()             {}
func (Submit) event()           {}
func (CoverageChecked) event()  {}
func (AutoAdvance) event()      {}
func (ServicesLoaded) event()   {}
func (OptionsLoaded) event()    {}
func (DiscountApplied) event()  {}
func (DiscountRejected) event() {}
func (SubmitSucceeded) event()  {}
func (RequestFailed) event()    {}
