// Package bookingflow is the customer side of a booking: a step machine
// driven by a pure reducer, plus a Runner that performs the network effects
// the reducer asks for.
package bookingflow

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/service-booking/internal/domain/pricing"
	"github.com/BruksfildServices01/service-booking/internal/dto"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

type Step int

const (
	StepZipEntry Step = iota
	StepServiceSelection
	StepOptionConfiguration
	StepCustomerInfo
	StepReview
	StepSubmitted
)

func (s Step) String() string {
	switch s {
	case StepZipEntry:
		return "ZIP_ENTRY"
	case StepServiceSelection:
		return "SERVICE_SELECTION"
	case StepOptionConfiguration:
		return "OPTION_CONFIGURATION"
	case StepCustomerInfo:
		return "CUSTOMER_INFO"
	case StepReview:
		return "REVIEW"
	case StepSubmitted:
		return "SUBMITTED"
	}
	return "UNKNOWN"
}

// Effect is work the reducer wants done outside of it. The Runner performs
// it and feeds the outcome back as an event.
type Effect int

const (
	EffectNone Effect = iota
	EffectCheckCoverage
	EffectAutoAdvance
	EffectLoadServices
	EffectLoadOptions
	EffectApplyDiscount
	EffectSubmit
)

type Customer struct {
	Name        string
	Email       string
	Phone       string
	Address     string
	ServiceDate string
	ServiceTime string
	Notes       string
}

// State is treated as a value: Reduce never mutates the state it receives.
type State struct {
	Step Step

	Zip        string
	ZipCovered bool

	Services []dto.ServiceItem
	Selected []uint

	// Options holds the definitions fetched for each selected service.
	Options map[uint][]models.ServiceOption
	Values  map[uint]string

	Customer Customer

	DiscountCode   string
	DiscountAmount decimal.Decimal
	DiscountError  string

	Preview pricing.Breakdown

	Loading        bool
	Submitting     bool
	IdempotencyKey string

	Notice  string
	Failure *Failure
	Pending Effect

	BookingID uint
	Reference string
}

func NewState() State {
	return State{
		Step:    StepZipEntry,
		Options: map[uint][]models.ServiceOption{},
		Values:  map[uint]string{},
	}
}

func (s State) IsSelected(serviceID uint) bool {
	for _, id := range s.Selected {
		if id == serviceID {
			return true
		}
	}
	return false
}

// SelectedOptions lists the option definitions of the selected services in
// evaluation order.
func (s State) SelectedOptions() []models.ServiceOption {
	var out []models.ServiceOption
	for _, id := range s.Selected {
		list := append([]models.ServiceOption(nil), s.Options[id]...)
		pricing.SortOptions(list)
		out = append(out, list...)
	}
	return out
}

func (s State) hasOptions() bool {
	for _, id := range s.Selected {
		if len(s.Options[id]) > 0 {
			return true
		}
	}
	return false
}

func (s State) clone() State {
	out := s
	out.Services = append([]dto.ServiceItem(nil), s.Services...)
	out.Selected = append([]uint(nil), s.Selected...)

	out.Options = make(map[uint][]models.ServiceOption, len(s.Options))
	for k, v := range s.Options {
		out.Options[k] = append([]models.ServiceOption(nil), v...)
	}
	out.Values = make(map[uint]string, len(s.Values))
	for k, v := range s.Values {
		out.Values[k] = v
	}
	return out
}
