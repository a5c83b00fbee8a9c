package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/service-booking/internal/models"
)

var hundred = decimal.NewFromInt(100)

type ServiceLine struct {
	ServiceID uint            `json:"service_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

type OptionLine struct {
	OptionID  uint            `json:"option_id"`
	ServiceID uint            `json:"service_id"`
	Name      string          `json:"name"`
	Value     string          `json:"value"`
	Impact    decimal.Decimal `json:"price_impact"`
}

type Breakdown struct {
	Services []ServiceLine `json:"services"`
	Options  []OptionLine  `json:"options"`

	ServicesTotal  decimal.Decimal `json:"services_total"`
	OptionsTotal   decimal.Decimal `json:"options_total"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// BreakdownOf rebuilds the breakdown stored on a committed booking.
func BreakdownOf(b *models.Booking) Breakdown {
	out := Breakdown{
		Services:       make([]ServiceLine, 0, len(b.Services)),
		Options:        make([]OptionLine, 0, len(b.Options)),
		ServicesTotal:  decimal.Zero,
		OptionsTotal:   decimal.Zero,
		Subtotal:       b.Subtotal,
		DiscountAmount: b.DiscountAmount,
		Total:          b.TotalPrice,
	}

	for _, s := range b.Services {
		out.Services = append(out.Services, ServiceLine{
			ServiceID: s.ServiceID,
			Name:      s.ServiceName,
			Quantity:  s.Quantity,
			UnitPrice: s.UnitPrice,
			Total:     s.TotalPrice,
		})
		out.ServicesTotal = out.ServicesTotal.Add(s.TotalPrice)
	}
	for _, o := range b.Options {
		out.Options = append(out.Options, OptionLine{
			OptionID:  o.ServiceOptionID,
			ServiceID: o.ServiceID,
			Name:      o.OptionName,
			Value:     o.OptionValue,
			Impact:    o.PriceImpact,
		})
		out.OptionsTotal = out.OptionsTotal.Add(o.PriceImpact)
	}
	return out
}

// WithDiscount returns a copy of b with the discount applied. The total is
// clamped at zero.
func (b Breakdown) WithDiscount(amount decimal.Decimal) Breakdown {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	b.DiscountAmount = amount
	b.Total = decimal.Max(decimal.Zero, b.Subtotal.Sub(amount))
	return b
}

// ComputeOptionImpact prices a single option value against the running
// subtotal. Presence gating (checkbox checked, field filled) is up to the
// caller.
func ComputeOptionImpact(opt models.ServiceOption, value string, running decimal.Decimal) decimal.Decimal {
	return SpecFor(opt).PriceImpact(value, running)
}

// ComputeBookingPricing prices a selection against the given catalog rows.
//
// Services are summed first, in selection order. Options are then evaluated
// per selected service by (display_order, id), each percentage option taking
// the running subtotal at that point, so percentages compound. Ids missing
// from the catalog are skipped.
func ComputeBookingPricing(
	services []models.Service,
	options []models.ServiceOption,
	serviceIDs []uint,
	optionValues map[uint]string,
	discountAmount decimal.Decimal,
) Breakdown {

	byID := make(map[uint]models.Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	optionsByService := make(map[uint][]models.ServiceOption)
	for _, o := range options {
		optionsByService[o.ServiceID] = append(optionsByService[o.ServiceID], o)
	}
	for _, list := range optionsByService {
		SortOptions(list)
	}

	b := Breakdown{
		Services:      []ServiceLine{},
		Options:       []OptionLine{},
		ServicesTotal: decimal.Zero,
		OptionsTotal:  decimal.Zero,
	}

	var selected []uint
	for _, id := range UniqueIDs(serviceIDs) {
		s, ok := byID[id]
		if !ok {
			continue
		}
		selected = append(selected, id)
		b.Services = append(b.Services, ServiceLine{
			ServiceID: s.ID,
			Name:      s.Name,
			Quantity:  1,
			UnitPrice: s.Price,
			Total:     s.Price,
		})
		b.ServicesTotal = b.ServicesTotal.Add(s.Price)
	}

	running := b.ServicesTotal
	for _, sid := range selected {
		for _, opt := range optionsByService[sid] {
			value, ok := optionValues[opt.ID]
			if !ok {
				continue
			}
			spec := SpecFor(opt)
			if !spec.Present(value) {
				continue
			}

			impact := spec.PriceImpact(value, running)
			running = running.Add(impact)
			b.OptionsTotal = b.OptionsTotal.Add(impact)

			b.Options = append(b.Options, OptionLine{
				OptionID:  opt.ID,
				ServiceID: sid,
				Name:      opt.Name,
				Value:     value,
				Impact:    impact,
			})
		}
	}

	b.Subtotal = b.ServicesTotal.Add(b.OptionsTotal)
	return b.WithDiscount(discountAmount)
}

// SortOptions orders options the way they are evaluated and displayed.
func SortOptions(list []models.ServiceOption) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].DisplayOrder != list[j].DisplayOrder {
			return list[i].DisplayOrder < list[j].DisplayOrder
		}
		return list[i].ID < list[j].ID
	})
}

// UniqueIDs drops duplicates and zero ids, keeping first-seen order.
func UniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func flatImpact(opt models.ServiceOption, value string, running decimal.Decimal) decimal.Decimal {
	pt := PriceType(opt.PriceType)
	if pt == PriceNone || pt == PriceChoice || opt.PriceImpact.IsZero() {
		return decimal.Zero
	}

	switch pt {
	case PriceFixed:
		return opt.PriceImpact
	case PricePercentage:
		return running.Mul(opt.PriceImpact).Div(hundred).Round(2)
	case PriceMultiply:
		n, ok := numeric(value)
		if !ok || n.IsNegative() {
			return decimal.Zero
		}
		return opt.PriceImpact.Mul(n).Round(2)
	}
	return decimal.Zero
}
