package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/service-booking/internal/domain/pricing"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func service(id uint, price string) models.Service {
	return models.Service{ID: id, OwnerID: 1, Name: "svc", Price: dec(price), Status: models.ServiceStatusActive}
}

func option(id, serviceID uint, typ pricing.OptionType, pt pricing.PriceType, impact string) models.ServiceOption {
	return models.ServiceOption{
		ID:          id,
		ServiceID:   serviceID,
		Name:        "opt",
		Type:        string(typ),
		PriceType:   string(pt),
		PriceImpact: dec(impact),
	}
}

func TestComputeBookingPricing_PercentageOptionAndFixedDiscount(t *testing.T) {
	services := []models.Service{service(1, "50.00")}
	options := []models.ServiceOption{option(10, 1, pricing.TypeCheckbox, pricing.PricePercentage, "10")}

	b := pricing.ComputeBookingPricing(services, options, []uint{1}, map[uint]string{10: "1"}, decimal.Zero)
	assert.True(t, b.Subtotal.Equal(dec("55.00")), "subtotal %s", b.Subtotal)

	b = b.WithDiscount(dec("10.00"))
	assert.True(t, b.Total.Equal(dec("45.00")), "total %s", b.Total)
}

func TestComputeBookingPricing_UncheckedOptionsDoNotCount(t *testing.T) {
	services := []models.Service{service(1, "50")}
	options := []models.ServiceOption{
		option(10, 1, pricing.TypeCheckbox, pricing.PriceFixed, "15"),
		option(11, 1, pricing.TypeText, pricing.PriceFixed, "5"),
	}

	b := pricing.ComputeBookingPricing(services, options, []uint{1}, map[uint]string{10: "off", 11: "  "}, decimal.Zero)

	assert.True(t, b.Subtotal.Equal(dec("50")))
	assert.Empty(t, b.Options)
}

func TestComputeBookingPricing_UnknownIDsAreSkipped(t *testing.T) {
	services := []models.Service{service(1, "20")}
	options := []models.ServiceOption{option(10, 1, pricing.TypeCheckbox, pricing.PriceFixed, "5")}

	b := pricing.ComputeBookingPricing(
		services,
		options,
		[]uint{1, 99, 1},
		map[uint]string{10: "yes", 404: "1"},
		decimal.Zero,
	)

	require.Len(t, b.Services, 1)
	assert.True(t, b.ServicesTotal.Equal(dec("20")))
	assert.True(t, b.OptionsTotal.Equal(dec("5")))
	assert.True(t, b.Total.Equal(dec("25")))
}

func TestComputeBookingPricing_PercentagesCompoundInDisplayOrder(t *testing.T) {
	services := []models.Service{service(1, "100")}

	first := option(20, 1, pricing.TypeCheckbox, pricing.PricePercentage, "10")
	first.DisplayOrder = 2
	fixed := option(21, 1, pricing.TypeCheckbox, pricing.PriceFixed, "50")
	fixed.DisplayOrder = 1
	second := option(22, 1, pricing.TypeCheckbox, pricing.PricePercentage, "10")
	second.DisplayOrder = 3

	values := map[uint]string{20: "1", 21: "1", 22: "1"}
	b := pricing.ComputeBookingPricing(services, []models.ServiceOption{first, fixed, second}, []uint{1}, values, decimal.Zero)

	// 100 + 50 = 150; +10% = 165; +10% = 181.50
	require.Len(t, b.Options, 3)
	assert.Equal(t, uint(21), b.Options[0].OptionID)
	assert.True(t, b.Options[1].Impact.Equal(dec("15")))
	assert.True(t, b.Options[2].Impact.Equal(dec("16.5")))
	assert.True(t, b.Subtotal.Equal(dec("181.5")), "subtotal %s", b.Subtotal)
}

func TestComputeBookingPricing_IsDeterministic(t *testing.T) {
	services := []models.Service{service(1, "40"), service(2, "60")}
	options := []models.ServiceOption{
		option(10, 1, pricing.TypeCheckbox, pricing.PricePercentage, "5"),
		option(11, 2, pricing.TypeQuantity, pricing.PriceMultiply, "7.5"),
		option(12, 2, pricing.TypeCheckbox, pricing.PricePercentage, "12.5"),
	}
	values := map[uint]string{10: "1", 11: "3", 12: "on"}

	first := pricing.ComputeBookingPricing(services, options, []uint{2, 1}, values, dec("3"))
	for i := 0; i < 50; i++ {
		again := pricing.ComputeBookingPricing(services, options, []uint{2, 1}, values, dec("3"))
		require.True(t, first.Total.Equal(again.Total))
	}
}

func TestComputeBookingPricing_TotalNeverNegative(t *testing.T) {
	services := []models.Service{service(1, "30")}

	b := pricing.ComputeBookingPricing(services, nil, []uint{1}, nil, dec("45"))

	assert.True(t, b.Total.IsZero())
	assert.True(t, b.DiscountAmount.Equal(dec("45")))
	assert.True(t, b.Total.Equal(decimal.Max(decimal.Zero, b.Subtotal.Sub(b.DiscountAmount))))
}

func TestComputeOptionImpact(t *testing.T) {
	running := dec("200")

	choices := option(1, 1, pricing.TypeSelect, pricing.PriceChoice, "99")
	choices.Choices = []models.OptionChoice{
		{Value: "small", Label: "Small", Price: dec("0")},
		{Value: "large", Label: "Large", Price: dec("25")},
	}

	cases := []struct {
		name  string
		opt   models.ServiceOption
		value string
		want  string
	}{
		{"none", option(1, 1, pricing.TypeCheckbox, pricing.PriceNone, "10"), "1", "0"},
		{"zero impact", option(1, 1, pricing.TypeCheckbox, pricing.PriceFixed, "0"), "1", "0"},
		{"fixed ignores value", option(1, 1, pricing.TypeText, pricing.PriceFixed, "12.50"), "", "12.50"},
		{"percentage of running", option(1, 1, pricing.TypeCheckbox, pricing.PricePercentage, "15"), "1", "30"},
		{"multiply", option(1, 1, pricing.TypeQuantity, pricing.PriceMultiply, "4.25"), "4", "17"},
		{"multiply non numeric", option(1, 1, pricing.TypeNumber, pricing.PriceMultiply, "4.25"), "many", "0"},
		{"choice literal", choices, "large", "25"},
		{"choice unknown", choices, "medium", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := pricing.ComputeOptionImpact(tc.opt, tc.value, running)
			assert.True(t, got.Equal(dec(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestComputeOptionImpact_MultiplyNeverLowersPrice(t *testing.T) {
	opt := option(20, 1, pricing.TypeNumber, pricing.PriceMultiply, "15.00")

	assert.True(t, pricing.ComputeOptionImpact(opt, "3", dec("100")).Equal(dec("45.00")))
	assert.True(t, pricing.ComputeOptionImpact(opt, "-10", dec("100")).IsZero())
}
