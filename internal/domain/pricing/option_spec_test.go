package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/service-booking/internal/domain/pricing"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

func TestSpecFor_Variants(t *testing.T) {
	for _, typ := range []pricing.OptionType{
		pricing.TypeCheckbox, pricing.TypeText, pricing.TypeTextarea, pricing.TypeNumber,
		pricing.TypeQuantity, pricing.TypeSelect, pricing.TypeRadio,
	} {
		spec := pricing.SpecFor(models.ServiceOption{Type: string(typ)})
		assert.Equal(t, typ, spec.Kind())
		assert.Equal(t, typ, spec.Control().Input)
	}

	assert.Equal(t, pricing.TypeText, pricing.SpecFor(models.ServiceOption{Type: "color"}).Kind())
}

func TestCheckbox_PresentAndValidate(t *testing.T) {
	spec := pricing.SpecFor(models.ServiceOption{Type: "checkbox"})

	assert.True(t, spec.Present("on"))
	assert.True(t, spec.Present("TRUE"))
	assert.False(t, spec.Present("0"))
	assert.False(t, spec.Present(""))

	assert.NoError(t, spec.Validate("yes"))
	assert.ErrorIs(t, spec.Validate("maybe"), pricing.ErrInvalidOptionValue)
}

func TestNumber_Constraints(t *testing.T) {
	opt := models.ServiceOption{
		Type:     "number",
		MinValue: decimal.NewNullDecimal(decimal.NewFromInt(10)),
		MaxValue: decimal.NewNullDecimal(decimal.NewFromInt(100)),
		Step:     decimal.NewNullDecimal(decimal.NewFromInt(5)),
		Unit:     "sqft",
	}
	spec := pricing.SpecFor(opt)

	assert.NoError(t, spec.Validate(""))
	assert.NoError(t, spec.Validate("25"))
	assert.Error(t, spec.Validate("5"))
	assert.Error(t, spec.Validate("105"))
	assert.Error(t, spec.Validate("27"))
	assert.Error(t, spec.Validate("abc"))

	ctl := spec.Control()
	require.NotNil(t, ctl.Min)
	require.NotNil(t, ctl.Step)
	assert.True(t, ctl.Min.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "sqft", ctl.Unit)
}

func TestQuantity_RequiresWholeNumbers(t *testing.T) {
	spec := pricing.SpecFor(models.ServiceOption{Type: "quantity"})

	assert.NoError(t, spec.Validate("3"))
	assert.Error(t, spec.Validate("2.5"))
	assert.Error(t, spec.Validate("-1"))
}

func TestChoice_ValidatesAgainstChoices(t *testing.T) {
	opt := models.ServiceOption{
		Type:      "radio",
		PriceType: "choice",
		Choices: []models.OptionChoice{
			{Value: "weekly", Label: "Weekly", Price: decimal.NewFromInt(-10)},
			{Value: "once", Label: "One time"},
		},
	}
	spec := pricing.SpecFor(opt)

	assert.NoError(t, spec.Validate("weekly"))
	assert.ErrorIs(t, spec.Validate("daily"), pricing.ErrInvalidOptionValue)
	assert.Len(t, spec.Control().Choices, 2)
	assert.True(t, spec.PriceImpact("weekly", decimal.NewFromInt(80)).Equal(decimal.NewFromInt(-10)))
}

func TestText_MaxLength(t *testing.T) {
	spec := pricing.SpecFor(models.ServiceOption{Type: "text"})

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}

	assert.NoError(t, spec.Validate("gate code 1234"))
	assert.Error(t, spec.Validate(string(long)))
}

func TestNumber_MultiplyRejectsNegativeFactor(t *testing.T) {
	opt := models.ServiceOption{
		Type:        "number",
		PriceType:   "multiply",
		PriceImpact: decimal.NewFromInt(15),
	}
	spec := pricing.SpecFor(opt)

	assert.NoError(t, spec.Validate("0"))
	assert.NoError(t, spec.Validate("4"))
	assert.ErrorIs(t, spec.Validate("-10"), pricing.ErrInvalidOptionValue)

	ctl := spec.Control()
	require.NotNil(t, ctl.Min)
	assert.True(t, ctl.Min.IsZero())

	withNegativeMin := opt
	withNegativeMin.MinValue = decimal.NewNullDecimal(decimal.NewFromInt(-5))
	assert.Error(t, pricing.SpecFor(withNegativeMin).Validate("-1"))

	text := models.ServiceOption{Type: "text", PriceType: "multiply", PriceImpact: decimal.NewFromInt(2)}
	assert.Error(t, pricing.SpecFor(text).Validate("-3"))
	assert.NoError(t, pricing.SpecFor(text).Validate("3"))
}
