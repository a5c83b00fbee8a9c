package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/service-booking/internal/httperr"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

// ===============================
// Option / price types
// ===============================

type OptionType string

const (
	TypeCheckbox OptionType = "checkbox"
	TypeText     OptionType = "text"
	TypeTextarea OptionType = "textarea"
	TypeNumber   OptionType = "number"
	TypeQuantity OptionType = "quantity"
	TypeSelect   OptionType = "select"
	TypeRadio    OptionType = "radio"
)

type PriceType string

const (
	PriceNone       PriceType = "none"
	PriceFixed      PriceType = "fixed"
	PricePercentage PriceType = "percentage"
	PriceMultiply   PriceType = "multiply"
	PriceChoice     PriceType = "choice"
)

const (
	CodeInvalidOptionValue = "invalid_option_value"

	maxTextLen     = 255
	maxTextareaLen = 2000
)

var ErrInvalidOptionValue = httperr.ErrBusiness(CodeInvalidOptionValue)

func IsValidOptionType(t string) bool {
	switch OptionType(t) {
	case TypeCheckbox, TypeText, TypeTextarea, TypeNumber, TypeQuantity, TypeSelect, TypeRadio:
		return true
	}
	return false
}

func IsValidPriceType(t string) bool {
	switch PriceType(t) {
	case PriceNone, PriceFixed, PricePercentage, PriceMultiply, PriceChoice:
		return true
	}
	return false
}

// ===============================
// Render descriptor
// ===============================

// Control tells a client which input to draw for an option and with which
// constraints.
type Control struct {
	OptionID    uint                  `json:"option_id"`
	Name        string                `json:"name"`
	Input       OptionType            `json:"input"`
	Required    bool                  `json:"required"`
	Min         *decimal.Decimal      `json:"min,omitempty"`
	Max         *decimal.Decimal      `json:"max,omitempty"`
	Step        *decimal.Decimal      `json:"step,omitempty"`
	Unit        string                `json:"unit,omitempty"`
	Choices     []models.OptionChoice `json:"choices,omitempty"`
	Default     string                `json:"default,omitempty"`
	PriceType   PriceType             `json:"price_type"`
	PriceImpact decimal.Decimal       `json:"price_impact"`
}

// ===============================
// OptionSpec
// ===============================

// OptionSpec is the typed view of a ServiceOption row. There is one variant
// per option type; each knows how to validate, describe and price its value.
type OptionSpec interface {
	Option() models.ServiceOption
	Kind() OptionType
	// Present reports whether value counts as "filled in" (a checked
	// checkbox, a non-empty field).
	Present(value string) bool
	Validate(value string) error
	Control() Control
	PriceImpact(value string, running decimal.Decimal) decimal.Decimal
}

// SpecFor builds the variant matching opt.Type. Unknown types degrade to a
// free text field.
func SpecFor(opt models.ServiceOption) OptionSpec {
	b := base{opt: opt}

	switch OptionType(opt.Type) {
	case TypeCheckbox:
		return Checkbox{b}
	case TypeTextarea:
		return Text{base: b, kind: TypeTextarea, maxLen: maxTextareaLen}
	case TypeNumber:
		return Number{base: b, min: multiplyFloor(opt, nullPtr(opt.MinValue)), max: nullPtr(opt.MaxValue), step: nullPtr(opt.Step)}
	case TypeQuantity:
		return Quantity{base: b, min: nullPtr(opt.MinValue), max: nullPtr(opt.MaxValue)}
	case TypeSelect:
		return Choice{base: b, kind: TypeSelect}
	case TypeRadio:
		return Choice{base: b, kind: TypeRadio}
	default:
		return Text{base: b, kind: TypeText, maxLen: maxTextLen}
	}
}

type base struct {
	opt models.ServiceOption
}

func (b base) Option() models.ServiceOption { return b.opt }

func (b base) Present(value string) bool { return strings.TrimSpace(value) != "" }

func (b base) PriceImpact(value string, running decimal.Decimal) decimal.Decimal {
	return flatImpact(b.opt, value, running)
}

// checkMultiplier rejects a negative factor on a "multiply" option.
func (b base) checkMultiplier(value string) error {
	if PriceType(b.opt.PriceType) != PriceMultiply {
		return nil
	}
	if n, ok := numeric(value); ok && n.IsNegative() {
		return ErrInvalidOptionValue
	}
	return nil
}

func (b base) control(kind OptionType) Control {
	return Control{
		OptionID:    b.opt.ID,
		Name:        b.opt.Name,
		Input:       kind,
		Required:    b.opt.IsRequired,
		Default:     b.opt.DefaultValue,
		Unit:        b.opt.Unit,
		PriceType:   PriceType(b.opt.PriceType),
		PriceImpact: b.opt.PriceImpact,
	}
}

// --------------------------------------------------
// checkbox
// --------------------------------------------------

type Checkbox struct{ base }

func (Checkbox) Kind() OptionType { return TypeCheckbox }

func (Checkbox) Present(value string) bool { return isChecked(value) }

func (Checkbox) Validate(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "1", "true", "false", "on", "off", "yes", "no":
		return nil
	}
	return ErrInvalidOptionValue
}

func (c Checkbox) Control() Control { return c.control(TypeCheckbox) }

// --------------------------------------------------
// text / textarea
// --------------------------------------------------

type Text struct {
	base
	kind   OptionType
	maxLen int
}

func (t Text) Kind() OptionType { return t.kind }

func (t Text) Validate(value string) error {
	if len([]rune(value)) > t.maxLen {
		return ErrInvalidOptionValue
	}
	return t.checkMultiplier(value)
}

func (t Text) Control() Control { return t.control(t.kind) }

// --------------------------------------------------
// number
// --------------------------------------------------

type Number struct {
	base
	min, max, step *decimal.Decimal
}

func (Number) Kind() OptionType { return TypeNumber }

func (n Number) Validate(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	v, ok := numeric(value)
	if !ok {
		return ErrInvalidOptionValue
	}
	if n.min != nil && v.LessThan(*n.min) {
		return ErrInvalidOptionValue
	}
	if n.max != nil && v.GreaterThan(*n.max) {
		return ErrInvalidOptionValue
	}
	if n.step != nil && n.step.IsPositive() {
		origin := decimal.Zero
		if n.min != nil {
			origin = *n.min
		}
		if !v.Sub(origin).Mod(*n.step).IsZero() {
			return ErrInvalidOptionValue
		}
	}
	return nil
}

func (n Number) Control() Control {
	c := n.control(TypeNumber)
	c.Min, c.Max, c.Step = n.min, n.max, n.step
	return c
}

// --------------------------------------------------
// quantity
// --------------------------------------------------

type Quantity struct {
	base
	min, max *decimal.Decimal
}

func (Quantity) Kind() OptionType { return TypeQuantity }

func (q Quantity) Validate(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	v, ok := numeric(value)
	if !ok || !v.IsInteger() || v.IsNegative() {
		return ErrInvalidOptionValue
	}
	if q.min != nil && v.LessThan(*q.min) {
		return ErrInvalidOptionValue
	}
	if q.max != nil && v.GreaterThan(*q.max) {
		return ErrInvalidOptionValue
	}
	return nil
}

func (q Quantity) Control() Control {
	c := q.control(TypeQuantity)
	one := decimal.NewFromInt(1)
	c.Min, c.Max, c.Step = q.min, q.max, &one
	return c
}

// --------------------------------------------------
// select / radio
// --------------------------------------------------

type Choice struct {
	base
	kind OptionType
}

func (c Choice) Kind() OptionType { return c.kind }

func (c Choice) Validate(value string) error {
	if strings.TrimSpace(value) == "" || len(c.opt.Choices) == 0 {
		return nil
	}
	if _, ok := c.find(value); !ok {
		return ErrInvalidOptionValue
	}
	return nil
}

func (c Choice) Control() Control {
	ctl := c.control(c.kind)
	ctl.Choices = append([]models.OptionChoice(nil), c.opt.Choices...)
	return ctl
}

// PriceImpact returns the literal price of the picked choice for "choice"
// pricing; other price types behave like any option.
func (c Choice) PriceImpact(value string, running decimal.Decimal) decimal.Decimal {
	if PriceType(c.opt.PriceType) != PriceChoice {
		return flatImpact(c.opt, value, running)
	}
	ch, ok := c.find(value)
	if !ok {
		return decimal.Zero
	}
	return ch.Price
}

func (c Choice) find(value string) (models.OptionChoice, bool) {
	value = strings.TrimSpace(value)
	for _, ch := range c.opt.Choices {
		if ch.Value == value {
			return ch, true
		}
	}
	return models.OptionChoice{}, false
}

// ===============================
// helpers
// ===============================

func isChecked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func numeric(value string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// multiplyFloor raises the lower bound of a "multiply" number to zero.
func multiplyFloor(opt models.ServiceOption, min *decimal.Decimal) *decimal.Decimal {
	if PriceType(opt.PriceType) != PriceMultiply {
		return min
	}
	if min != nil && !min.IsNegative() {
		return min
	}
	zero := decimal.Zero
	return &zero
}

func nullPtr(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}
