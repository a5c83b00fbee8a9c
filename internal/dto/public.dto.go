package dto

import (
	"github.com/shopspring/decimal"
)

// ======================================================
// Coverage
// ======================================================

type CoverageRequest struct {
	ZipCode string `json:"zip_code" binding:"required"`
}

type CoverageResponse struct {
	ZipCode string `json:"zip_code"`
	Covered bool   `json:"covered"`
	Message string `json:"message"`
}

// ======================================================
// Catalog
// ======================================================

type ServiceItem struct {
	ID              uint            `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
}

// ======================================================
// Discount / pricing preview
// ======================================================

type DiscountPreviewRequest struct {
	Code     string          `json:"code" binding:"required"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type DiscountPreviewResponse struct {
	Code           string          `json:"code"`
	Type           string          `json:"type"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

type PricingPreviewRequest struct {
	ServiceIDs   []uint          `json:"service_ids"`
	OptionValues map[uint]string `json:"option_values"`
	DiscountCode string          `json:"discount_code"`
}

// ======================================================
// Booking submit
// ======================================================

type BookingSubmitRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`
	ZipCode         string `json:"zip_code"`

	ServiceDate string `json:"service_date"`
	ServiceTime string `json:"service_time"`

	ServiceIDs   []uint          `json:"service_ids"`
	OptionValues map[uint]string `json:"option_values"`
	DiscountCode string          `json:"discount_code"`
	Notes        string          `json:"notes"`

	// ClaimedTotal is the client's own computation. The server re-prices.
	ClaimedTotal   string `json:"claimed_total"`
	IdempotencyKey string `json:"idempotency_key"`
}

type BookingSubmitResponse struct {
	BookingID       uint   `json:"booking_id"`
	ReferenceNumber string `json:"reference_number"`
}
