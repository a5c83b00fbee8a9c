package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking is the root row of a customer order. After creation only Status
// (and StatusChangedAt) change.
type Booking struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OwnerID   uint   `gorm:"index;not null" json:"owner_id"`
	Reference string `gorm:"size:40;uniqueIndex:idx_bookings_reference;not null" json:"reference_number"`

	CustomerName    string `gorm:"size:100;not null" json:"customer_name"`
	CustomerEmail   string `gorm:"size:100;not null" json:"customer_email"`
	CustomerPhone   string `gorm:"size:20" json:"customer_phone"`
	CustomerAddress string `gorm:"size:255;not null" json:"customer_address"`
	ZipCode         string `gorm:"size:10;not null" json:"zip_code"`

	ServiceDatetime time.Time `gorm:"index" json:"service_datetime"`

	Subtotal       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	DiscountCode   string          `gorm:"size:50" json:"discount_code"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount_amount"`
	TotalPrice     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`

	Status          string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	StatusChangedAt *time.Time `json:"status_changed_at"`
	Notes           string     `gorm:"size:500" json:"notes"`

	IdempotencyKey *string `gorm:"size:64;uniqueIndex:idx_bookings_idempotency_key" json:"-"`

	Services []BookingService       `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;" json:"services,omitempty"`
	Options  []BookingServiceOption `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;" json:"options,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingService snapshots a selected service at booking time. ServiceID is
// not a foreign key so that archived services keep their history.
type BookingService struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	BookingID uint `gorm:"index;not null" json:"booking_id"`
	ServiceID uint `gorm:"index;not null" json:"service_id"`

	ServiceName string          `gorm:"size:100" json:"service_name"`
	Quantity    int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`

	CreatedAt time.Time `json:"created_at"`
}

type BookingServiceOption struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	BookingID       uint `gorm:"index;not null" json:"booking_id"`
	ServiceID       uint `gorm:"index" json:"service_id"`
	ServiceOptionID uint `gorm:"index;not null" json:"service_option_id"`

	OptionName  string          `gorm:"size:100" json:"option_name"`
	OptionValue string          `gorm:"type:text" json:"option_value"`
	PriceImpact decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_impact"`

	CreatedAt time.Time `json:"created_at"`
}
