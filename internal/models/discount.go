package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Discount struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OwnerID uint   `gorm:"uniqueIndex:idx_discounts_owner_code;not null" json:"owner_id"`
	Code    string `gorm:"size:50;uniqueIndex:idx_discounts_owner_code;not null" json:"code"`

	Type   string          `gorm:"size:20;not null" json:"type"`
	Amount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`

	// UsageLimit 0 means unlimited.
	UsageLimit int `gorm:"not null;default:0" json:"usage_limit"`
	UsageCount int `gorm:"not null;default:0" json:"usage_count"`

	ExpiryDate *time.Time `gorm:"type:date" json:"expiry_date"`
	Active     bool       `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
