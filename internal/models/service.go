package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ServiceStatusActive   = "active"
	ServiceStatusInactive = "inactive"
	ServiceStatusDraft    = "draft"
	ServiceStatusArchived = "archived"
)

type Service struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OwnerID uint `gorm:"index;not null" json:"owner_id"`

	Name            string          `gorm:"size:100;not null" json:"name"`
	Description     string          `gorm:"size:255" json:"description"`
	Price           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
	Status          string          `gorm:"size:20;not null;default:'active'" json:"status"`

	Options []ServiceOption `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE;" json:"options,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// OptionChoice is one entry of a select/radio option. Price is the literal
// amount added when the choice is picked.
type OptionChoice struct {
	Value string          `json:"value"`
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
}

type ServiceOption struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ServiceID uint `gorm:"index;not null" json:"service_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Type        string `gorm:"size:20;not null" json:"type"`
	IsRequired  bool   `gorm:"not null" json:"is_required"`

	PriceImpact decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price_impact"`
	PriceType   string          `gorm:"size:20;not null;default:'none'" json:"price_type"`

	Choices      datatypes.JSONSlice[OptionChoice] `json:"choices"`
	DefaultValue string                            `gorm:"size:255" json:"default_value"`

	MinValue decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"min_value"`
	MaxValue decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"max_value"`
	Step     decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"step"`
	Unit     string              `gorm:"size:20" json:"unit"`

	DisplayOrder int `gorm:"not null;default:0" json:"display_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
