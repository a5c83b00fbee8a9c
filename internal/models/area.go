package models

import "time"

// Area is one postal code an owner services.
type Area struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OwnerID uint   `gorm:"uniqueIndex:idx_areas_owner_zip;not null" json:"owner_id"`
	ZipCode string `gorm:"size:10;uniqueIndex:idx_areas_owner_zip;not null" json:"zip_code"`
	Label   string `gorm:"size:100" json:"label"`
	Active  bool   `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
