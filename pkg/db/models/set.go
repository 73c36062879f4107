package models

import (
	"time"

	"github.com/google/uuid"
)

// Set is a sellable kit assembled from inventoried parts.
type Set struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	SKU        string    `gorm:"column:sku;not null;uniqueIndex"`
	Name       string    `gorm:"column:name;not null"`
	PriceCents int       `gorm:"column:price_cents;not null;default:0"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true"`
	Parts      []SetPart `gorm:"foreignKey:SetID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
