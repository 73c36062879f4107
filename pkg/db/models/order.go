package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kitforge-labs/kitforge-backend/pkg/enums"
)

// Order is a customer order for one or more kit sets.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber     string            `gorm:"column:order_number;not null;uniqueIndex"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CustomerName    string            `gorm:"column:customer_name;not null"`
	CustomerEmail   string            `gorm:"column:customer_email;not null"`
	ShippingAddress string            `gorm:"column:shipping_address;not null"`
	Notes           *string           `gorm:"column:notes"`
	SubtotalCents   int               `gorm:"column:subtotal_cents;not null;default:0"`
	TotalCents      int               `gorm:"column:total_cents;not null;default:0"`
	Items           []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CancelledAt     *time.Time        `gorm:"column:cancelled_at"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
