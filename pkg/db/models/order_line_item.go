package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem captures the snapshot of each line within an order.
// A nil SetID marks a non-physical charge (handling fee, shipping) that is
// excluded from BOM resolution and stock movements. Line items are immutable
// once the order is created.
type OrderLineItem struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	OrderID        uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	SetID          *uuid.UUID `gorm:"column:set_id;type:uuid"`
	Description    string     `gorm:"column:description;not null"`
	Qty            int        `gorm:"column:qty;not null"`
	UnitPriceCents int        `gorm:"column:unit_price_cents;not null"`
	TotalCents     int        `gorm:"column:total_cents;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}
