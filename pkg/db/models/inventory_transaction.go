package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kitforge-labs/kitforge-backend/pkg/enums"
)

// InventoryTransaction records one immutable stock movement for a part.
// Rows are append-only; a stock mutation must never happen without one.
type InventoryTransaction struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	PartID        uuid.UUID           `gorm:"column:part_id;type:uuid;not null;index"`
	Type          enums.StockTxType   `gorm:"column:transaction_type;type:text;not null"`
	Quantity      int                 `gorm:"column:quantity;not null"`
	Reason        string              `gorm:"column:reason;not null"`
	ReferenceID   *uuid.UUID          `gorm:"column:reference_id;type:uuid"`
	ReferenceType enums.ReferenceType `gorm:"column:reference_type;type:text;not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}
