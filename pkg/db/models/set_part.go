package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SetPart is one bill-of-materials entry: how many units of a part one unit
// of the set requires. Quantity may be fractional (e.g. 0.5 of a shared
// sheet); optional entries are informational and never reserved.
type SetPart struct {
	SetID      uuid.UUID       `gorm:"column:set_id;type:uuid;primaryKey"`
	PartID     uuid.UUID       `gorm:"column:part_id;type:uuid;primaryKey"`
	Quantity   decimal.Decimal `gorm:"column:quantity;type:numeric(10,3);not null"`
	IsOptional bool            `gorm:"column:is_optional;not null;default:false"`
	Part       *Part           `gorm:"foreignKey:PartID"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
