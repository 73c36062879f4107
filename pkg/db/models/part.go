package models

import (
	"time"

	"github.com/google/uuid"
)

// Part is a single inventoried component used to assemble kit sets.
//
// StockBaseline is fixed when the part is created: at any point in time
// StockQuantity must equal StockBaseline plus the signed sum of the part's
// inventory transactions. Only the stock allocator/restorer mutate
// StockQuantity.
type Part struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	SKU               string    `gorm:"column:sku;not null;uniqueIndex"`
	Name              string    `gorm:"column:name;not null"`
	StockQuantity     int       `gorm:"column:stock_quantity;not null;default:0"`
	StockBaseline     int       `gorm:"column:stock_baseline;not null;default:0"`
	MinimumStockLevel int       `gorm:"column:minimum_stock_level;not null;default:0"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
