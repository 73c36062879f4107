package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kitforge-labs/kitforge-backend/pkg/db/models"
	"github.com/kitforge-labs/kitforge-backend/pkg/pagination"
)

// Repository persists orders and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params ListParams, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	Save(ctx context.Context, order *models.Order) error
}

// StockAllocator reserves parts when an order enters the lifecycle holding
// stock.
type StockAllocator interface {
	Allocate(ctx context.Context, order *models.Order) error
}

// StockRestorer returns reserved parts when an order is cancelled.
type StockRestorer interface {
	Restore(ctx context.Context, order *models.Order) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
