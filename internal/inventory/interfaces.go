package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kitforge-labs/kitforge-backend/pkg/db/models"
)

// TxRunner executes fn inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// DecrementResult reports how a stock decrement landed.
type DecrementResult struct {
	// Clamped is true when the part had less stock than requested and the
	// quantity was floored at zero instead of going negative.
	Clamped bool
}

// Repository reads and mutates part stock levels.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindPartsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Part, error)
	Decrement(ctx context.Context, partID uuid.UUID, qty int) (DecrementResult, error)
	Increment(ctx context.Context, partID uuid.UUID, qty int) error
}
