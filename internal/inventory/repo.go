package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kitforge-labs/kitforge-backend/pkg/db/models"
	pkgerrors "github.com/kitforge-labs/kitforge-backend/pkg/errors"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a stock repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindPartsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Part, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var parts []models.Part
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

// Decrement subtracts qty from the part's stock without letting it go
// negative. The guarded update only succeeds when enough stock is present;
// otherwise the row is floored at zero and the result is marked clamped.
func (r *repository) Decrement(ctx context.Context, partID uuid.UUID, qty int) (DecrementResult, error) {
	if qty <= 0 {
		return DecrementResult{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("decrement quantity must be positive, got %d", qty))
	}

	res := r.db.WithContext(ctx).
		Model(&models.Part{}).
		Where("id = ? AND stock_quantity >= ?", partID, qty).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return DecrementResult{}, res.Error
	}
	if res.RowsAffected > 0 {
		return DecrementResult{}, nil
	}

	clamp := r.db.WithContext(ctx).
		Model(&models.Part{}).
		Where("id = ?", partID).
		Update("stock_quantity", 0)
	if clamp.Error != nil {
		return DecrementResult{}, clamp.Error
	}
	if clamp.RowsAffected == 0 {
		return DecrementResult{}, gorm.ErrRecordNotFound
	}
	return DecrementResult{Clamped: true}, nil
}

func (r *repository) Increment(ctx context.Context, partID uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("increment quantity must be positive, got %d", qty))
	}

	res := r.db.WithContext(ctx).
		Model(&models.Part{}).
		Where("id = ?", partID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
