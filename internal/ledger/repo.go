package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kitforge-labs/kitforge-backend/pkg/db/models"
	"github.com/kitforge-labs/kitforge-backend/pkg/enums"
	"github.com/kitforge-labs/kitforge-backend/pkg/pagination"
)

// Totals holds the movement sums for one part, split by direction.
type Totals struct {
	In  int64
	Out int64
}

// Repository persists and reads the append-only inventory ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, txn *models.InventoryTransaction) error
	ListByPart(ctx context.Context, partID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.InventoryTransaction, error)
	SumByPart(ctx context.Context, partID uuid.UUID) (Totals, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a ledger repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, txn *models.InventoryTransaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) ListByPart(ctx context.Context, partID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.InventoryTransaction, error) {
	query := r.db.WithContext(ctx).
		Where("part_id = ?", partID).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.InventoryTransaction
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) SumByPart(ctx context.Context, partID uuid.UUID) (Totals, error) {
	type sumRow struct {
		Type  enums.StockTxType
		Total int64
	}
	var rows []sumRow
	err := r.db.WithContext(ctx).
		Model(&models.InventoryTransaction{}).
		Select("transaction_type AS type, COALESCE(SUM(quantity), 0) AS total").
		Where("part_id = ?", partID).
		Group("transaction_type").
		Scan(&rows).Error
	if err != nil {
		return Totals{}, err
	}

	var totals Totals
	for _, row := range rows {
		switch row.Type {
		case enums.StockTxTypeIn:
			totals.In = row.Total
		case enums.StockTxTypeOut:
			totals.Out = row.Total
		}
	}
	return totals, nil
}
