package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kitforge-labs/kitforge-backend/pkg/db/models"
)

// Repository exposes the read side of the parts/sets catalog consumed by the
// inventory engine.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindSet(ctx context.Context, setID uuid.UUID) (*models.Set, error)
	FindSetParts(ctx context.Context, setID uuid.UUID) ([]models.SetPart, error)
	FindPart(ctx context.Context, partID uuid.UUID) (*models.Part, error)
	ListLowStockParts(ctx context.Context) ([]models.Part, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindSet(ctx context.Context, setID uuid.UUID) (*models.Set, error) {
	var set models.Set
	err := r.db.WithContext(ctx).
		Preload("Parts.Part").
		Where("id = ?", setID).
		First(&set).Error
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *repository) FindSetParts(ctx context.Context, setID uuid.UUID) ([]models.SetPart, error) {
	var entries []models.SetPart
	err := r.db.WithContext(ctx).
		Preload("Part").
		Where("set_id = ?", setID).
		Order("part_id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) FindPart(ctx context.Context, partID uuid.UUID) (*models.Part, error) {
	var part models.Part
	err := r.db.WithContext(ctx).
		Where("id = ?", partID).
		First(&part).Error
	if err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *repository) ListLowStockParts(ctx context.Context) ([]models.Part, error) {
	var parts []models.Part
	err := r.db.WithContext(ctx).
		Where("stock_quantity <= minimum_stock_level").
		Order("stock_quantity ASC").
		Find(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}
