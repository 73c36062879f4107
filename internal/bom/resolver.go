package bom

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kitforge-labs/kitforge-backend/pkg/db/models"
	pkgerrors "github.com/kitforge-labs/kitforge-backend/pkg/errors"
)

// SetPartsLoader loads the bill-of-materials entries for a set.
type SetPartsLoader interface {
	FindSetParts(ctx context.Context, setID uuid.UUID) ([]models.SetPart, error)
}

// Requirement is one resolved part demand for an order line.
type Requirement struct {
	PartID         uuid.UUID
	PartName       string
	QuantityNeeded int
}

// Resolution is the outcome of expanding a (set, quantity) pair.
// Configured reports whether the set has any BOM entries at all, optional
// ones included; a set with only optional entries is configured but resolves
// to zero requirements.
type Resolution struct {
	Requirements []Requirement
	Configured   bool
}

// Resolver expands a (set, order quantity) pair into per-part requirements.
type Resolver struct {
	catalog SetPartsLoader
}

// NewResolver builds a BOM resolver backed by the provided catalog.
func NewResolver(catalog SetPartsLoader) (*Resolver, error) {
	if catalog == nil {
		return nil, fmt.Errorf("set parts loader required")
	}
	return &Resolver{catalog: catalog}, nil
}

// Resolve returns the mandatory part quantities needed to assemble orderQty
// units of the set. Per-unit quantities may be fractional; totals always
// round up so partial units never under-reserve.
func (r *Resolver) Resolve(ctx context.Context, setID uuid.UUID, orderQty int) (*Resolution, error) {
	if setID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "set id required")
	}
	if orderQty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order quantity must be positive")
	}

	entries, err := r.catalog.FindSetParts(ctx, setID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load set parts")
	}

	resolution := &Resolution{Configured: len(entries) > 0}
	qty := decimal.NewFromInt(int64(orderQty))
	for _, entry := range entries {
		if entry.IsOptional {
			continue
		}
		needed := entry.Quantity.Mul(qty).Ceil().IntPart()
		if needed <= 0 {
			continue
		}
		name := ""
		if entry.Part != nil {
			name = entry.Part.Name
		}
		resolution.Requirements = append(resolution.Requirements, Requirement{
			PartID:         entry.PartID,
			PartName:       name,
			QuantityNeeded: int(needed),
		})
	}
	return resolution, nil
}
