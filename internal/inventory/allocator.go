package inventory

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/kitforge-labs/kitforge-backend/internal/bom"
	"github.com/kitforge-labs/kitforge-backend/internal/ledger"
	"github.com/kitforge-labs/kitforge-backend/pkg/db/models"
	"github.com/kitforge-labs/kitforge-backend/pkg/enums"
	"github.com/kitforge-labs/kitforge-backend/pkg/logger"
	"github.com/kitforge-labs/kitforge-backend/pkg/metrics"
)

// Allocator reserves physical stock for an order by decrementing part
// quantities and appending matching "out" ledger entries.
//
// Each part movement commits in its own transaction. A failed part is
// logged and counted, then skipped; the rest of the order still allocates
// and the caller never treats the combined error as fatal to the order.
type Allocator struct {
	tx       TxRunner
	parts    Repository
	ledger   ledger.Repository
	resolver *bom.Resolver
	metrics  *metrics.StockMetrics
	logg     *logger.Logger
}

// NewAllocator wires the stock allocator.
func NewAllocator(tx TxRunner, parts Repository, ledgerRepo ledger.Repository, resolver *bom.Resolver, m *metrics.StockMetrics, logg *logger.Logger) (*Allocator, error) {
	if tx == nil || parts == nil || ledgerRepo == nil || resolver == nil || logg == nil {
		return nil, fmt.Errorf("allocator dependencies missing")
	}
	return &Allocator{
		tx:       tx,
		parts:    parts,
		ledger:   ledgerRepo,
		resolver: resolver,
		metrics:  m,
		logg:     logg,
	}, nil
}

// Allocate walks every physical line of the order, resolves its BOM and
// applies the per-part decrements. The returned error aggregates per-part
// failures for logging; callers must not roll the order back on it.
func (a *Allocator) Allocate(ctx context.Context, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("order required")
	}
	ctx = a.logg.WithOrderID(ctx, order.ID.String())

	var errs error
	for _, item := range order.Items {
		if item.SetID == nil {
			continue // fees and shipping carry no parts
		}
		resolution, err := a.resolver.Resolve(ctx, *item.SetID, item.Qty)
		if err != nil {
			a.logg.Error(a.logg.WithSetID(ctx, item.SetID.String()), "resolving set parts for allocation", err)
			a.metrics.IncFailure(enums.StockTxTypeOut.String())
			errs = multierr.Append(errs, fmt.Errorf("set %s: %w", item.SetID, err))
			continue
		}
		for _, req := range resolution.Requirements {
			if err := a.allocatePart(ctx, order, req); err != nil {
				a.logg.Error(a.logg.WithPartID(ctx, req.PartID.String()), "allocating part stock", err)
				a.metrics.IncFailure(enums.StockTxTypeOut.String())
				errs = multierr.Append(errs, fmt.Errorf("part %s: %w", req.PartID, err))
			}
		}
	}
	return errs
}

func (a *Allocator) allocatePart(ctx context.Context, order *models.Order, req bom.Requirement) error {
	var clamped bool
	err := a.tx.WithTx(ctx, func(tx *gorm.DB) error {
		res, err := a.parts.WithTx(tx).Decrement(ctx, req.PartID, req.QuantityNeeded)
		if err != nil {
			return err
		}
		clamped = res.Clamped

		return a.ledger.WithTx(tx).Create(ctx, &models.InventoryTransaction{
			PartID:        req.PartID,
			Type:          enums.StockTxTypeOut,
			Quantity:      req.QuantityNeeded,
			Reason:        fmt.Sprintf("order %s: reserved %d x %s", order.OrderNumber, req.QuantityNeeded, req.PartName),
			ReferenceID:   &order.ID,
			ReferenceType: enums.ReferenceTypeOrder,
		})
	})
	if err != nil {
		return err
	}

	a.metrics.IncMovement(enums.StockTxTypeOut.String())
	if clamped {
		a.metrics.IncClamped()
		scoped := a.logg.WithFields(ctx, map[string]any{
			"part_id":  req.PartID.String(),
			"required": req.QuantityNeeded,
		})
		a.logg.Warn(scoped, "stock floored at zero during allocation")
	}
	return nil
}
