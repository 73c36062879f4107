package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/kitforge-labs/kitforge-backend/internal/bom"
	"github.com/kitforge-labs/kitforge-backend/internal/ledger"
	"github.com/kitforge-labs/kitforge-backend/pkg/db/models"
	"github.com/kitforge-labs/kitforge-backend/pkg/enums"
	"github.com/kitforge-labs/kitforge-backend/pkg/logger"
	"github.com/kitforge-labs/kitforge-backend/pkg/metrics"
)

// Restorer is the inverse of the allocator: when a reserved order is
// cancelled it re-resolves the same BOM and puts the quantities back,
// appending matching "in" ledger entries.
type Restorer struct {
	tx       TxRunner
	parts    Repository
	ledger   ledger.Repository
	resolver *bom.Resolver
	metrics  *metrics.StockMetrics
	logg     *logger.Logger
}

// NewRestorer wires the stock restorer.
func NewRestorer(tx TxRunner, parts Repository, ledgerRepo ledger.Repository, resolver *bom.Resolver, m *metrics.StockMetrics, logg *logger.Logger) (*Restorer, error) {
	if tx == nil || parts == nil || ledgerRepo == nil || resolver == nil || logg == nil {
		return nil, fmt.Errorf("restorer dependencies missing")
	}
	return &Restorer{
		tx:       tx,
		parts:    parts,
		ledger:   ledgerRepo,
		resolver: resolver,
		metrics:  m,
		logg:     logg,
	}, nil
}

// Restore returns the stock an order had reserved. Per-part failures are
// logged and aggregated, never fatal to the cancellation itself.
func (r *Restorer) Restore(ctx context.Context, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("order required")
	}
	ctx = r.logg.WithOrderID(ctx, order.ID.String())

	var errs error
	for _, item := range order.Items {
		if item.SetID == nil {
			continue
		}
		resolution, err := r.resolver.Resolve(ctx, *item.SetID, item.Qty)
		if err != nil {
			r.logg.Error(r.logg.WithSetID(ctx, item.SetID.String()), "resolving set parts for restoration", err)
			r.metrics.IncFailure(enums.StockTxTypeIn.String())
			errs = multierr.Append(errs, fmt.Errorf("set %s: %w", item.SetID, err))
			continue
		}
		for _, req := range resolution.Requirements {
			if err := r.restorePart(ctx, order, *item.SetID, req); err != nil {
				r.logg.Error(r.logg.WithPartID(ctx, req.PartID.String()), "restoring part stock", err)
				r.metrics.IncFailure(enums.StockTxTypeIn.String())
				errs = multierr.Append(errs, fmt.Errorf("part %s: %w", req.PartID, err))
			}
		}
	}
	return errs
}

func (r *Restorer) restorePart(ctx context.Context, order *models.Order, setID uuid.UUID, req bom.Requirement) error {
	err := r.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := r.parts.WithTx(tx).Increment(ctx, req.PartID, req.QuantityNeeded); err != nil {
			return err
		}
		return r.ledger.WithTx(tx).Create(ctx, &models.InventoryTransaction{
			PartID:        req.PartID,
			Type:          enums.StockTxTypeIn,
			Quantity:      req.QuantityNeeded,
			Reason:        fmt.Sprintf("order %s cancelled: restored %d x %s (set %s)", order.OrderNumber, req.QuantityNeeded, req.PartName, setID),
			ReferenceID:   &order.ID,
			ReferenceType: enums.ReferenceTypeOrderCancellation,
		})
	})
	if err != nil {
		return err
	}
	r.metrics.IncMovement(enums.StockTxTypeIn.String())
	return nil
}
