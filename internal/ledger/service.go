package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kitforge-labs/kitforge-backend/pkg/db/models"
	pkgerrors "github.com/kitforge-labs/kitforge-backend/pkg/errors"
	"github.com/kitforge-labs/kitforge-backend/pkg/logger"
	"github.com/kitforge-labs/kitforge-backend/pkg/pagination"
)

// PartLoader resolves parts for ledger reads and reconciliation.
type PartLoader interface {
	FindPart(ctx context.Context, partID uuid.UUID) (*models.Part, error)
}

// TransactionPage is one page of ledger history for a part.
type TransactionPage struct {
	Transactions []models.InventoryTransaction
	NextCursor   string
}

// ReconcileReport compares a part's stored stock against the value implied
// by its ledger history: baseline + sum(in) - sum(out).
type ReconcileReport struct {
	PartID        uuid.UUID `json:"part_id"`
	StockQuantity int       `json:"stock_quantity"`
	Baseline      int       `json:"baseline"`
	TotalIn       int64     `json:"total_in"`
	TotalOut      int64     `json:"total_out"`
	Expected      int64     `json:"expected_stock"`
	Consistent    bool      `json:"consistent"`
}

// Service exposes ledger reads and the reconciliation check.
type Service interface {
	ListByPart(ctx context.Context, partID uuid.UUID, params pagination.Params) (*TransactionPage, error)
	Reconcile(ctx context.Context, partID uuid.UUID) (*ReconcileReport, error)
}

type service struct {
	repo  Repository
	parts PartLoader
	logg  *logger.Logger
}

// NewService wires the ledger service.
func NewService(repo Repository, parts PartLoader, logg *logger.Logger) (Service, error) {
	if repo == nil || parts == nil || logg == nil {
		return nil, fmt.Errorf("ledger service dependencies missing")
	}
	return &service{repo: repo, parts: parts, logg: logg}, nil
}

func (s *service) ListByPart(ctx context.Context, partID uuid.UUID, params pagination.Params) (*TransactionPage, error) {
	if _, err := s.parts.FindPart(ctx, partID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "part not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load part")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListByPart(ctx, partID, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}

	page := &TransactionPage{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	page.Transactions = rows
	return page, nil
}

func (s *service) Reconcile(ctx context.Context, partID uuid.UUID) (*ReconcileReport, error) {
	part, err := s.parts.FindPart(ctx, partID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "part not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load part")
	}

	totals, err := s.repo.SumByPart(ctx, partID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum transactions")
	}

	report := &ReconcileReport{
		PartID:        part.ID,
		StockQuantity: part.StockQuantity,
		Baseline:      part.StockBaseline,
		TotalIn:       totals.In,
		TotalOut:      totals.Out,
		Expected:      int64(part.StockBaseline) + totals.In - totals.Out,
	}
	report.Consistent = report.Expected == int64(report.StockQuantity)
	if !report.Consistent {
		scoped := s.logg.WithFields(ctx, map[string]any{
			"part_id":        part.ID.String(),
			"stock_quantity": report.StockQuantity,
			"expected_stock": report.Expected,
		})
		s.logg.Warn(scoped, "ledger does not reconcile with stored stock")
	}
	return report, nil
}
