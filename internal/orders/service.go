package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kitforge-labs/kitforge-backend/pkg/config"
	"github.com/kitforge-labs/kitforge-backend/pkg/db/models"
	"github.com/kitforge-labs/kitforge-backend/pkg/enums"
	pkgerrors "github.com/kitforge-labs/kitforge-backend/pkg/errors"
	"github.com/kitforge-labs/kitforge-backend/pkg/logger"
	"github.com/kitforge-labs/kitforge-backend/pkg/pagination"
)

// Service defines order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, input UpdateStatusInput) (*models.Order, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params ListParams) (*OrderPage, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	allocator StockAllocator
	restorer  StockRestorer
	logg      *logger.Logger
	cfg       config.OrdersConfig
}

// NewService wires the order service.
func NewService(repo Repository, tx txRunner, allocator StockAllocator, restorer StockRestorer, logg *logger.Logger, cfg config.OrdersConfig) (Service, error) {
	if repo == nil || tx == nil || allocator == nil || restorer == nil || logg == nil {
		return nil, fmt.Errorf("order service dependencies missing")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		allocator: allocator,
		restorer:  restorer,
		logg:      logg,
		cfg:       cfg,
	}, nil
}

// Create persists the order, then reserves stock when the initial status
// holds it. Allocation failures are logged and never fail the order:
// a customer order stands even when the stockroom disagrees.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	status := enums.OrderStatusPending
	if input.Status != "" {
		parsed, err := enums.ParseOrderStatus(input.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid initial status")
		}
		status = parsed
	}

	order := &models.Order{
		ID:              uuid.New(),
		OrderNumber:     s.generateOrderNumber(),
		Status:          status,
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		ShippingAddress: input.ShippingAddress,
		Notes:           input.Notes,
	}
	for _, item := range input.Items {
		lineTotal := item.Qty * item.UnitPriceCents
		order.Items = append(order.Items, models.OrderLineItem{
			ID:             uuid.New(),
			OrderID:        order.ID,
			SetID:          item.SetID,
			Description:    item.Description,
			Qty:            item.Qty,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     lineTotal,
		})
		order.SubtotalCents += lineTotal
	}
	order.TotalCents = order.SubtotalCents

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	if HoldsStock(order.Status) {
		if allocErr := s.allocator.Allocate(ctx, order); allocErr != nil {
			scoped := s.logg.WithOrderID(ctx, order.ID.String())
			s.logg.Error(scoped, "stock allocation incomplete for order", allocErr)
		}
	}
	return order, nil
}

// UpdateStatus applies a lifecycle transition. Stock restoration fires on
// exactly the reserved-to-cancelled edges of the transition table; failures
// there are logged, the status change itself stands.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, input UpdateStatusInput) (*models.Order, error) {
	newStatus, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	action := TransitionAction(order.Status, newStatus)
	previous := order.Status

	order.Status = newStatus
	if input.Notes != nil {
		order.Notes = input.Notes
	}
	if IsCancelledFamily(newStatus) && !IsCancelledFamily(previous) {
		now := time.Now().UTC()
		order.CancelledAt = &now
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Save(ctx, order)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	scoped := s.logg.WithFields(ctx, map[string]any{
		"order_id": order.ID.String(),
		"from":     previous.String(),
		"to":       newStatus.String(),
	})
	s.logg.Info(scoped, "order status updated")

	if action == StockActionRestore {
		if restoreErr := s.restorer.Restore(ctx, order); restoreErr != nil {
			s.logg.Error(scoped, "stock restoration incomplete for order", restoreErr)
		}
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*OrderPage, error) {
	if params.Status != "" {
		if _, err := enums.ParseOrderStatus(params.Status); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
	}
	cursor, err := pagination.ParseCursor(params.Page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Page.Limit)

	rows, err := s.repo.List(ctx, params, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	page := &OrderPage{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	page.Orders = rows
	return page, nil
}

func (s *service) generateOrderNumber() string {
	prefix := s.cfg.NumberPrefix
	if prefix == "" {
		prefix = "KF"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().UTC().Format("20060102"), suffix)
}
