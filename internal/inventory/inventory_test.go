package inventory

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kitforge-labs/kitforge-backend/internal/bom"
	"github.com/kitforge-labs/kitforge-backend/internal/catalog"
	"github.com/kitforge-labs/kitforge-backend/internal/ledger"
	pkgdb "github.com/kitforge-labs/kitforge-backend/pkg/db"
	"github.com/kitforge-labs/kitforge-backend/pkg/db/models"
	"github.com/kitforge-labs/kitforge-backend/pkg/enums"
	pkgerrors "github.com/kitforge-labs/kitforge-backend/pkg/errors"
	"github.com/kitforge-labs/kitforge-backend/pkg/logger"
	"github.com/kitforge-labs/kitforge-backend/pkg/metrics"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(
		&models.Part{},
		&models.Set{},
		&models.SetPart{},
		&models.Order{},
		&models.OrderLineItem{},
		&models.InventoryTransaction{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func seedPart(t *testing.T, conn *gorm.DB, name string, stock int) *models.Part {
	t.Helper()
	part := &models.Part{ID: uuid.New(), SKU: "SKU-" + uuid.NewString()[:8], Name: name, StockQuantity: stock, StockBaseline: stock}
	require.NoError(t, conn.Create(part).Error)
	return part
}

func seedSet(t *testing.T, conn *gorm.DB, name string) *models.Set {
	t.Helper()
	set := &models.Set{ID: uuid.New(), SKU: "SET-" + uuid.NewString()[:8], Name: name, PriceCents: 4999, IsActive: true}
	require.NoError(t, conn.Create(set).Error)
	return set
}

func seedBOMEntry(t *testing.T, conn *gorm.DB, setID, partID uuid.UUID, qty string, optional bool) {
	t.Helper()
	entry := &models.SetPart{SetID: setID, PartID: partID, Quantity: decimal.RequireFromString(qty), IsOptional: optional}
	require.NoError(t, conn.Create(entry).Error)
}

func newValidator(t *testing.T, conn *gorm.DB) *Validator {
	t.Helper()
	resolver, err := bom.NewResolver(catalog.NewRepository(conn))
	require.NoError(t, err)
	validator, err := NewValidator(resolver, NewRepository(conn), testLogger())
	require.NoError(t, err)
	return validator
}

func newAllocator(t *testing.T, conn *gorm.DB) *Allocator {
	t.Helper()
	resolver, err := bom.NewResolver(catalog.NewRepository(conn))
	require.NoError(t, err)
	alloc, err := NewAllocator(
		pkgdb.FromGorm(conn),
		NewRepository(conn),
		ledger.NewRepository(conn),
		resolver,
		metrics.NewStockMetrics(prometheus.NewRegistry()),
		testLogger(),
	)
	require.NoError(t, err)
	return alloc
}

func newRestorer(t *testing.T, conn *gorm.DB) *Restorer {
	t.Helper()
	resolver, err := bom.NewResolver(catalog.NewRepository(conn))
	require.NoError(t, err)
	restorer, err := NewRestorer(
		pkgdb.FromGorm(conn),
		NewRepository(conn),
		ledger.NewRepository(conn),
		resolver,
		metrics.NewStockMetrics(prometheus.NewRegistry()),
		testLogger(),
	)
	require.NoError(t, err)
	return restorer
}

func orderWithLine(setID *uuid.UUID, qty int) *models.Order {
	orderID := uuid.New()
	return &models.Order{
		ID:          orderID,
		OrderNumber: "KF-20260829-TEST01",
		Status:      enums.OrderStatusPending,
		Items: []models.OrderLineItem{
			{ID: uuid.New(), OrderID: orderID, SetID: setID, Description: "line", Qty: qty},
		},
	}
}

func TestValidateReportsShortfall(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	ctx := context.Background()

	part := seedPart(t, conn, "dc motor", 5)
	set := seedSet(t, conn, "robot kit")
	seedBOMEntry(t, conn, set.ID, part.ID, "2", false)

	result, err := newValidator(t, conn).Validate(ctx, []CartLine{{SetID: &set.ID, Quantity: 3}})
	require.NoError(t, err)

	assert.False(t, result.Valid)
	require.Len(t, result.Results, 1)
	line := result.Results[0]
	assert.False(t, line.Valid)
	assert.True(t, line.PartsConfigured)
	require.Len(t, line.InsufficientParts, 1)
	assert.Equal(t, part.ID, line.InsufficientParts[0].PartID)
	assert.Equal(t, 6, line.InsufficientParts[0].Required)
	assert.Equal(t, 5, line.InsufficientParts[0].Available)
	assert.Equal(t, 1, line.InsufficientParts[0].Shortfall)
	assert.Equal(t, 1, result.Summary.TotalItems)
	assert.Equal(t, 1, result.Summary.InvalidItems)
}

func TestValidateUnconfiguredSet(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	set := seedSet(t, conn, "empty kit")

	result, err := newValidator(t, conn).Validate(context.Background(), []CartLine{{SetID: &set.ID, Quantity: 1}})
	require.NoError(t, err)

	assert.False(t, result.Valid)
	require.Len(t, result.Results, 1)
	assert.False(t, result.Results[0].Valid)
	assert.False(t, result.Results[0].PartsConfigured)
	assert.Empty(t, result.Results[0].InsufficientParts)
}

func TestValidateFeeLineAlwaysValid(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	result, err := newValidator(t, conn).Validate(context.Background(), []CartLine{{SetID: nil, Quantity: 1}})
	require.NoError(t, err)

	assert.True(t, result.Valid)
	require.Len(t, result.Results, 1)
	assert.True(t, result.Results[0].Valid)
	assert.True(t, result.Results[0].PartsConfigured)
	assert.Equal(t, 1, result.Summary.ValidItems)
}

func TestValidateRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	ctx := context.Background()

	// Fee lines are exempt from stock checks, not from quantity sanity.
	_, err := newValidator(t, conn).Validate(ctx, []CartLine{{SetID: nil, Quantity: 0}})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	set := seedSet(t, conn, "robot kit")
	_, err = newValidator(t, conn).Validate(ctx, []CartLine{{SetID: &set.ID, Quantity: -1}})
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestValidateDoesNotMutateStock(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	part := seedPart(t, conn, "dc motor", 10)
	set := seedSet(t, conn, "robot kit")
	seedBOMEntry(t, conn, set.ID, part.ID, "1", false)

	_, err := newValidator(t, conn).Validate(context.Background(), []CartLine{{SetID: &set.ID, Quantity: 4}})
	require.NoError(t, err)

	var reloaded models.Part
	require.NoError(t, conn.First(&reloaded, "id = ?", part.ID).Error)
	assert.Equal(t, 10, reloaded.StockQuantity)

	var count int64
	require.NoError(t, conn.Model(&models.InventoryTransaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAllocateDecrementsStockAndWritesLedger(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	ctx := context.Background()

	part := seedPart(t, conn, "dc motor", 10)
	set := seedSet(t, conn, "robot kit")
	seedBOMEntry(t, conn, set.ID, part.ID, "3", false)

	order := orderWithLine(&set.ID, 2)
	require.NoError(t, newAllocator(t, conn).Allocate(ctx, order))

	var reloaded models.Part
	require.NoError(t, conn.First(&reloaded, "id = ?", part.ID).Error)
	assert.Equal(t, 4, reloaded.StockQuantity)

	var txns []models.InventoryTransaction
	require.NoError(t, conn.Find(&txns, "part_id = ?", part.ID).Error)
	require.Len(t, txns, 1)
	assert.Equal(t, enums.StockTxTypeOut, txns[0].Type)
	assert.Equal(t, 6, txns[0].Quantity)
	assert.Equal(t, enums.ReferenceTypeOrder, txns[0].ReferenceType)
	require.NotNil(t, txns[0].ReferenceID)
	assert.Equal(t, order.ID, *txns[0].ReferenceID)
	assert.Contains(t, txns[0].Reason, order.OrderNumber)
}

func TestAllocateClampsAtZero(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	part := seedPart(t, conn, "dc motor", 4)
	set := seedSet(t, conn, "robot kit")
	seedBOMEntry(t, conn, set.ID, part.ID, "3", false)

	order := orderWithLine(&set.ID, 2) // needs 6, only 4 on hand
	require.NoError(t, newAllocator(t, conn).Allocate(context.Background(), order))

	var reloaded models.Part
	require.NoError(t, conn.First(&reloaded, "id = ?", part.ID).Error)
	assert.Equal(t, 0, reloaded.StockQuantity)

	// The ledger records intended demand, not the clamped delta.
	var txn models.InventoryTransaction
	require.NoError(t, conn.First(&txn, "part_id = ?", part.ID).Error)
	assert.Equal(t, 6, txn.Quantity)
}

func TestAllocateContinuesPastFailingPart(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	good := seedPart(t, conn, "dc motor", 10)
	set := seedSet(t, conn, "robot kit")
	missing := uuid.New()
	// BOM entry pointing at a part row that was deleted from the catalog.
	seedBOMEntry(t, conn, set.ID, missing, "1", false)
	seedBOMEntry(t, conn, set.ID, good.ID, "2", false)

	order := orderWithLine(&set.ID, 1)
	err := newAllocator(t, conn).Allocate(context.Background(), order)
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing.String())

	var reloaded models.Part
	require.NoError(t, conn.First(&reloaded, "id = ?", good.ID).Error)
	assert.Equal(t, 8, reloaded.StockQuantity, "healthy part still allocates")
}

func TestAllocateSkipsFeeLines(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	order := orderWithLine(nil, 1)
	require.NoError(t, newAllocator(t, conn).Allocate(context.Background(), order))

	var count int64
	require.NoError(t, conn.Model(&models.InventoryTransaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRestoreReturnsAllocatedStock(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	ctx := context.Background()

	part := seedPart(t, conn, "dc motor", 10)
	set := seedSet(t, conn, "robot kit")
	seedBOMEntry(t, conn, set.ID, part.ID, "3", false)

	order := orderWithLine(&set.ID, 2)
	require.NoError(t, newAllocator(t, conn).Allocate(ctx, order))
	require.NoError(t, newRestorer(t, conn).Restore(ctx, order))

	var reloaded models.Part
	require.NoError(t, conn.First(&reloaded, "id = ?", part.ID).Error)
	assert.Equal(t, 10, reloaded.StockQuantity)

	var txns []models.InventoryTransaction
	require.NoError(t, conn.Order("created_at ASC").Find(&txns, "part_id = ?", part.ID).Error)
	require.Len(t, txns, 2)

	var in *models.InventoryTransaction
	for i := range txns {
		if txns[i].Type == enums.StockTxTypeIn {
			in = &txns[i]
		}
	}
	require.NotNil(t, in)
	assert.Equal(t, 6, in.Quantity)
	assert.Equal(t, enums.ReferenceTypeOrderCancellation, in.ReferenceType)
	assert.True(t, strings.Contains(in.Reason, "cancelled"))
}

func TestDecrementGuardsAgainstConcurrentOversell(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	ctx := context.Background()

	part := seedPart(t, conn, "dc motor", 5)
	repo := NewRepository(conn)

	first, err := repo.Decrement(ctx, part.ID, 3)
	require.NoError(t, err)
	assert.False(t, first.Clamped)

	second, err := repo.Decrement(ctx, part.ID, 3)
	require.NoError(t, err)
	assert.True(t, second.Clamped)

	var reloaded models.Part
	require.NoError(t, conn.First(&reloaded, "id = ?", part.ID).Error)
	assert.Equal(t, 0, reloaded.StockQuantity)
}

func TestDecrementUnknownPart(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	_, err := NewRepository(conn).Decrement(context.Background(), uuid.New(), 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
