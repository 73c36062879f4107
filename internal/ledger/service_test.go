package ledger

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kitforge-labs/kitforge-backend/internal/catalog"
	"github.com/kitforge-labs/kitforge-backend/pkg/db/models"
	"github.com/kitforge-labs/kitforge-backend/pkg/enums"
	pkgerrors "github.com/kitforge-labs/kitforge-backend/pkg/errors"
	"github.com/kitforge-labs/kitforge-backend/pkg/logger"
	"github.com/kitforge-labs/kitforge-backend/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:ledger_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Part{}, &models.InventoryTransaction{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(
		NewRepository(conn),
		catalog.NewRepository(conn),
		logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	)
	require.NoError(t, err)
	return svc
}

func seedTxn(t *testing.T, conn *gorm.DB, partID uuid.UUID, direction enums.StockTxType, qty int, at time.Time) {
	t.Helper()
	txn := &models.InventoryTransaction{
		ID:            uuid.New(),
		PartID:        partID,
		Type:          direction,
		Quantity:      qty,
		Reason:        "seed",
		ReferenceType: enums.ReferenceTypeManualAdjustment,
		CreatedAt:     at,
	}
	require.NoError(t, conn.Create(txn).Error)
}

func TestListByPartPaginates(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	ctx := context.Background()

	part := &models.Part{ID: uuid.New(), SKU: "SKU-1", Name: "dc motor", StockQuantity: 10, StockBaseline: 10}
	require.NoError(t, conn.Create(part).Error)

	base := time.Now().Add(-time.Hour).UTC()
	for i := 0; i < 5; i++ {
		seedTxn(t, conn, part.ID, enums.StockTxTypeOut, i+1, base.Add(time.Duration(i)*time.Minute))
	}

	svc := newService(t, conn)
	page, err := svc.ListByPart(ctx, part.ID, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page.Transactions, 3)
	assert.NotEmpty(t, page.NextCursor)
	// Newest first.
	assert.Equal(t, 5, page.Transactions[0].Quantity)

	rest, err := svc.ListByPart(ctx, part.ID, pagination.Params{Limit: 3, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, rest.Transactions, 2)
	assert.Empty(t, rest.NextCursor)
}

func TestListByPartUnknownPart(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	_, err := newService(t, conn).ListByPart(context.Background(), uuid.New(), pagination.Params{})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestReconcileConsistent(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	ctx := context.Background()

	part := &models.Part{ID: uuid.New(), SKU: "SKU-1", Name: "dc motor", StockQuantity: 7, StockBaseline: 10}
	require.NoError(t, conn.Create(part).Error)
	seedTxn(t, conn, part.ID, enums.StockTxTypeOut, 5, time.Now().UTC())
	seedTxn(t, conn, part.ID, enums.StockTxTypeIn, 2, time.Now().UTC())

	report, err := newService(t, conn).Reconcile(ctx, part.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.TotalIn)
	assert.Equal(t, int64(5), report.TotalOut)
	assert.Equal(t, int64(7), report.Expected)
	assert.True(t, report.Consistent)
}

func TestReconcileDetectsDrift(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)

	// Stored stock was adjusted outside the ledger.
	part := &models.Part{ID: uuid.New(), SKU: "SKU-1", Name: "dc motor", StockQuantity: 9, StockBaseline: 10}
	require.NoError(t, conn.Create(part).Error)
	seedTxn(t, conn, part.ID, enums.StockTxTypeOut, 5, time.Now().UTC())

	report, err := newService(t, conn).Reconcile(context.Background(), part.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), report.Expected)
	assert.False(t, report.Consistent)
}
