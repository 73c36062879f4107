package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
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
	"github.com/kitforge-labs/kitforge-backend/internal/inventory"
	"github.com/kitforge-labs/kitforge-backend/internal/ledger"
	"github.com/kitforge-labs/kitforge-backend/internal/orders"
	"github.com/kitforge-labs/kitforge-backend/pkg/config"
	pkgdb "github.com/kitforge-labs/kitforge-backend/pkg/db"
	"github.com/kitforge-labs/kitforge-backend/pkg/db/models"
	"github.com/kitforge-labs/kitforge-backend/pkg/logger"
	"github.com/kitforge-labs/kitforge-backend/pkg/metrics"
)

type env struct {
	conn   *gorm.DB
	router http.Handler
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dsn := "file:routes_" + uuid.NewString() + "?mode=memory&cache=shared"
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

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	client := pkgdb.FromGorm(conn)
	catalogRepo := catalog.NewRepository(conn)
	resolver, err := bom.NewResolver(catalogRepo)
	require.NoError(t, err)
	stockRepo := inventory.NewRepository(conn)
	ledgerRepo := ledger.NewRepository(conn)
	m := metrics.NewStockMetrics(prometheus.NewRegistry())

	validator, err := inventory.NewValidator(resolver, stockRepo, logg)
	require.NoError(t, err)
	allocator, err := inventory.NewAllocator(client, stockRepo, ledgerRepo, resolver, m, logg)
	require.NoError(t, err)
	restorer, err := inventory.NewRestorer(client, stockRepo, ledgerRepo, resolver, m, logg)
	require.NoError(t, err)
	ledgerService, err := ledger.NewService(ledgerRepo, catalogRepo, logg)
	require.NoError(t, err)
	ordersService, err := orders.NewService(orders.NewRepository(conn), client, allocator, restorer, logg, config.OrdersConfig{NumberPrefix: "KF"})
	require.NoError(t, err)

	cfg := &config.Config{App: config.AppConfig{Env: "development", Port: "8080"}}
	router := NewRouter(Deps{
		Cfg:            cfg,
		Logg:           logg,
		DBPinger:       client,
		StockValidator: validator,
		CatalogRepo:    catalogRepo,
		LedgerService:  ledgerService,
		OrdersService:  ordersService,
	})
	return &env{conn: conn, router: router}
}

func (e *env) seedKit(t *testing.T, stock int, perUnit string) (*models.Set, *models.Part) {
	t.Helper()
	part := &models.Part{ID: uuid.New(), SKU: "SKU-" + uuid.NewString()[:8], Name: "dc motor", StockQuantity: stock, StockBaseline: stock, MinimumStockLevel: 2}
	require.NoError(t, e.conn.Create(part).Error)
	set := &models.Set{ID: uuid.New(), SKU: "SET-" + uuid.NewString()[:8], Name: "robot kit", PriceCents: 4999, IsActive: true}
	require.NoError(t, e.conn.Create(set).Error)
	entry := &models.SetPart{SetID: set.ID, PartID: part.ID, Quantity: decimal.RequireFromString(perUnit)}
	require.NoError(t, e.conn.Create(entry).Error)
	return set, part
}

func (e *env) do(method, path string, payload any) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func TestHealthLive(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	resp := e.do(http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "development", resp.Header().Get("X-KitForge-Env"))
}

func TestStockValidateEndpoint(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	set, _ := e.seedKit(t, 5, "2")

	resp := e.do(http.MethodPost, "/api/v1/stock/validate", map[string]any{
		"items": []map[string]any{{"set_id": set.ID, "quantity": 3}},
	})
	require.Equal(t, http.StatusOK, resp.Code)

	raw := resp.Body.Bytes()
	var envelope struct {
		Data inventory.ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.False(t, envelope.Data.Valid)
	require.Len(t, envelope.Data.Results, 1)
	require.Len(t, envelope.Data.Results[0].InsufficientParts, 1)
	assert.Equal(t, 1, envelope.Data.Results[0].InsufficientParts[0].Shortfall)

	// Wire keys are part of the contract.
	var wire struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Contains(t, wire.Data, "results")
	assert.Contains(t, wire.Data, "summary")
	var summary map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(wire.Data["summary"], &summary))
	assert.Contains(t, summary, "total_items")
	assert.Contains(t, summary, "valid_items")
	assert.Contains(t, summary, "invalid_items")
}

func TestOrderLifecycleEndpoints(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	set, part := e.seedKit(t, 10, "2")

	created := e.do(http.MethodPost, "/api/v1/orders", map[string]any{
		"customer_name":    "Ada Maker",
		"customer_email":   "ada@example.com",
		"shipping_address": "1 Workshop Way",
		"items": []map[string]any{
			{"set_id": set.ID, "description": "robot kit", "qty": 2, "unit_price_cents": 4999},
			{"description": "shipping", "qty": 1, "unit_price_cents": 500},
		},
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var createdEnvelope struct {
		Data orders.OrderResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(created.Body).Decode(&createdEnvelope))
	orderID := createdEnvelope.Data.ID
	assert.Equal(t, "pending", createdEnvelope.Data.Status)
	assert.Len(t, createdEnvelope.Data.Items, 2)

	// 2 units x 2 per unit reserved.
	var reloaded models.Part
	require.NoError(t, e.conn.First(&reloaded, "id = ?", part.ID).Error)
	assert.Equal(t, 6, reloaded.StockQuantity)

	patched := e.do(http.MethodPatch, fmt.Sprintf("/api/v1/orders/%s/status", orderID), map[string]any{"status": "cancelled"})
	require.Equal(t, http.StatusOK, patched.Code)

	require.NoError(t, e.conn.First(&reloaded, "id = ?", part.ID).Error)
	assert.Equal(t, 10, reloaded.StockQuantity)

	detail := e.do(http.MethodGet, fmt.Sprintf("/api/v1/orders/%s", orderID), nil)
	require.Equal(t, http.StatusOK, detail.Code)

	list := e.do(http.MethodGet, "/api/v1/orders/?status=cancelled", nil)
	require.Equal(t, http.StatusOK, list.Code)

	txns := e.do(http.MethodGet, fmt.Sprintf("/api/v1/parts/%s/transactions", part.ID), nil)
	require.Equal(t, http.StatusOK, txns.Code)
	var txnEnvelope struct {
		Data ledger.TransactionPageResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(txns.Body).Decode(&txnEnvelope))
	assert.Len(t, txnEnvelope.Data.Transactions, 2)

	reconcile := e.do(http.MethodGet, fmt.Sprintf("/api/v1/parts/%s/reconcile", part.ID), nil)
	require.Equal(t, http.StatusOK, reconcile.Code)
	var reconcileEnvelope struct {
		Data ledger.ReconcileReport `json:"data"`
	}
	require.NoError(t, json.NewDecoder(reconcile.Body).Decode(&reconcileEnvelope))
	assert.True(t, reconcileEnvelope.Data.Consistent)
}

func TestSetPartsEndpoint(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	set, part := e.seedKit(t, 5, "1.5")

	resp := e.do(http.MethodGet, fmt.Sprintf("/api/v1/sets/%s/parts", set.ID), nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data []catalog.SetPartResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, part.ID, envelope.Data[0].PartID)
	assert.Equal(t, "1.5", envelope.Data[0].Quantity)

	missing := e.do(http.MethodGet, fmt.Sprintf("/api/v1/sets/%s/parts", uuid.New()), nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestLowStockEndpoint(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	low := &models.Part{ID: uuid.New(), SKU: "SKU-LOW", Name: "m3 screw", StockQuantity: 1, StockBaseline: 1, MinimumStockLevel: 10}
	healthy := &models.Part{ID: uuid.New(), SKU: "SKU-OK", Name: "dc motor", StockQuantity: 50, StockBaseline: 50, MinimumStockLevel: 5}
	require.NoError(t, e.conn.Create(low).Error)
	require.NoError(t, e.conn.Create(healthy).Error)

	resp := e.do(http.MethodGet, "/api/v1/parts/low-stock", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data []catalog.PartResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, low.ID, envelope.Data[0].ID)
}
