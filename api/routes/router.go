package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kitforge-labs/kitforge-backend/api/controllers"
	"github.com/kitforge-labs/kitforge-backend/api/middleware"
	"github.com/kitforge-labs/kitforge-backend/internal/catalog"
	"github.com/kitforge-labs/kitforge-backend/internal/inventory"
	"github.com/kitforge-labs/kitforge-backend/internal/ledger"
	"github.com/kitforge-labs/kitforge-backend/internal/orders"
	"github.com/kitforge-labs/kitforge-backend/pkg/config"
	"github.com/kitforge-labs/kitforge-backend/pkg/db"
	"github.com/kitforge-labs/kitforge-backend/pkg/logger"
	pkgredis "github.com/kitforge-labs/kitforge-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Cfg            *config.Config
	Logg           *logger.Logger
	DBPinger       db.Pinger
	Redis          *pkgredis.Client
	Registry       *prometheus.Registry
	StockValidator *inventory.Validator
	CatalogRepo    catalog.Repository
	LedgerService  ledger.Service
	OrdersService  orders.Service
}

// NewRouter wires middleware and routes for the API service.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(d.Logg),
		middleware.RequestID(d.Logg),
		middleware.Logging(d.Logg),
		middleware.CORS(),
	)

	var redisPinger pkgredis.Pinger
	if d.Redis != nil {
		redisPinger = d.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Cfg))
		r.Get("/ready", controllers.HealthReady(d.Cfg, d.Logg, d.DBPinger, redisPinger))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		var store pkgredis.IdempotencyStore
		if d.Redis != nil {
			store = d.Redis
		}
		r.Use(middleware.Idempotency(store, d.Cfg.Orders.IdempotencyTTL, d.Logg))

		r.Post("/stock/validate", controllers.StockValidate(d.StockValidator, d.Logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(d.OrdersService, d.Logg))
			r.Get("/", controllers.ListOrders(d.OrdersService, d.Logg))
			r.Get("/{orderId}", controllers.OrderDetail(d.OrdersService, d.Logg))
			r.Patch("/{orderId}/status", controllers.UpdateOrderStatus(d.OrdersService, d.Logg))
		})

		r.Route("/parts", func(r chi.Router) {
			r.Get("/low-stock", controllers.LowStockParts(d.CatalogRepo, d.Logg))
			r.Get("/{partId}/transactions", controllers.PartTransactions(d.LedgerService, d.Logg))
			r.Get("/{partId}/reconcile", controllers.PartReconcile(d.LedgerService, d.Logg))
		})

		r.Get("/sets/{setId}/parts", controllers.SetParts(d.CatalogRepo, d.Logg))
	})

	return r
}
