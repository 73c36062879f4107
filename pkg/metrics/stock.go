package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StockMetrics records stock allocation and restoration outcomes.
type StockMetrics struct {
	movements *prometheus.CounterVec
	failures  *prometheus.CounterVec
	clamped   prometheus.Counter
}

// NewStockMetrics registers the stock movement metrics on the provided registerer.
func NewStockMetrics(reg prometheus.Registerer) *StockMetrics {
	if reg == nil {
		return &StockMetrics{}
	}
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movements_total",
		Help: "Stock movements written to the inventory ledger.",
	}, []string{"direction"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movement_failures_total",
		Help: "Stock movements that failed and were logged only.",
	}, []string{"direction"})
	clamped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_clamped_total",
		Help: "Allocations that requested more than the available stock and were clamped at zero.",
	})
	reg.MustRegister(movements, failures, clamped)
	return &StockMetrics{
		movements: movements,
		failures:  failures,
		clamped:   clamped,
	}
}

// IncMovement counts one successful ledger write in the given direction.
func (s *StockMetrics) IncMovement(direction string) {
	if s == nil || s.movements == nil {
		return
	}
	s.movements.WithLabelValues(normalizeLabel(direction)).Inc()
}

// IncFailure counts one failed stock mutation in the given direction.
func (s *StockMetrics) IncFailure(direction string) {
	if s == nil || s.failures == nil {
		return
	}
	s.failures.WithLabelValues(normalizeLabel(direction)).Inc()
}

// IncClamped counts one allocation clamped at zero stock.
func (s *StockMetrics) IncClamped() {
	if s == nil || s.clamped == nil {
		return
	}
	s.clamped.Inc()
}

func normalizeLabel(direction string) string {
	if direction == "" {
		return "unknown"
	}
	return direction
}
