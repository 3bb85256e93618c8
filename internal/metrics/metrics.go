package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics records order, inventory and HTTP activity.
// A nil *Metrics, or one built with a nil registerer, is a no-op.
type Metrics struct {
	operations      *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	stockMovements  *prometheus.CounterVec
	releaseFailures prometheus.Counter
	compensations   *prometheus.CounterVec
	lockTimeouts    prometheus.Counter
	lowStock        prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New registers the metrics on the provided registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}

	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "menuhub_operations_total",
			Help: "Order and inventory operations by outcome.",
		}, []string{"operation", "outcome", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "menuhub_operation_duration_seconds",
			Help:    "Duration of order and inventory operations in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		stockMovements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "menuhub_stock_units_total",
			Help: "Units of stock reserved from or released back to inventory.",
		}, []string{"direction"}),
		releaseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "menuhub_stock_release_failures_total",
			Help: "Best-effort stock releases that failed and need reconciliation.",
		}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "menuhub_reservation_compensations_total",
			Help: "Reservations rolled back after the order could not be saved.",
		}, []string{"outcome"}),
		lockTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "menuhub_order_lock_timeouts_total",
			Help: "Per-order lock acquisitions that timed out.",
		}),
		lowStock: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "menuhub_low_stock_alerts_total",
			Help: "Reservations that left an item at or below its low-stock threshold.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "menuhub_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "menuhub_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.operations,
		m.duration,
		m.stockMovements,
		m.releaseFailures,
		m.compensations,
		m.lockTimeouts,
		m.lowStock,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// ObserveOperation records the outcome and latency of a service operation.
// code is the domain error code on failure and empty on success.
func (m *Metrics) ObserveOperation(operation, code string, elapsed time.Duration) {
	if m == nil || m.operations == nil {
		return
	}
	outcome := OutcomeSuccess
	if code != "" {
		outcome = OutcomeFailure
	}
	m.operations.WithLabelValues(normalizeLabel(operation), outcome, code).Inc()
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(elapsed.Seconds())
}

// AddReserved counts units taken out of inventory for orders.
func (m *Metrics) AddReserved(units int) {
	if m == nil || m.stockMovements == nil {
		return
	}
	m.stockMovements.WithLabelValues("reserved").Add(float64(units))
}

// AddReleased counts units returned to inventory.
func (m *Metrics) AddReleased(units int) {
	if m == nil || m.stockMovements == nil {
		return
	}
	m.stockMovements.WithLabelValues("released").Add(float64(units))
}

// IncReleaseFailure counts a failed best-effort release.
func (m *Metrics) IncReleaseFailure() {
	if m == nil || m.releaseFailures == nil {
		return
	}
	m.releaseFailures.Inc()
}

// IncCompensation counts a compensating release and whether it succeeded.
func (m *Metrics) IncCompensation(ok bool) {
	if m == nil || m.compensations == nil {
		return
	}
	outcome := OutcomeSuccess
	if !ok {
		outcome = OutcomeFailure
	}
	m.compensations.WithLabelValues(outcome).Inc()
}

// IncLockTimeout counts a per-order lock wait that gave up.
func (m *Metrics) IncLockTimeout() {
	if m == nil || m.lockTimeouts == nil {
		return
	}
	m.lockTimeouts.Inc()
}

// IncLowStock counts a low-stock alert.
func (m *Metrics) IncLowStock() {
	if m == nil || m.lowStock == nil {
		return
	}
	m.lowStock.Inc()
}

// ObserveHTTP records a served HTTP request.
func (m *Metrics) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	if m == nil || m.httpRequests == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, normalizeLabel(route), status).Inc()
	m.httpDuration.WithLabelValues(method, normalizeLabel(route)).Observe(elapsed.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
