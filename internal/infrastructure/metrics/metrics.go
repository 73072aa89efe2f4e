// Package metrics colectores Prometheus del punto de venta.
package metrics

import (
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metrics agrupa los contadores de ventas, movimientos, transacciones y HTTP.
// Un *Metrics nil es válido y no registra nada.
type Metrics struct {
	SalesCreated   prometheus.Counter
	SalesRevenue   prometheus.Counter
	SalesCancelled prometheus.Counter
	SalesRejected  *prometheus.CounterVec // reason
	Movements      *prometheus.CounterVec // type
	TxRetries      prometheus.Counter
	HTTPRequests   *prometheus.CounterVec   // method, route, status
	HTTPDuration   *prometheus.HistogramVec // method, route
}

// New registra los colectores en registry (DefaultRegisterer si es nil).
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		SalesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "pos_sales_created_total",
			Help: "Ventas registradas.",
		}),
		SalesRevenue: factory.NewCounter(prometheus.CounterOpts{
			Name: "pos_sales_revenue_total",
			Help: "Suma de totales de ventas registradas.",
		}),
		SalesCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "pos_sales_cancelled_total",
			Help: "Ventas anuladas.",
		}),
		SalesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_sales_rejected_total",
			Help: "Ventas rechazadas por motivo.",
		}, []string{"reason"}),
		Movements: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_movements_total",
			Help: "Movimientos de inventario registrados por tipo.",
		}, []string{"type"}),
		TxRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "db_tx_retries_total",
			Help: "Reintentos de transacción por fallas transitorias.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Peticiones HTTP atendidas.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duración de peticiones HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// SaleCreated implementa sales.Metrics.
func (m *Metrics) SaleCreated(total decimal.Decimal) {
	if m == nil {
		return
	}
	m.SalesCreated.Inc()
	m.SalesRevenue.Add(total.InexactFloat64())
}

// SaleCancelled implementa sales.Metrics.
func (m *Metrics) SaleCancelled() {
	if m == nil {
		return
	}
	m.SalesCancelled.Inc()
}

// SaleRejected implementa sales.Metrics.
func (m *Metrics) SaleRejected(reason string) {
	if m == nil {
		return
	}
	m.SalesRejected.WithLabelValues(reason).Inc()
}

// MovementRecorded implementa inventory.Metrics.
func (m *Metrics) MovementRecorded(t entity.MovementType) {
	if m == nil {
		return
	}
	m.Movements.WithLabelValues(string(t)).Inc()
}

// TxRetried implementa postgres.RetryObserver.
func (m *Metrics) TxRetried() {
	if m == nil {
		return
	}
	m.TxRetries.Inc()
}

// ObserveHTTP registra una petición atendida.
func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(seconds)
}
