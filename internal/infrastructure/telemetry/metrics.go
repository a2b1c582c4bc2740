package telemetry

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const metricsNamespace = "store"

// Metrics holds the Prometheus collectors exposed on /metrics.
// It satisfies the checkout Recorder used by the order service.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	ordersPlaced *prometheus.CounterVec
	orderRevenue *prometheus.CounterVec
	paymentsPaid *prometheus.CounterVec
	abandoned    *prometheus.CounterVec
	outbox       *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry together with the
// Go runtime and process collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ordersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Orders placed by payment method.",
		}, []string{"payment_method"}),
		orderRevenue: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "orders",
			Name:      "amount_total",
			Help:      "Sum of placed order amounts in major currency units.",
		}, []string{"payment_method"}),
		paymentsPaid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "orders",
			Name:      "payments_confirmed_total",
			Help:      "Orders whose payment was confirmed.",
		}, []string{"payment_method"}),
		abandoned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "orders",
			Name:      "abandoned_total",
			Help:      "Unpaid orders deleted after a failed or cancelled checkout.",
		}, []string{"reason"}),
		outbox: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "outbox",
			Name:      "deliveries_total",
			Help:      "Outbox relay attempts by event type and outcome.",
		}, []string{"event_type", "outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.ordersPlaced,
		m.orderRevenue,
		m.paymentsPaid,
		m.abandoned,
		m.outbox,
	)
	return m
}

// ObserveHTTP records one served request. route is the matched route pattern.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) OrderPlaced(method string, amount decimal.Decimal) {
	m.ordersPlaced.WithLabelValues(method).Inc()
	m.orderRevenue.WithLabelValues(method).Add(amount.InexactFloat64())
}

func (m *Metrics) PaymentConfirmed(method string) {
	m.paymentsPaid.WithLabelValues(method).Inc()
}

func (m *Metrics) OrderAbandoned(reason string) {
	m.abandoned.WithLabelValues(reason).Inc()
}

// OutboxDelivery counts one relay attempt
func (m *Metrics) OutboxDelivery(eventType, outcome string) {
	m.outbox.WithLabelValues(eventType, outcome).Inc()
}

// WatchDB exports pool statistics for db under the given name
func (m *Metrics) WatchDB(db *sql.DB, name string) {
	m.registry.MustRegister(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
