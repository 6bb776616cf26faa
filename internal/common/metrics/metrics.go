package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Config struct {
	ServiceName string
	Environment string
}

// Metrics holds the restaurant service collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	ordersPlaced    *prometheus.CounterVec
	statusUpdates   *prometheus.CounterVec
	storeErrors     *prometheus.CounterVec
	realtimeClients prometheus.Gauge
	realtimeDropped prometheus.Counter
	relayFailures   prometheus.Counter
	httpDuration    *prometheus.HistogramVec
}

func New(registerer prometheus.Registerer, cfg Config) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "restaurant-system"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{"service": serviceName, "env": environment}

	m := &Metrics{
		ordersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "restaurant_orders_placed_total",
			Help:        "Orders accepted, split by whether they reached the store.",
			ConstLabels: constLabels,
		}, []string{"persisted"}),
		statusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "restaurant_status_updates_total",
			Help:        "Applied order status updates by target status.",
			ConstLabels: constLabels,
		}, []string{"status"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "restaurant_store_errors_total",
			Help:        "Order store failures by operation.",
			ConstLabels: constLabels,
		}, []string{"op"}),
		realtimeClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "restaurant_realtime_clients",
			Help:        "Connected push-channel subscribers.",
			ConstLabels: constLabels,
		}),
		realtimeDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "restaurant_realtime_dropped_total",
			Help:        "Events not delivered to a subscriber whose buffer was full.",
			ConstLabels: constLabels,
		}),
		relayFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "restaurant_relay_failures_total",
			Help:        "Events the message-broker relay failed or refused to publish.",
			ConstLabels: constLabels,
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "restaurant_http_request_duration_seconds",
			Help:        "HTTP request latency by route.",
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			ConstLabels: constLabels,
		}, []string{"method", "route", "code"}),
	}
	registerer.MustRegister(
		m.ordersPlaced,
		m.statusUpdates,
		m.storeErrors,
		m.realtimeClients,
		m.realtimeDropped,
		m.relayFailures,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) OrderPlaced(persisted bool) {
	if m == nil {
		return
	}
	m.ordersPlaced.WithLabelValues(strconv.FormatBool(persisted)).Inc()
}

func (m *Metrics) StatusUpdated(status string) {
	if m == nil {
		return
	}
	m.statusUpdates.WithLabelValues(status).Inc()
}

func (m *Metrics) StoreError(op string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) ClientConnected() {
	if m == nil {
		return
	}
	m.realtimeClients.Inc()
}

func (m *Metrics) ClientDisconnected() {
	if m == nil {
		return
	}
	m.realtimeClients.Dec()
}

func (m *Metrics) MessageDropped() {
	if m == nil {
		return
	}
	m.realtimeDropped.Inc()
}

func (m *Metrics) RelayFailed() {
	if m == nil {
		return
	}
	m.relayFailures.Inc()
}

// ObserveHTTP satisfies httpx.Observer.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
