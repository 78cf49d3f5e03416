package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus collectors for the HTTP surface, bearer authentication
// and payment callbacks. Every instance owns its registry.
type Metrics struct {
	registry         *prometheus.Registry
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	errors           *prometheus.CounterVec
	authentications  *prometheus.CounterVec
	paymentCallbacks *prometheus.CounterVec
}

// NewMetrics initializes and registers collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gallery_http_requests_total",
				Help: "HTTP requests by route, method and status.",
			},
			[]string{"route", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gallery_http_request_duration_seconds",
				Help:    "HTTP request latency by route and method.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gallery_http_errors_total",
				Help: "HTTP error responses by route, method and error code.",
			},
			[]string{"route", "method", "code"},
		),
		authentications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gallery_bearer_authentications_total",
				Help: "Bearer authentication outcomes.",
			},
			[]string{"outcome"},
		),
		paymentCallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gallery_payment_verifications_total",
				Help: "Payment callback verification outcomes.",
			},
			[]string{"outcome"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.errors,
		m.authentications,
		m.paymentCallbacks,
	)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(route, method, code).Inc()
}

// RecordAuthentication counts a bearer authentication outcome.
func (m *Metrics) RecordAuthentication(outcome string) {
	if m == nil {
		return
	}
	m.authentications.WithLabelValues(outcome).Inc()
}

// RecordPaymentVerification counts a payment callback outcome.
func (m *Metrics) RecordPaymentVerification(outcome string) {
	if m == nil {
		return
	}
	m.paymentCallbacks.WithLabelValues(outcome).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
