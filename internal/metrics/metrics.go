// Package metrics holds the prometheus collectors of the salon services.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"salon-booking/internal/booking"
)

const namespace = "salon"

var buckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

type Metrics struct {
	Registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	httpInFlight    prometheus.Gauge
	grpcCalls       *prometheus.CounterVec
	grpcDuration    *prometheus.HistogramVec
	bookings        *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	rateLimited     *prometheus.CounterVec
}

// New registers every collector on a fresh registry, plus the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "web", Name: "http_requests_total",
			Help: "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "web", Name: "http_request_duration_seconds",
			Help: "Latency distribution of HTTP handlers", Buckets: buckets,
		}, []string{"method", "route"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "web", Name: "http_requests_in_flight",
			Help: "HTTP requests being served",
		}),
		grpcCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "grpc", Name: "calls_total",
			Help: "Count of gRPC calls by method and status code",
		}, []string{"method", "code"}),
		grpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "grpc", Name: "call_duration_seconds",
			Help: "Latency distribution of gRPC calls", Buckets: buckets,
		}, []string{"method"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "bookings_total",
			Help: "Booking attempts by outcome",
		}, []string{"outcome"}),
		backendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "backend", Name: "call_duration_seconds",
			Help: "Latency distribution of backend calls", Buckets: buckets,
		}, []string{"op", "result"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}, []string{"route"}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration, m.httpInFlight,
		m.grpcCalls, m.grpcDuration,
		m.bookings, m.backendDuration, m.rateLimited,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func (m *Metrics) InFlight() prometheus.Gauge { return m.httpInFlight }

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ObserveGRPC(method, code string, d time.Duration) {
	m.grpcCalls.WithLabelValues(method, code).Inc()
	m.grpcDuration.WithLabelValues(method).Observe(d.Seconds())
}

// ObserveBackend matches booking.WithObserver.
func (m *Metrics) ObserveBackend(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.backendDuration.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
}

func (m *Metrics) RateLimited(route string) {
	m.rateLimited.WithLabelValues(route).Inc()
}

// Booking counts one booking attempt by the outcome err implies.
func (m *Metrics) Booking(err error) {
	m.bookings.WithLabelValues(Outcome(err)).Inc()
}

func Outcome(err error) string {
	switch {
	case err == nil:
		return "booked"
	case errors.Is(err, booking.ErrSlotUnavailable):
		return "unavailable"
	case errors.Is(err, booking.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, booking.ErrNotAuthenticated):
		return "unauthenticated"
	}
	return "error"
}
