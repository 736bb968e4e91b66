package metrics

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace for all campus metrics
const namespace = "campus"

// Registry is the Prometheus registry for all metrics served on /metrics
var Registry = prometheus.NewRegistry()

// HTTP metrics
var (
	// HTTPRequestsTotal counts HTTP requests by method, route template, and status code
	HTTPRequestsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration records HTTP request latency in seconds
	HTTPRequestDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			// Buckets: 1ms, 5ms, 10ms, 25ms, 50ms, 100ms, 250ms, 500ms, 1s, 2.5s, 5s, 10s
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)
)

// Ledger metrics
var (
	// RegistrationAttempts counts register calls by outcome
	RegistrationAttempts = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registration_attempts_total",
			Help:      "Total number of event registration attempts by outcome",
		},
		[]string{"outcome"}, // registered|event_full|already_registered|registration_closed|not_found|error
	)

	// CheckIns counts check-in calls by outcome
	CheckIns = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkins_total",
			Help:      "Total number of check-in attempts by outcome",
		},
		[]string{"outcome"}, // checked_in|not_registered|already_checked_in|not_open|error
	)
)

var initOnce sync.Once

// Init registers the Go runtime and process collectors. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// RecordRegistration increments the registration counter for outcome
func RecordRegistration(outcome string) {
	RegistrationAttempts.WithLabelValues(outcome).Inc()
}

// RecordCheckIn increments the check-in counter for outcome
func RecordCheckIn(outcome string) {
	CheckIns.WithLabelValues(outcome).Inc()
}

// Handler exposes Registry in the Prometheus text format as a Fiber handler
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{
		Registry: Registry,
	}))
}
