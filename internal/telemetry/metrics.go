// Package telemetry provides application-level observability for the booking service.
//
// # Prometheus Metrics Endpoint
//
// All metrics are registered against the default Prometheus registry and are
// automatically available on the side-channel HTTP server started by main.go:
//
//	GET http(s)://<host>:<RR_TELEMETRY_METRICS_PROMETHEUS_PORT>/metrics
//
// Default port: 9090.  The endpoint returns data in the Prometheus text exposition
// format (Content-Type: text/plain; version=0.0.4) and is intended to be scraped by
// a Prometheus server every 15–60 seconds.  It is NOT served by the Gin router and
// is therefore absent from the OpenAPI/Swagger spec.
//
// # Metric Groups
//
//   - HTTP request counters and latency histograms (labelled by route template, not raw URL)
//   - Booking lifecycle counters (created, joined, completed by the sweeper)
//   - Issue report counter
//   - Database connection pool gauge (polled every 30 s)
//
// # Label Cardinality
//
// HTTP metrics use c.FullPath() (route template such as /api/v2/bookings/:id/join)
// rather than the raw request URL to prevent unbounded label cardinality from
// user-supplied path segments such as booking ids.
//
// # Usage
//
// Import the package for side effects so metrics are registered before the HTTP server
// starts listening:
//
//	import _ "github.com/roomreserve/roomreserve/internal/telemetry"
//
// Or import it directly and use an exported var:
//
//	telemetry.BookingsCreatedTotal.WithLabelValues(category, status).Inc()
package telemetry

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics — labelled by method, route template, and status code.
//
// HTTPRequestsTotal is a CounterVec with labels {method, path, status}.
// The path label holds the Gin route template (e.g. /api/bookings/:id),
// NOT the raw URL, to prevent unbounded cardinality.
//
// Example PromQL queries:
//   - Request rate (req/s, 5 m window):  rate(http_requests_total[5m])
//   - Error rate (%):                    sum(rate(http_requests_total{status=~"5.."}[5m])) / sum(rate(http_requests_total[5m])) * 100
//   - Requests by route:                 sum by (path) (rate(http_requests_total[5m]))
//
// HTTPRequestDuration is a HistogramVec with labels {method, path} and exponential-ish
// buckets from 5 ms to 30 s.  Use histogram_quantile to compute latency percentiles.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)
)

// Booking lifecycle metrics — recorded by the booking handlers and the
// completion sweeper.
//
// BookingsCreatedTotal is a CounterVec with labels {category, status}.
// "status" is the initial status, so it distinguishes personal (confirmed)
// from organization (pending) bookings.
//
// Example PromQL queries:
//   - Booking rate by category:  sum by (category) (rate(bookings_created_total[1h]))
//   - Share of org bookings:     sum(bookings_created_total{status="pending"}) / sum(bookings_created_total)
//
// BookingJoinsTotal counts successful participant joins. BookingsCompletedTotal
// counts bookings the background sweeper marked completed.
var (
	BookingsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Total number of bookings created, by room category and initial status.",
		},
		[]string{"category", "status"},
	)

	BookingJoinsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_joins_total",
			Help: "Total number of successful participant joins.",
		},
	)

	BookingsCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_completed_total",
			Help: "Total number of bookings marked completed by the background sweeper.",
		},
	)
)

// IssuesReportedTotal is a CounterVec with label {issue_type} incremented on
// each accepted issue report. A spike on one issue_type is a useful signal
// that something room-side is physically broken.
var IssuesReportedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "issues_reported_total",
		Help: "Total number of issue reports accepted, by issue type.",
	},
	[]string{"issue_type"},
)

// DBOpenConnections is a Gauge that tracks the number of open connections currently
// held by the sql.DB connection pool.  It is sampled every 30 seconds by
// StartDBStatsCollector rather than per-request to avoid the overhead of sql.DB.Stats().
//
// Example PromQL queries:
//   - Pool utilisation (%): db_open_connections / <RR_DATABASE_MAX_CONNECTIONS> * 100
//   - Alert on near-exhaustion: db_open_connections > 20  (for max_connections=25)
var DBOpenConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "db_open_connections",
		Help: "Current number of open database connections in the pool.",
	},
)

// StartDBStatsCollector launches a background goroutine that samples sql.DB connection
// pool statistics every 30 seconds and updates the DBOpenConnections gauge.
// The goroutine exits cleanly when the database becomes unreachable (db.Ping fails),
// which happens automatically when the application shuts down and defers db.Close().
//
// Call this once, immediately after db.Connect() succeeds in main.go:
//
//	telemetry.StartDBStatsCollector(database)
func StartDBStatsCollector(db *sql.DB) {
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := db.Ping(); err != nil {
				slog.Warn("db stats collector: database unreachable, stopping collector", "error", err)
				return
			}
			DBOpenConnections.Set(float64(db.Stats().OpenConnections))
		}
	}()
}
