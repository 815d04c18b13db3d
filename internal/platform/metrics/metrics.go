// Package metrics declares the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Notification results. Queued counts hand-offs to the background
// dispatcher; the later delivery is counted again as sent or failed.
const (
	ResultSent   = "sent"
	ResultFailed = "failed"
	ResultQueued = "queued"
)

var (
	// HTTPRequestDuration observes request latency in seconds by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tasklist_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// NotificationsTotal counts notification attempts by event type and result.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasklist_notifications_total",
			Help: "Total number of task notifications by event and result",
		},
		[]string{"event", "result"},
	)

	// StatusTransitionsTotal counts successful task status changes.
	StatusTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasklist_task_status_transitions_total",
			Help: "Total number of task status transitions",
		},
		[]string{"from", "to"},
	)

	// RateLimitedTotal counts requests rejected by the rate limiter.
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasklist_rate_limited_requests_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"path"},
	)
)

// RecordHTTPRequestDuration records the latency of one HTTP request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementNotification records one notification attempt.
func IncrementNotification(event string, sent bool) {
	result := ResultSent
	if !sent {
		result = ResultFailed
	}
	RecordNotification(event, result)
}

// RecordNotification counts one notification outcome under result.
func RecordNotification(event, result string) {
	NotificationsTotal.WithLabelValues(event, result).Inc()
}

// IncrementStatusTransition records one successful status change.
func IncrementStatusTransition(from, to string) {
	StatusTransitionsTotal.WithLabelValues(from, to).Inc()
}

// IncrementRateLimited records one rejected request.
func IncrementRateLimited(path string) {
	RateLimitedTotal.WithLabelValues(path).Inc()
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
