package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Tool invocations on the tool surface
	ToolCallCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_call_count",
			Help: "Total number of tool invocations",
		},
		[]string{"tool", "status"}, // status: ok, error
	)

	// Recommendation outcomes
	RecommendationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_count",
			Help: "Total number of assignee recommendations",
		},
		[]string{"outcome"}, // outcome: history, fallback, no_candidates
	)

	// Events appended to the log
	EventsLoggedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_logged_count",
			Help: "Total number of events appended to the event log",
		},
		[]string{"source"}, // source: http, tool, mq
	)

	// Slow SQL statements
	DBSlowQueryCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of statements slower than the slow query threshold",
		},
		[]string{"sql"},
	)

	DBSlowQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "db_slow_query_duration_seconds",
			Help:    "Duration of slow statements in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8), // 100ms to ~13s
		},
	)
)

// RecordHTTPRequestDuration records HTTP latency
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementToolCall counts one tool invocation
func IncrementToolCall(tool, status string) {
	ToolCallCount.WithLabelValues(tool, status).Inc()
}

// IncrementRecommendation counts one recommendation by outcome
func IncrementRecommendation(outcome string) {
	RecommendationCount.WithLabelValues(outcome).Inc()
}

// IncrementEventsLogged counts one appended event
func IncrementEventsLogged(source string) {
	EventsLoggedCount.WithLabelValues(source).Inc()
}

// IncrementSlowQuery counts a slow statement and records its duration
func IncrementSlowQuery(sql string, duration time.Duration) {
	DBSlowQueryCount.WithLabelValues(sql).Inc()
	DBSlowQueryDuration.Observe(duration.Seconds())
}
