package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RuleOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queuewise_rule_outcomes_total",
			Help: "Rule evaluations by action, result and rule code",
		},
		[]string{"action", "result", "rule_code"},
	)

	EventAppendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "queuewise_event_append_failures_total",
			Help: "Queue events that could not be persisted or published",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queuewise_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "queuewise_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
