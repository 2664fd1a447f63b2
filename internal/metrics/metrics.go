package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roundtable_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roundtable_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Debate metrics
	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roundtable_sessions_started_total",
			Help: "Total debate sessions started",
		},
	)

	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roundtable_turns_total",
			Help: "Total debate turns completed",
		},
		[]string{"phase"}, // "contributing" or "deciding"
	)

	GenerationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "roundtable_generation_failures_total",
			Help: "Total fatal generation failures",
		},
	)

	SessionsEnded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roundtable_sessions_ended_total",
			Help: "Total debate sessions reaching a terminal state",
		},
		[]string{"outcome"}, // "finished" or "failed"
	)
)
