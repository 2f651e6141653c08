package metrics

import (
	"context"

	"wareg/internal/notify"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wareg"

var (
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of requests sent to the menu/order API",
		},
		[]string{"operation", "outcome"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of requests sent to the menu/order API",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	StorefrontEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storefront_events_total",
			Help:      "Cart and catalogue outcomes by kind",
		},
		[]string{"kind", "outcome"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of live storefront sessions",
		},
	)

	SnapshotFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "menu_snapshot_fallbacks_total",
			Help:      "Number of times the catalogue was seeded from the menu snapshot",
		},
	)
)

// Outcome returns the label used for a success flag.
func Outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// Subscriber counts every storefront event.
func Subscriber() notify.Subscriber {
	return notify.SubscriberFunc(func(_ context.Context, e notify.Event) {
		StorefrontEventsTotal.WithLabelValues(string(e.Kind), Outcome(e.Success)).Inc()
	})
}
