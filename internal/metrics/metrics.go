// Package metrics holds the Prometheus collectors served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BackendCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_backend_calls_total",
		Help: "Backend calls by method and outcome.",
	}, []string{"method", "outcome"})

	BackendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portal_backend_call_seconds",
		Help:    "Backend call latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	OrderLines = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_order_lines_total",
		Help: "Order lines sent to the backend by result.",
	}, []string{"result"})

	Payments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_payments_total",
		Help: "Payments submitted by role.",
	}, []string{"role"})

	Validations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_validations_total",
		Help: "Payment validations by resulting status.",
	}, []string{"status"})

	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_exports_total",
		Help: "Report exports by format.",
	}, []string{"format"})

	SweptSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "portal_sessions_expired_last_sweep",
		Help: "Sessions logged out by the last sweep.",
	})
)
