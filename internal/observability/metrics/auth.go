package metrics

// Package metrics exposes Prometheus instrumentation for the authentication
// gateway. Collectors are registered on the default registry and served from
// /metrics.

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gate decision outcomes.
const (
	GateOutcomeSkip      = "skip"
	GateOutcomeAllow     = "allow"
	GateOutcomeViolation = "violation"
	GateOutcomeError     = "error"
)

var (
	gateDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashgate_gate_decisions_total",
			Help: "Post-authorization gate decisions by outcome",
		},
		[]string{"outcome"},
	)

	backendAuthInfoDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashgate_backend_authinfo_duration_seconds",
			Help:    "Authorization backend authinfo call duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)

	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashgate_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"strategy", "outcome"},
	)

	sessionsCleared = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dashgate_sessions_cleared_total",
			Help: "Sessions invalidated by the authorization gate",
		},
	)
)

// ObserveGateDecision records a gate outcome.
func ObserveGateDecision(outcome string) {
	gateDecisions.WithLabelValues(outcome).Inc()
}

// ObserveBackendAuthInfo records an authinfo call's duration and status class.
func ObserveBackendAuthInfo(d time.Duration, status string) {
	backendAuthInfoDuration.WithLabelValues(status).Observe(d.Seconds())
}

// ObserveLoginAttempt records a login attempt.
func ObserveLoginAttempt(strategy, outcome string) {
	loginAttempts.WithLabelValues(strategy, outcome).Inc()
}

// ObserveSessionCleared records a gate-driven session invalidation.
func ObserveSessionCleared() {
	sessionsCleared.Inc()
}
