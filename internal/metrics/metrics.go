// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Webhook Decision Metrics
	WebhookDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vpnguard_webhook_decisions_total",
			Help: "Total number of webhook decisions by outcome",
		},
		[]string{"outcome"},
	)

	// Reputation Metrics
	ReputationLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vpnguard_reputation_lookups_total",
			Help: "Total number of IP reputation lookups",
		},
		[]string{"source", "result"}, // source: override, known_provider, vpnapi; result: vpn, clean, error
	)

	ReputationLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vpnguard_reputation_lookup_duration_seconds",
			Help:    "Duration of IP reputation lookups in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	// Plex Metrics
	PlexRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vpnguard_plex_requests_total",
			Help: "Total number of Plex Media Server API requests",
		},
		[]string{"operation", "status_code"},
	)

	PlexRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vpnguard_plex_request_duration_seconds",
			Help:    "Plex Media Server API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	Terminations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vpnguard_terminations_total",
			Help: "Total number of playback termination attempts",
		},
		[]string{"result"}, // "success", "rejected", "error"
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected", "canceled", "ignored"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordDecision counts one webhook decision.
func RecordDecision(outcome string) {
	WebhookDecisions.WithLabelValues(outcome).Inc()
}

// RecordReputationLookup records a reputation lookup. A non-nil err is
// counted as result "error" regardless of isVPN.
func RecordReputationLookup(source string, isVPN bool, duration time.Duration, err error) {
	result := "clean"
	switch {
	case err != nil:
		result = "error"
	case isVPN:
		result = "vpn"
	}
	ReputationLookups.WithLabelValues(source, result).Inc()
	ReputationLookupDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordPlexRequest records a Plex API call. statusCode 0 means the request
// never produced a response.
func RecordPlexRequest(operation string, statusCode int, duration time.Duration) {
	code := "error"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	PlexRequests.WithLabelValues(operation, code).Inc()
	PlexRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordTermination counts a termination attempt.
func RecordTermination(result string) {
	Terminations.WithLabelValues(result).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements active request counter
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
