// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

/*
Package metrics provides Prometheus metrics for VPNGuard.

Collectors are registered on the default registry with promauto and exposed
at /metrics through promhttp:

	curl http://localhost:10201/metrics

# Available Metrics

Webhook decisions:
  - vpnguard_webhook_decisions_total{outcome}

Reputation lookups:
  - vpnguard_reputation_lookups_total{source,result}
  - vpnguard_reputation_lookup_duration_seconds{source}

Plex Media Server:
  - vpnguard_plex_requests_total{operation,status_code}
  - vpnguard_plex_request_duration_seconds{operation}
  - vpnguard_terminations_total{result}

Circuit breakers:
  - circuit_breaker_state{name} (0=closed, 1=half-open, 2=open)
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}

HTTP API:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
*/
package metrics
