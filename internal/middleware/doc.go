// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

/*
Package middleware provides HTTP middleware for the webhook server.

Key Components:

  - RequestID: X-Request-ID propagation into the logging context
  - PrometheusMetrics: request count, latency and in-flight instrumentation
  - AccessLog: one log line per request, promoted to warn when slow

Middleware Stack:

	r.With(
	    chiMiddleware(middleware.PrometheusMetrics),
	    chiMiddleware(middleware.RequestID),
	    middleware.AccessLog(2*time.Second),
	).Post("/webhook", h.PlexWebhook)

PrometheusMetrics labels requests by chi route pattern when one is available
so that unmatched paths do not grow label cardinality.

See Also:

  - internal/api: router and handlers
  - internal/metrics: metric definitions
*/
package middleware
