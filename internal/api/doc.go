// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

/*
Package api provides the HTTP surface of VPNGuard.

Routes:

	POST /webhook                  Plex webhook receiver
	POST /api/v1/plex/webhook      alias for /webhook
	GET  /api/v1/health/live       liveness probe
	GET  /api/v1/health/ready      readiness probe (503 while a breaker is open)
	GET  /metrics                  Prometheus exposition

Plex sends webhooks either as multipart/form-data with the JSON document in
the "payload" field (the default, since it may attach a thumbnail) or as a
plain JSON body. Both are accepted. The handler decodes the payload and hands
the event to the enforcement pipeline, whose Decision determines the HTTP
status and the {"status","error"} response body.

Webhook callers are not authenticated; deploy the listener on a network that
only the Plex server can reach.
*/
package api
