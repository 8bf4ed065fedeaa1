// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

/*
Package plex is the Plex Media Server client used for enforcement.

It performs two operations:

  - ListSessions: GET /status/sessions, decoded by a SessionDecoder
    (JSON with Accept: application/json, or the server's native XML)
  - TerminateSession: GET /status/sessions/terminate with sessionId and
    reason query parameters

Every request carries the X-Plex-Token header. Listing goes through the
"plex_sessions" circuit breaker and termination through "plex_terminate".
Nothing is retried.
*/
package plex
