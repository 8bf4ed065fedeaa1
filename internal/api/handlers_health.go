// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package api

import (
	"net/http"
)

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &ReadinessResponse{Status: "ok"})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 503 while any outbound circuit breaker is open.
func (h *Handler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	resp := &ReadinessResponse{Status: "ready"}
	statusCode := http.StatusOK

	if len(h.breakers) > 0 {
		resp.Breakers = make(map[string]string, len(h.breakers))
	}
	for _, b := range h.breakers {
		resp.Breakers[b.Name()] = b.State()
		if b.IsOpen() {
			resp.Status = "not_ready"
			statusCode = http.StatusServiceUnavailable
		}
	}

	respondJSON(w, statusCode, resp)
}
