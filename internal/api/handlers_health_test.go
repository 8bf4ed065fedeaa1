// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
)

type fakeBreaker struct {
	name  string
	state string
}

func (b fakeBreaker) Name() string  { return b.name }
func (b fakeBreaker) State() string { return b.state }
func (b fakeBreaker) IsOpen() bool  { return b.state == "open" }

func TestHealthLive(t *testing.T) {
	t.Parallel()

	h := NewHandler(HandlerConfig{})
	rec := httptest.NewRecorder()
	h.HealthLive(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil))

	checkStatus(t, rec, http.StatusOK)
	if got := rec.Body.String(); got != `{"status":"ok"}` {
		t.Errorf("body = %s", got)
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		breakers   []BreakerStatus
		wantCode   int
		wantStatus string
	}{
		{"no breakers", nil, http.StatusOK, "ready"},
		{"all closed", []BreakerStatus{fakeBreaker{"vpnapi", "closed"}, fakeBreaker{"plex", "closed"}}, http.StatusOK, "ready"},
		{"half open is ready", []BreakerStatus{fakeBreaker{"vpnapi", "half-open"}}, http.StatusOK, "ready"},
		{"one open", []BreakerStatus{fakeBreaker{"vpnapi", "closed"}, fakeBreaker{"plex", "open"}}, http.StatusServiceUnavailable, "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHandler(HandlerConfig{Breakers: tt.breakers})
			rec := httptest.NewRecorder()
			h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))

			checkStatus(t, rec, tt.wantCode)

			var resp ReadinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantStatus)
			}
			if len(resp.Breakers) != len(tt.breakers) {
				t.Errorf("breakers = %v, want %d entries", resp.Breakers, len(tt.breakers))
			}
			for _, b := range tt.breakers {
				if resp.Breakers[b.Name()] != b.State() {
					t.Errorf("breakers[%s] = %q, want %q", b.Name(), resp.Breakers[b.Name()], b.State())
				}
			}
		})
	}
}
