// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package vpn

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

// stubChecker records calls and returns a fixed answer.
type stubChecker struct {
	isVPN bool
	err   error
	calls atomic.Int32
}

func (s *stubChecker) Lookup(_ context.Context, ip string) (*Verdict, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &Verdict{IP: ip, IsVPN: s.isVPN, Source: SourceVPNAPI}, nil
}

func knownLookup() *Lookup {
	l := NewLookup()
	l.AddServer(&Server{Provider: "mullvad", Country: "Sweden", IPs: []string{"198.51.100.10"}})
	return l
}

func TestService_Lookup(t *testing.T) {
	t.Parallel()

	errRemote := &APIError{StatusCode: 429, Body: "rate limited"}

	tests := []struct {
		name          string
		testBlockedIP string
		known         *Lookup
		remote        *stubChecker
		ip            string
		wantVPN       bool
		wantSource    string
		wantProvider  string
		wantErr       error
		wantCalls     int32
	}{
		{
			name:          "override short-circuits remote",
			testBlockedIP: "203.0.113.99",
			remote:        &stubChecker{},
			ip:            "203.0.113.99",
			wantVPN:       true,
			wantSource:    SourceOverride,
		},
		{
			name:          "override ignored for other ips",
			testBlockedIP: "203.0.113.99",
			remote:        &stubChecker{isVPN: false},
			ip:            "203.0.113.1",
			wantSource:    SourceVPNAPI,
			wantCalls:     1,
		},
		{
			name:         "known provider short-circuits remote",
			known:        knownLookup(),
			remote:       &stubChecker{},
			ip:           "198.51.100.10",
			wantVPN:      true,
			wantSource:   SourceKnownProvider,
			wantProvider: "mullvad",
		},
		{
			name:       "known provider miss falls through",
			known:      knownLookup(),
			remote:     &stubChecker{isVPN: true},
			ip:         "198.51.100.11",
			wantVPN:    true,
			wantSource: SourceVPNAPI,
			wantCalls:  1,
		},
		{
			name:      "remote error surfaces",
			remote:    &stubChecker{err: errRemote},
			ip:        "198.51.100.12",
			wantErr:   errRemote,
			wantCalls: 1,
		},
		{
			name:       "empty override never matches empty ip",
			remote:     &stubChecker{},
			ip:         "",
			wantCalls:  1,
			wantSource: SourceVPNAPI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := NewService(tt.testBlockedIP, tt.known, tt.remote)
			verdict, err := svc.Lookup(context.Background(), tt.ip)

			if got := tt.remote.calls.Load(); got != tt.wantCalls {
				t.Errorf("remote calls = %d, want %d", got, tt.wantCalls)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if verdict != nil {
					t.Errorf("verdict = %+v, want nil on error", verdict)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup() error = %v", err)
			}
			if verdict.IsVPN != tt.wantVPN {
				t.Errorf("IsVPN = %v, want %v", verdict.IsVPN, tt.wantVPN)
			}
			if verdict.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", verdict.Source, tt.wantSource)
			}
			if verdict.Provider != tt.wantProvider {
				t.Errorf("Provider = %q, want %q", verdict.Provider, tt.wantProvider)
			}
		})
	}
}
