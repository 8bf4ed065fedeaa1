// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package vpn

import (
	"context"
	"time"

	"github.com/tomtom215/vpnguard/internal/logging"
	"github.com/tomtom215/vpnguard/internal/metrics"
)

// Service chains the test override, the known provider list and a remote
// Checker. It holds no mutable state and is safe for concurrent use.
type Service struct {
	testBlockedIP string
	known         *Lookup
	remote        Checker
}

// NewService creates a Service. known may be nil or empty; remote is required.
func NewService(testBlockedIP string, known *Lookup, remote Checker) *Service {
	return &Service{
		testBlockedIP: testBlockedIP,
		known:         known,
		remote:        remote,
	}
}

// Lookup classifies ip. Remote errors are returned unchanged.
func (s *Service) Lookup(ctx context.Context, ip string) (*Verdict, error) {
	start := time.Now()

	if s.testBlockedIP != "" && ip == s.testBlockedIP {
		metrics.RecordReputationLookup(SourceOverride, true, time.Since(start), nil)
		logging.Ctx(ctx).Debug().Str("ip", logging.SanitizeValue(ip)).Msg("Test override IP matched")
		return &Verdict{IP: ip, IsVPN: true, Source: SourceOverride}, nil
	}

	if s.known != nil {
		if result := s.known.LookupIP(ip); result.IsVPN {
			metrics.RecordReputationLookup(SourceKnownProvider, true, time.Since(start), nil)
			logging.Ctx(ctx).Debug().
				Str("ip", logging.SanitizeValue(ip)).
				Str("provider", result.ProviderDisplayName).
				Str("server_country", result.ServerCountry).
				Msg("Known VPN provider address")
			return &Verdict{IP: ip, IsVPN: true, Source: SourceKnownProvider, Provider: result.Provider}, nil
		}
	}

	verdict, err := s.remote.Lookup(ctx, ip)
	isVPN := err == nil && verdict != nil && verdict.IsVPN
	metrics.RecordReputationLookup(SourceVPNAPI, isVPN, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return verdict, nil
}
