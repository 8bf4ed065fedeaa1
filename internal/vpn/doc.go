// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

// Package vpn answers one question for the enforcement pipeline: is this
// client IP a VPN or anonymizing proxy?
//
// A Service consults three sources in order and stops at the first that
// decides:
//
//  1. The test override. The configured TEST_BLOCKED_IP is always a VPN,
//     so operators can exercise the termination path end to end.
//  2. The known provider list. An optional gluetun servers.json, imported
//     once at startup into an exact-match netip map.
//  3. The vpnapi.io API, through a circuit breaker.
//
// Verdicts are never cached; every webhook gets a fresh lookup.
//
// # Usage
//
//	lookup := vpn.NewLookup()
//	if cfg.VPN.DataFile != "" {
//	    if _, err := vpn.NewImporter(lookup).ImportFromFile(cfg.VPN.DataFile); err != nil {
//	        return err
//	    }
//	}
//	remote := vpn.NewAPIClient(vpn.APIClientConfig{BaseURL: cfg.VPN.APIBaseURL, APIKey: cfg.VPN.APIKey})
//	svc := vpn.NewService(cfg.VPN.TestBlockedIP, lookup, remote)
//
//	verdict, err := svc.Lookup(ctx, "203.0.113.7")
//
// # Data Model
//
// The gluetun JSON format is:
//
//	{
//	    "version": 1,
//	    "provider_name": {
//	        "version": 1,
//	        "timestamp": 1721997873,
//	        "servers": [
//	            {
//	                "vpn": "wireguard",
//	                "country": "Austria",
//	                "city": "Vienna",
//	                "hostname": "at.vpn.airdns.org",
//	                "ips": ["203.0.113.1", "2001:db8::1"]
//	            }
//	        ]
//	    }
//	}
package vpn
