// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package vpn

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleGluetunData = `{
	"version": 1,
	"airvpn": {
		"version": 1,
		"timestamp": 1721997873,
		"servers": [
			{
				"vpn": "wireguard",
				"country": "Austria",
				"region": "Europe",
				"city": "Vienna",
				"server_name": "Alderamin",
				"hostname": "at.vpn.airdns.org",
				"wgpubkey": "test-key",
				"ips": ["203.0.113.1"]
			},
			{
				"vpn": "openvpn",
				"country": "Germany",
				"city": "Frankfurt",
				"hostname": "de.vpn.airdns.org",
				"tcp": true,
				"udp": true,
				"ips": ["203.0.113.2", "2001:db8::2", "garbage"]
			}
		]
	},
	"mullvad": {
		"version": 3,
		"timestamp": 1721990000,
		"servers": [
			{"country": "Sweden", "city": "Stockholm", "hostname": "se-sto-wg-001", "ips": ["198.51.100.10"]}
		]
	},
	"notes": "not a provider"
}`

func TestImporter_ImportFromReader(t *testing.T) {
	t.Parallel()

	lookup := NewLookup()
	result, err := NewImporter(lookup).ImportFromReader(strings.NewReader(sampleGluetunData))
	if err != nil {
		t.Fatalf("ImportFromReader() error = %v", err)
	}

	if result.ProvidersImported != 2 {
		t.Errorf("ProvidersImported = %d, want 2", result.ProvidersImported)
	}
	if result.ServersImported != 3 {
		t.Errorf("ServersImported = %d, want 3", result.ServersImported)
	}
	if result.IPsImported != 4 {
		t.Errorf("IPsImported = %d, want 4", result.IPsImported)
	}
	if result.SkippedIPs != 1 {
		t.Errorf("SkippedIPs = %d, want 1", result.SkippedIPs)
	}

	hit := lookup.LookupIP("203.0.113.1")
	if !hit.IsVPN || hit.Provider != "airvpn" || hit.ServerCity != "Vienna" {
		t.Errorf("LookupIP(203.0.113.1) = %+v", hit)
	}
	if !lookup.ContainsIP("2001:db8::2") {
		t.Error("IPv6 server address should be imported")
	}

	providers := lookup.Providers()
	if len(providers) != 2 {
		t.Fatalf("Providers() = %+v", providers)
	}
	if providers[0].Name != "airvpn" || providers[0].ServerCount != 2 || providers[0].IPCount != 3 {
		t.Errorf("airvpn provider = %+v", providers[0])
	}
	if providers[1].DisplayName != "Mullvad" || providers[1].Version != 3 {
		t.Errorf("mullvad provider = %+v", providers[1])
	}
	if lookup.GetStats().LastUpdated.IsZero() {
		t.Error("LastUpdated should be set after import")
	}
}

func TestImporter_ReplacesExistingData(t *testing.T) {
	t.Parallel()

	lookup := NewLookup()
	lookup.AddServer(&Server{Provider: "stale", IPs: []string{"192.0.2.1"}})

	if _, err := NewImporter(lookup).ImportFromReader(strings.NewReader(sampleGluetunData)); err != nil {
		t.Fatalf("ImportFromReader() error = %v", err)
	}
	if lookup.ContainsIP("192.0.2.1") {
		t.Error("import should replace previous contents")
	}
}

func TestImporter_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := NewImporter(NewLookup()).ImportFromReader(strings.NewReader(`{not json`))
	if err == nil || !strings.Contains(err.Error(), "failed to parse JSON") {
		t.Errorf("err = %v, want parse error", err)
	}
}

func TestImporter_ImportFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "servers.json")
	if err := os.WriteFile(path, []byte(sampleGluetunData), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	lookup := NewLookup()
	result, err := NewImporter(lookup).ImportFromFile(path)
	if err != nil {
		t.Fatalf("ImportFromFile() error = %v", err)
	}
	if result.IPsImported != 4 || lookup.Count() != 4 {
		t.Errorf("IPsImported = %d, Count() = %d, want 4/4", result.IPsImported, lookup.Count())
	}

	if _, err := NewImporter(lookup).ImportFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
