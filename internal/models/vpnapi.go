// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package models

// VPNAPIResponse represents GET https://vpnapi.io/api/{ip}?key={key}
type VPNAPIResponse struct {
	IP       string          `json:"ip"`
	Security VPNAPISecurity  `json:"security"`
	Location *VPNAPILocation `json:"location,omitempty"`
	Network  *VPNAPINetwork  `json:"network,omitempty"`
}

// VPNAPISecurity holds the anonymizer flags. Missing flags decode as false.
type VPNAPISecurity struct {
	VPN   bool `json:"vpn"`
	Proxy bool `json:"proxy"`
	Tor   bool `json:"tor"`
	Relay bool `json:"relay"`
}

// VPNAPILocation is logged alongside VPN verdicts.
type VPNAPILocation struct {
	City        string `json:"city"`
	Region      string `json:"region"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
}

// VPNAPINetwork describes the autonomous system that announces the IP.
type VPNAPINetwork struct {
	Network                      string `json:"network"`
	AutonomousSystemNumber       string `json:"autonomous_system_number"`
	AutonomousSystemOrganization string `json:"autonomous_system_organization"`
}
