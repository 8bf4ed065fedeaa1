// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package vpn

import (
	"context"
	"time"
)

// Verdict sources.
const (
	SourceOverride      = "override"
	SourceKnownProvider = "known_provider"
	SourceVPNAPI        = "vpnapi"
)

// Checker classifies an IP address.
type Checker interface {
	Lookup(ctx context.Context, ip string) (*Verdict, error)
}

// Verdict is the reputation classification of one IP.
type Verdict struct {
	IP    string `json:"ip"`
	IsVPN bool   `json:"is_vpn"`

	// Source is the source that decided: override, known_provider or vpnapi.
	Source string `json:"source"`

	// Provider is set for known_provider hits.
	Provider string `json:"provider,omitempty"`
}

// Provider represents a VPN service provider.
type Provider struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	ServerCount int    `json:"server_count"`
	IPCount     int    `json:"ip_count"`

	// Version and Timestamp come from the gluetun data.
	Version   int   `json:"version,omitempty"`
	Timestamp int64 `json:"timestamp,omitempty"`
}

// Server represents a VPN server.
type Server struct {
	Provider string   `json:"provider"`
	Country  string   `json:"country"`
	City     string   `json:"city,omitempty"`
	Hostname string   `json:"hostname,omitempty"`
	IPs      []string `json:"ips"`
}

// LookupResult contains the result of a known provider lookup.
type LookupResult struct {
	IsVPN               bool   `json:"is_vpn"`
	Provider            string `json:"provider,omitempty"`
	ProviderDisplayName string `json:"provider_display_name,omitempty"`
	ServerCountry       string `json:"server_country,omitempty"`
	ServerCity          string `json:"server_city,omitempty"`
	ServerHostname      string `json:"server_hostname,omitempty"`
}

// Stats describes the loaded known provider list.
type Stats struct {
	TotalProviders int       `json:"total_providers"`
	TotalServers   int       `json:"total_servers"`
	TotalIPs       int       `json:"total_ips"`
	IPv4Count      int       `json:"ipv4_count"`
	IPv6Count      int       `json:"ipv6_count"`
	LastUpdated    time.Time `json:"last_updated"`
}

// ImportResult contains the result of importing VPN data.
type ImportResult struct {
	ProvidersImported int           `json:"providers_imported"`
	ServersImported   int           `json:"servers_imported"`
	IPsImported       int           `json:"ips_imported"`
	SkippedIPs        int           `json:"skipped_ips"`
	Duration          time.Duration `json:"duration"`
}

// GluetunProvider represents a provider's data in gluetun format.
type GluetunProvider struct {
	Version   int             `json:"version"`
	Timestamp int64           `json:"timestamp"`
	Servers   []GluetunServer `json:"servers"`
}

// GluetunServer represents a server entry in gluetun format.
type GluetunServer struct {
	VPN        string   `json:"vpn,omitempty"`
	Country    string   `json:"country"`
	Region     string   `json:"region,omitempty"`
	City       string   `json:"city,omitempty"`
	ServerName string   `json:"server_name,omitempty"`
	Hostname   string   `json:"hostname,omitempty"`
	IPs        []string `json:"ips"`
}

// providerDisplayNames maps provider identifiers to human-readable names.
var providerDisplayNames = map[string]string{
	"airvpn":         "AirVPN",
	"cyberghost":     "CyberGhost",
	"expressvpn":     "ExpressVPN",
	"fastestvpn":     "FastestVPN",
	"hidemyass":      "HideMyAss",
	"ipvanish":       "IPVanish",
	"ivpn":           "IVPN",
	"mullvad":        "Mullvad",
	"nordvpn":        "NordVPN",
	"perfectprivacy": "Perfect Privacy",
	"privado":        "Privado VPN",
	"privatevpn":     "PrivateVPN",
	"protonvpn":      "ProtonVPN",
	"purevpn":        "PureVPN",
	"slickvpn":       "SlickVPN",
	"surfshark":      "Surfshark",
	"torguard":       "TorGuard",
	"vpnunlimited":   "VPN Unlimited",
	"vyprvpn":        "VyprVPN",
	"wevpn":          "WeVPN",
	"windscribe":     "Windscribe",
	"pia":            "Private Internet Access",
}

// GetDisplayName returns the human-readable name for a provider.
func GetDisplayName(provider string) string {
	if name, ok := providerDisplayNames[provider]; ok {
		return name
	}
	return provider
}
