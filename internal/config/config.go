// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package config

import (
	"time"
)

// Session resolution modes.
const (
	ResolutionAuto    = "auto"
	ResolutionSession = "session"
	ResolutionMachine = "machine"
)

// Plex active-session listing encodings.
const (
	SessionsFormatJSON = "json"
	SessionsFormatXML  = "xml"
)

// DefaultTerminationReason is the message Plex shows on the terminated client.
const DefaultTerminationReason = "Streaming from a VPN or blocked connection, please disconnect from your VPN and try again."

// Config holds all application configuration.
//
// Loading order (Koanf v2):
//  1. Defaults
//  2. Config file (optional YAML)
//  3. Environment variables
type Config struct {
	Plex        PlexConfig        `koanf:"plex"`
	VPN         VPNConfig         `koanf:"vpn"`
	Enforcement EnforcementConfig `koanf:"enforcement"`
	Server      ServerConfig      `koanf:"server"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// PlexConfig configures the Plex Media Server client.
type PlexConfig struct {
	URL            string        `koanf:"url" validate:"required,http_base_url"`
	Token          string        `koanf:"token"`
	SessionsFormat string        `koanf:"sessions_format" validate:"oneof=json xml"`
	Timeout        time.Duration `koanf:"timeout" validate:"gt=0"`
}

// VPNConfig configures the reputation lookup chain.
type VPNConfig struct {
	APIKey     string `koanf:"api_key"`
	APIBaseURL string `koanf:"api_base_url" validate:"required,http_base_url"`

	// TestBlockedIP is always classified as VPN without a network call.
	TestBlockedIP string `koanf:"test_blocked_ip" validate:"omitempty,ip"`

	// DataFile is an optional gluetun servers.json; exact IP hits short-circuit the API.
	DataFile string `koanf:"data_file"`

	TreatProxyAsVPN bool `koanf:"treat_proxy_as_vpn"`
	TreatTorAsVPN   bool `koanf:"treat_tor_as_vpn"`
	TreatRelayAsVPN bool `koanf:"treat_relay_as_vpn"`

	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// EnforcementConfig configures the decision pipeline.
type EnforcementConfig struct {
	// AllowedUsernames are exempt from enforcement (exact, case-sensitive).
	AllowedUsernames  []string `koanf:"allowed_usernames"`
	ResolutionMode    string   `koanf:"resolution_mode" validate:"oneof=auto session machine"`
	TerminationReason string   `koanf:"termination_reason" validate:"required"`
}

// ServerConfig configures the webhook listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes" validate:"gt=0"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level" validate:"oneof=trace debug info warn warning error"`

	// Format is json (production) or console (development).
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
