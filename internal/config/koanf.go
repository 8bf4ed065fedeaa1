// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/vpnguard/config.yaml",
	"/etc/vpnguard/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Plex: PlexConfig{
			URL:            "http://127.0.0.1:32400",
			Token:          "",
			SessionsFormat: SessionsFormatJSON,
			Timeout:        30 * time.Second,
		},
		VPN: VPNConfig{
			APIKey:     "",
			APIBaseURL: "https://vpnapi.io/api",
			Timeout:    30 * time.Second,
		},
		Enforcement: EnforcementConfig{
			AllowedUsernames:  []string{},
			ResolutionMode:    ResolutionAuto,
			TerminationReason: DefaultTerminationReason,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            10201,
			Timeout:         60 * time.Second, // must cover one vpnapi call plus one or two Plex calls
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    10 << 20, // multipart webhooks carry a thumbnail
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults
//  2. Config file (if one exists)
//  3. Environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set via env.
var sliceConfigPaths = []string{
	"enforcement.allowed_usernames",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			// Unset, or already a list from the YAML file.
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
// Unmapped variables are ignored so the process environment cannot pollute
// the configuration.
var envMappings = map[string]string{
	// Plex
	"plex_server_url":      "plex.url",
	"plex_api_token":       "plex.token",
	"plex_sessions_format": "plex.sessions_format",
	"plex_timeout":         "plex.timeout",

	// VPN reputation
	"vpn_api_key":            "vpn.api_key",
	"vpn_api_base_url":       "vpn.api_base_url",
	"test_blocked_ip":        "vpn.test_blocked_ip",
	"vpn_data_file":          "vpn.data_file",
	"vpn_treat_proxy_as_vpn": "vpn.treat_proxy_as_vpn",
	"vpn_treat_tor_as_vpn":   "vpn.treat_tor_as_vpn",
	"vpn_treat_relay_as_vpn": "vpn.treat_relay_as_vpn",
	"vpn_timeout":            "vpn.timeout",

	// Enforcement
	"ignored_usernames":       "enforcement.allowed_usernames",
	"session_resolution_mode": "enforcement.resolution_mode",
	"termination_reason":      "enforcement.termination_reason",

	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"http_max_body_bytes":   "server.max_body_bytes",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envAliases are accepted alternative names. An alias is only read when
// its canonical variable is unset.
var envAliases = map[string]string{
	"plex_url":          "PLEX_SERVER_URL",
	"plex_token":        "PLEX_API_TOKEN",
	"allowed_usernames": "IGNORED_USERNAMES",
}

// envTransformFunc transforms environment variables to koanf paths.
// Empty values are skipped so an exported-but-blank variable does not
// override the file or the defaults.
//
// Examples:
//   - PLEX_API_TOKEN -> plex.token
//   - TEST_BLOCKED_IP -> vpn.test_blocked_ip
//   - HTTP_PORT -> server.port
func envTransformFunc(key, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}

	lower := strings.ToLower(key)
	if canonical, ok := envAliases[lower]; ok {
		if os.Getenv(canonical) != "" {
			return "", nil
		}
		lower = strings.ToLower(canonical)
	}

	return envMappings[lower], value
}
