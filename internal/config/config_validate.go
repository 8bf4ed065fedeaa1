// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/vpnguard/internal/validation"
)

// Validate checks that required configuration is present and valid.
// Credential checks run first so the operator sees the variable name they
// need to set.
func (c *Config) Validate() error {
	if err := c.validateCredentials(); err != nil {
		return err
	}

	if err := validateHTTPURL(c.Plex.URL, "PLEX_SERVER_URL"); err != nil {
		return fmt.Errorf("PLEX_SERVER_URL is invalid: %w", err)
	}

	return validation.ValidateStruct(c)
}

func (c *Config) validateCredentials() error {
	if strings.TrimSpace(c.Plex.Token) == "" {
		return fmt.Errorf("PLEX_API_TOKEN is required")
	}
	if strings.TrimSpace(c.VPN.APIKey) == "" {
		return fmt.Errorf("VPN_API_KEY is required")
	}
	return nil
}

// normalize trims values that are commonly pasted with stray whitespace or
// a trailing slash. Allowlist entries are kept byte-exact apart from the
// comma-split trimming done at load time.
func (c *Config) normalize() {
	c.Plex.URL = strings.TrimRight(strings.TrimSpace(c.Plex.URL), "/")
	c.VPN.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.VPN.APIBaseURL), "/")
	c.VPN.TestBlockedIP = strings.TrimSpace(c.VPN.TestBlockedIP)
	c.Plex.SessionsFormat = strings.ToLower(c.Plex.SessionsFormat)
	c.Enforcement.ResolutionMode = strings.ToLower(c.Enforcement.ResolutionMode)
}
