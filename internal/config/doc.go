// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

/*
Package config loads and validates VPNGuard configuration.

Configuration is layered with Koanf v2 (highest priority wins):
  - Environment variables
  - Config file (CONFIG_PATH, config.yaml, /etc/vpnguard/config.yaml)
  - Built-in defaults

The resulting *Config is immutable after Load returns and is passed into
constructors; nothing below cmd/server reads the environment.

# Environment Variables

Plex Media Server:
  - PLEX_SERVER_URL (or PLEX_URL): base URL (default: http://127.0.0.1:32400)
  - PLEX_API_TOKEN (or PLEX_TOKEN): X-Plex-Token (required)
  - PLEX_SESSIONS_FORMAT: json or xml encoding of /status/sessions (default: json)
  - PLEX_TIMEOUT: HTTP client timeout (default: 30s)

VPN reputation:
  - VPN_API_KEY: vpnapi.io API key (required)
  - VPN_API_BASE_URL: reputation endpoint base (default: https://vpnapi.io/api)
  - TEST_BLOCKED_IP: IP always treated as a VPN, for end-to-end testing
  - VPN_DATA_FILE: optional gluetun servers.json for known-provider matching
  - VPN_TREAT_PROXY_AS_VPN, VPN_TREAT_TOR_AS_VPN, VPN_TREAT_RELAY_AS_VPN (default: false)
  - VPN_TIMEOUT: HTTP client timeout (default: 30s)

Enforcement:
  - IGNORED_USERNAMES (or ALLOWED_USERNAMES): comma-separated allowlist
  - SESSION_RESOLUTION_MODE: auto, session or machine (default: auto)
  - TERMINATION_REASON: message shown to the terminated client

HTTP server:
  - HTTP_HOST (default: 0.0.0.0), HTTP_PORT (default: 10201)
  - HTTP_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT, HTTP_MAX_BODY_BYTES

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
*/
package config
