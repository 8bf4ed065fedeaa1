// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

// Package logging provides zerolog-based structured logging for VPNGuard.
//
// A single global logger is configured once at startup from the logging
// section of the configuration and then used everywhere through the level
// helpers:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("ip", ip).Msg("Reputation lookup")
//
// Request-scoped logging goes through Ctx, which attaches the request and
// correlation IDs placed in the context by the HTTP middleware:
//
//	logging.Ctx(r.Context()).Warn().Msg("Termination failed")
//
// # Configuration
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// # Supervisor integration
//
// NewSlogLogger returns a log/slog logger backed by zerolog so that the
// suture supervisor tree (via sutureslog) writes to the same output.
//
// # Untrusted values
//
// Webhook payloads are attacker-controlled. SanitizeValue escapes control
// characters and truncates long values before they reach a log line.
package logging
