// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

/*
Package enforcement decides what to do with a Plex playback event.

Pipeline.Process takes a PlaybackEvent through classification, the
allowlist, the VPN reputation check, session resolution and termination,
and returns exactly one Decision. Each Decision carries an Outcome and the
HTTP status and message the webhook endpoint answers with:

	Ignored                   200 Ignored non-playback event
	MalformedPayload          400 Invalid JSON in payload / Invalid or missing JSON payload
	MissingClientIP           400 Client IP not found in webhook payload
	AllowedByAllowlist        200 Playback allowed for ignored username
	Allowed                   200 Playback allowed
	ReputationLookupFailed    500 Error querying VPN API
	SessionIdentifierMissing  400 Session ID not found / Machine Identifier not found
	TerminationSucceeded      200 Playback stopped for VPN user
	TerminationFailed         500 Failed to stop playback

Session resolution is pluggable through SessionResolver. DirectResolver
uses the session id carried by the event; MachineLookupResolver finds the
session in the server's active session list by player machine identifier.
*/
package enforcement
