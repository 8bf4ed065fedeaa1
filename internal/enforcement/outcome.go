// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package enforcement

import (
	"net/http"

	"github.com/tomtom215/vpnguard/internal/vpn"
)

// Outcome is the terminal result of processing one event.
type Outcome string

const (
	OutcomeIgnored                  Outcome = "ignored"
	OutcomeMalformedPayload         Outcome = "malformed_payload"
	OutcomeMissingClientIP          Outcome = "missing_client_ip"
	OutcomeAllowedByAllowlist       Outcome = "allowed_by_allowlist"
	OutcomeAllowed                  Outcome = "allowed"
	OutcomeReputationLookupFailed   Outcome = "reputation_lookup_failed"
	OutcomeSessionIdentifierMissing Outcome = "session_identifier_missing"
	OutcomeTerminationSucceeded     Outcome = "termination_succeeded"
	OutcomeTerminationFailed        Outcome = "termination_failed"
)

// Response messages.
const (
	StatusIgnored              = "Ignored non-playback event"
	StatusInvalidMultipartJSON = "Invalid JSON in payload"
	StatusInvalidBodyJSON      = "Invalid or missing JSON payload"
	StatusMissingClientIP      = "Client IP not found in webhook payload"
	StatusAllowedByAllowlist   = "Playback allowed for ignored username"
	StatusAllowed              = "Playback allowed"
	StatusReputationFailed     = "Error querying VPN API"
	StatusSessionIDMissing     = "Session ID not found"
	StatusMachineIDMissing     = "Machine Identifier not found"
	StatusTerminationSucceeded = "Playback stopped for VPN user"
	StatusTerminationFailed    = "Failed to stop playback"
)

// outcomeHTTPStatus maps each Outcome to exactly one HTTP status code.
var outcomeHTTPStatus = map[Outcome]int{
	OutcomeIgnored:                  http.StatusOK,
	OutcomeMalformedPayload:         http.StatusBadRequest,
	OutcomeMissingClientIP:          http.StatusBadRequest,
	OutcomeAllowedByAllowlist:       http.StatusOK,
	OutcomeAllowed:                  http.StatusOK,
	OutcomeReputationLookupFailed:   http.StatusInternalServerError,
	OutcomeSessionIdentifierMissing: http.StatusBadRequest,
	OutcomeTerminationSucceeded:     http.StatusOK,
	OutcomeTerminationFailed:        http.StatusInternalServerError,
}

// HTTPStatus returns the response status code for o.
func (o Outcome) HTTPStatus() int {
	if code, ok := outcomeHTTPStatus[o]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// Decision is the pipeline's answer for one event.
type Decision struct {
	Outcome Outcome
	Status  string

	// Error carries upstream error text for ReputationLookupFailed.
	Error string

	// Verdict and SessionHandle are set once the pipeline reached those steps.
	Verdict       *vpn.Verdict
	SessionHandle SessionHandle
}

// HTTPStatus returns the response status code.
func (d Decision) HTTPStatus() int {
	return d.Outcome.HTTPStatus()
}

func newDecision(outcome Outcome, status string) Decision {
	return Decision{Outcome: outcome, Status: status}
}
