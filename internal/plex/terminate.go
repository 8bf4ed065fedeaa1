// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package plex

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tomtom215/vpnguard/internal/breaker"
	"github.com/tomtom215/vpnguard/internal/logging"
	"github.com/tomtom215/vpnguard/internal/metrics"
)

// TerminationResult is the outcome of a terminate command.
type TerminationResult struct {
	Success    bool
	StatusCode int
	Body       string
}

// TerminateSession asks Plex to stop sessionID, showing reason to the user.
// Success is strictly a 2xx status. A non-2xx answer is not an error; it is
// reported with Success=false. Only transport failures return an error.
func (c *Client) TerminateSession(ctx context.Context, sessionID, reason string) (*TerminationResult, error) {
	result, err := breaker.Execute(c.terminateBreaker, func() (*TerminationResult, error) {
		resp, err := c.doRequest(ctx, requestConfig{
			operation: "terminate",
			method:    http.MethodGet,
			path:      "/status/sessions/terminate",
			query: url.Values{
				"sessionId":    {sessionID},
				"reason":       {reason},
				"X-Plex-Token": {c.token},
			},
		})
		if err != nil {
			return nil, err
		}
		return &TerminationResult{
			Success:    resp.ok(),
			StatusCode: resp.statusCode,
			Body:       string(resp.body),
		}, nil
	})
	if err != nil {
		metrics.RecordTermination("error")
		return nil, err
	}

	if !result.Success {
		metrics.RecordTermination("rejected")
		logging.Ctx(ctx).Warn().
			Str("session_id", logging.SanitizeValue(sessionID)).
			Int("status_code", result.StatusCode).
			Str("body", logging.SanitizeValue(result.Body)).
			Msg("Plex rejected session termination")
		return result, nil
	}

	metrics.RecordTermination("success")
	return result, nil
}
