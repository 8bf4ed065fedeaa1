// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package plex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tomtom215/vpnguard/internal/logging"
	"github.com/tomtom215/vpnguard/internal/metrics"
)

// ErrUnexpectedStatus wraps non-2xx answers from Plex.
var ErrUnexpectedStatus = errors.New("unexpected status")

// maxResponseBytes bounds how much of a Plex response is read.
const maxResponseBytes = 8 << 20

// requestConfig holds configuration for building HTTP requests
type requestConfig struct {
	operation string // metrics label
	method    string
	path      string
	query     url.Values
	accept    string
}

// response is a fully read Plex response.
type response struct {
	statusCode int
	status     string
	body       []byte
}

func (r *response) ok() bool {
	return r.statusCode >= 200 && r.statusCode < 300
}

// doRequest executes a Plex API request and reads the body.
// Non-2xx statuses are returned as a response, not an error.
func (c *Client) doRequest(ctx context.Context, cfg requestConfig) (*response, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, cfg.method, c.baseURL+cfg.path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("X-Plex-Token", c.token)
	if cfg.accept != "" {
		req.Header.Set("Accept", cfg.accept)
	}
	if len(cfg.query) > 0 {
		req.URL.RawQuery = cfg.query.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordPlexRequest(cfg.operation, 0, time.Since(start))
		// *url.Error embeds the request URL, which may carry the token.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logging.Debug().Err(closeErr).Str("operation", cfg.operation).Msg("Error closing Plex response body")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	metrics.RecordPlexRequest(cfg.operation, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &response{statusCode: resp.StatusCode, status: resp.Status, body: body}, nil
}
