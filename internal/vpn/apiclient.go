// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package vpn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vpnguard/internal/breaker"
	"github.com/tomtom215/vpnguard/internal/logging"
	"github.com/tomtom215/vpnguard/internal/models"
)

// DefaultAPIBaseURL is the vpnapi.io lookup endpoint.
const DefaultAPIBaseURL = "https://vpnapi.io/api"

// maxErrorBodyBytes bounds how much of an error response is kept.
const maxErrorBodyBytes = 64 << 10

// APIError is returned when vpnapi.io answers with a non-200 status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vpn api returned status %d: %s", e.StatusCode, e.Body)
}

// isClientError reports a 4xx answer. The IP comes from an unauthenticated
// webhook, so these must not count against the circuit.
func isClientError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
}

// APIClientConfig configures an APIClient.
type APIClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// Security flags besides "vpn" that also count as a VPN verdict.
	TreatProxyAsVPN bool
	TreatTorAsVPN   bool
	TreatRelayAsVPN bool

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// APIClient queries vpnapi.io.
type APIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *breaker.Breaker

	treatProxy bool
	treatTor   bool
	treatRelay bool
}

// NewAPIClient creates a vpnapi.io client guarded by the "vpnapi" breaker.
func NewAPIClient(cfg APIClientConfig) *APIClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	settings := breaker.DefaultSettings()
	settings.IsSuccessful = isClientError

	return &APIClient{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		breaker:    breaker.New("vpnapi", settings),
		treatProxy: cfg.TreatProxyAsVPN,
		treatTor:   cfg.TreatTorAsVPN,
		treatRelay: cfg.TreatRelayAsVPN,
	}
}

// Breaker exposes the circuit breaker for readiness reporting.
func (c *APIClient) Breaker() *breaker.Breaker {
	return c.breaker
}

// Lookup implements Checker. It is never retried.
func (c *APIClient) Lookup(ctx context.Context, ip string) (*Verdict, error) {
	return breaker.Execute(c.breaker, func() (*Verdict, error) {
		return c.lookup(ctx, ip)
	})
}

func (c *APIClient) lookup(ctx context.Context, ip string) (*Verdict, error) {
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(ip), url.Values{"key": {c.apiKey}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error embeds the request URL, which carries the API key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logging.Debug().Err(closeErr).Msg("Error closing vpnapi response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload models.VPNAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &Verdict{IP: ip, IsVPN: c.classify(&payload.Security), Source: SourceVPNAPI}, nil
}

func (c *APIClient) classify(sec *models.VPNAPISecurity) bool {
	return sec.VPN ||
		(c.treatProxy && sec.Proxy) ||
		(c.treatTor && sec.Tor) ||
		(c.treatRelay && sec.Relay)
}
