// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package plex

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/vpnguard/internal/breaker"
)

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration

	// Decoder selects the /status/sessions encoding. Defaults to JSON.
	Decoder SessionDecoder

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client talks to one Plex Media Server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	decoder    SessionDecoder

	// Listing and termination trip independently, so a failing
	// /status/sessions does not block terminations by session id.
	sessionsBreaker  *breaker.Breaker
	terminateBreaker *breaker.Breaker
}

// NewClient creates a Plex client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	decoder := cfg.Decoder
	if decoder == nil {
		decoder = JSONSessionDecoder{}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: httpClient,
		decoder:    decoder,

		sessionsBreaker:  breaker.New("plex_sessions", breaker.DefaultSettings()),
		terminateBreaker: breaker.New("plex_terminate", breaker.DefaultSettings()),
	}
}

// Breakers exposes the circuit breakers for readiness reporting.
func (c *Client) Breakers() []*breaker.Breaker {
	return []*breaker.Breaker{c.sessionsBreaker, c.terminateBreaker}
}
