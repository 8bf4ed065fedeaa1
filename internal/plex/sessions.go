// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package plex

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vpnguard/internal/breaker"
	"github.com/tomtom215/vpnguard/internal/models"
)

// SessionDecoder decodes a /status/sessions body.
type SessionDecoder interface {
	// Accept is the Accept header value that selects this encoding.
	Accept() string
	Decode(r io.Reader) (*models.PlexSessionsResponse, error)
}

// JSONSessionDecoder decodes the JSON encoding.
type JSONSessionDecoder struct{}

// Accept implements SessionDecoder.
func (JSONSessionDecoder) Accept() string { return "application/json" }

// Decode implements SessionDecoder.
func (JSONSessionDecoder) Decode(r io.Reader) (*models.PlexSessionsResponse, error) {
	var resp models.PlexSessionsResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode sessions json: %w", err)
	}
	return &resp, nil
}

// XMLSessionDecoder decodes Plex's native XML encoding.
type XMLSessionDecoder struct{}

// Accept implements SessionDecoder.
func (XMLSessionDecoder) Accept() string { return "application/xml" }

// Decode implements SessionDecoder.
func (XMLSessionDecoder) Decode(r io.Reader) (*models.PlexSessionsResponse, error) {
	var resp models.PlexSessionsResponse
	if err := xml.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode sessions xml: %w", err)
	}
	return &resp, nil
}

// NewSessionDecoder returns the decoder for "json" or "xml".
func NewSessionDecoder(format string) (SessionDecoder, error) {
	switch format {
	case "", "json":
		return JSONSessionDecoder{}, nil
	case "xml":
		return XMLSessionDecoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported sessions format %q", format)
	}
}

// ListSessions returns the active sessions in server order.
func (c *Client) ListSessions(ctx context.Context) ([]models.PlexSession, error) {
	return breaker.Execute(c.sessionsBreaker, func() ([]models.PlexSession, error) {
		resp, err := c.doRequest(ctx, requestConfig{
			operation: "list_sessions",
			method:    http.MethodGet,
			path:      "/status/sessions",
			accept:    c.decoder.Accept(),
		})
		if err != nil {
			return nil, err
		}
		if !resp.ok() {
			return nil, fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.statusCode, http.StatusText(resp.statusCode))
		}

		decoded, err := c.decoder.Decode(bytes.NewReader(resp.body))
		if err != nil {
			return nil, err
		}
		return decoded.MediaContainer.Metadata, nil
	})
}
