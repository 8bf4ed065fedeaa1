// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vpnguard/internal/enforcement"
	"github.com/tomtom215/vpnguard/internal/models"
)

// recordingPipeline returns a fixed Decision and remembers what it saw.
type recordingPipeline struct {
	mu        sync.Mutex
	decision  enforcement.Decision
	events    []enforcement.PlaybackEvent
	malformed []string
}

func (p *recordingPipeline) Process(_ context.Context, event enforcement.PlaybackEvent) enforcement.Decision {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.decision
}

func (p *recordingPipeline) Malformed(_ context.Context, status string) enforcement.Decision {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.malformed = append(p.malformed, status)
	return enforcement.Decision{Outcome: enforcement.OutcomeMalformedPayload, Status: status}
}

// createPlexWebhookPayload creates a test Plex webhook payload
func createPlexWebhookPayload(t *testing.T, event, ip string) []byte {
	t.Helper()
	webhook := models.PlexWebhook{
		Event:   event,
		Account: models.PlexWebhookAccount{Title: "TestUser"},
		Server:  models.PlexWebhookServer{Title: "TestServer", UUID: "server-uuid"},
		Player: models.PlexWebhookPlayer{
			Title:         "Living Room",
			PublicAddress: ip,
			UUID:          "player-uuid-12345",
		},
		Session:  models.PlexWebhookSession{ID: "session-abc"},
		Metadata: &models.PlexWebhookMetadata{Type: "movie", Title: "Test Movie"},
	}
	data, err := json.Marshal(webhook)
	if err != nil {
		t.Fatalf("marshal webhook: %v", err)
	}
	return data
}

// multipartBody builds a Plex-style multipart body. A nil payload omits the field.
func multipartBody(t *testing.T, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if payload != nil {
		if err := mw.WriteField("payload", string(payload)); err != nil {
			t.Fatalf("write payload field: %v", err)
		}
	}
	thumb, err := mw.CreateFormFile("thumb", "thumb.jpg")
	if err != nil {
		t.Fatalf("create thumb: %v", err)
	}
	if _, err := thumb.Write(bytes.Repeat([]byte{0xFF}, 2048)); err != nil {
		t.Fatalf("write thumb: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) WebhookResponse {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var resp WebhookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func checkStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status code = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

func postWebhook(h http.Handler, path, contentType string, body *bytes.Buffer) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
