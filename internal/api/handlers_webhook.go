// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package api

import (
	"io"
	"mime"
	"net/http"

	"github.com/tomtom215/vpnguard/internal/enforcement"
	"github.com/tomtom215/vpnguard/internal/logging"
	"github.com/tomtom215/vpnguard/internal/models"
)

// payloadField is the multipart form field Plex puts the JSON document in.
const payloadField = "payload"

// multipartMemory is how much of a multipart body is kept in memory; the
// rest (thumbnails) spills to temporary files.
const multipartMemory = 1 << 20

// PlexWebhook handles incoming Plex webhook notifications
// POST /webhook, POST /api/v1/plex/webhook
//
// Webhook Setup:
//  1. Go to Plex Settings → Webhooks
//  2. Add webhook URL: http://vpnguard:10201/webhook
func (h *Handler) PlexWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	webhook, status := extractPayload(r)
	if webhook == nil {
		respondDecision(w, h.pipeline.Malformed(r.Context(), status))
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("event", logging.SanitizeValue(webhook.Event)).
		Str("user", logging.SanitizeValue(webhook.GetUsername())).
		Str("ip", logging.SanitizeValue(webhook.GetPlayerIP())).
		Msg("Webhook received")

	respondDecision(w, h.pipeline.Process(r.Context(), enforcement.EventFromWebhook(webhook)))
}

// extractPayload decodes the webhook document from a multipart "payload"
// field or from the raw body. On failure it returns nil and the status text
// for the MalformedPayload response.
func extractPayload(r *http.Request) (*models.PlexWebhook, string) {
	if isMultipart(r.Header.Get("Content-Type")) {
		raw, ok := multipartPayload(r)
		if !ok {
			return nil, enforcement.StatusInvalidMultipartJSON
		}
		webhook := decodeWebhook([]byte(raw))
		if webhook == nil {
			return nil, enforcement.StatusInvalidMultipartJSON
		}
		return webhook, ""
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to read webhook body")
		return nil, enforcement.StatusInvalidBodyJSON
	}
	webhook := decodeWebhook(body)
	if webhook == nil {
		return nil, enforcement.StatusInvalidBodyJSON
	}
	return webhook, ""
}

func isMultipart(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "multipart/form-data"
}

// multipartPayload returns the first "payload" value. A body that cannot be
// parsed as multipart counts as a missing field.
func multipartPayload(r *http.Request) (string, bool) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to parse multipart webhook")
		return "", false
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	values := r.MultipartForm.Value[payloadField]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// decodeWebhook returns nil for input that is not a JSON object, including
// empty input and a JSON null. Mistyped fields never fail the payload, so
// classification on "event" happens for every object.
func decodeWebhook(data []byte) *models.PlexWebhook {
	if len(data) == 0 {
		return nil
	}
	webhook, err := models.DecodePlexWebhook(data)
	if err != nil {
		return nil
	}
	return webhook
}
