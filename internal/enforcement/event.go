// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package enforcement

import (
	"github.com/tomtom215/vpnguard/internal/models"
)

// PlaybackEvent is the normalized view of one webhook.
type PlaybackEvent struct {
	EventType       string
	ClientIP        string
	Username        string
	SessionID       string
	PlayerMachineID string

	// Title is only used in log lines.
	Title string
}

// EventFromWebhook extracts a PlaybackEvent from a decoded Plex webhook.
func EventFromWebhook(w *models.PlexWebhook) PlaybackEvent {
	return PlaybackEvent{
		EventType:       w.Event,
		ClientIP:        w.GetPlayerIP(),
		Username:        w.GetUsername(),
		SessionID:       w.GetSessionID(),
		PlayerMachineID: w.GetPlayerMachineID(),
		Title:           w.GetContentTitle(),
	}
}
