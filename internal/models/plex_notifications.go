// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package models

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// Plex webhook event types.
// Documentation: https://support.plex.tv/articles/115002267687-webhooks/
const (
	PlexEventMediaPlay     = "media.play"
	PlexEventMediaPause    = "media.pause"
	PlexEventMediaResume   = "media.resume"
	PlexEventMediaStop     = "media.stop"
	PlexEventMediaScrobble = "media.scrobble"
)

// PlexWebhook represents a Plex webhook HTTP POST payload.
//
// Decoding is tolerant: only the top level must be a JSON object. A field
// of an unexpected type decodes as empty instead of failing the payload,
// and string fields also accept JSON numbers.
type PlexWebhook struct {
	Event    string               `json:"event"`              // Webhook event type (e.g., "media.play", "media.stop")
	Account  PlexWebhookAccount   `json:"Account"`            // User account information
	Server   PlexWebhookServer    `json:"Server"`             // Plex server information
	Player   PlexWebhookPlayer    `json:"Player"`             // Client/device information
	Session  PlexWebhookSession   `json:"Session"`            // Playback session, when Plex includes it
	Metadata *PlexWebhookMetadata `json:"Metadata,omitempty"` // Content metadata (present for media events)
}

// PlexWebhookAccount represents the user account in webhook payload
type PlexWebhookAccount struct {
	Title string `json:"title"` // Username/display name
}

// PlexWebhookServer represents the Plex server in webhook payload
type PlexWebhookServer struct {
	Title string `json:"title"` // Server name
	UUID  string `json:"uuid"`  // Server machine identifier
}

// PlexWebhookPlayer represents the client/device in webhook payload
type PlexWebhookPlayer struct {
	PublicAddress string `json:"publicAddress"` // Client public IP address
	Title         string `json:"title"`         // Device name
	UUID          string `json:"uuid"`          // Player machine identifier
}

// PlexWebhookSession identifies the playback session the event belongs to.
type PlexWebhookSession struct {
	ID string `json:"id"`
}

// PlexWebhookMetadata is the subset of content metadata used in log lines.
type PlexWebhookMetadata struct {
	RatingKey        string `json:"ratingKey"`
	Type             string `json:"type"` // "movie", "episode", "track"
	Title            string `json:"title"`
	GrandparentTitle string `json:"grandparentTitle"`
	ParentIndex      int    `json:"parentIndex"`
	Index            int    `json:"index"`
}

// ErrWebhookNotObject is returned for payloads whose top level is not a
// JSON object (including null).
var ErrWebhookNotObject = errors.New("webhook payload is not a JSON object")

// DecodePlexWebhook parses a webhook document. It fails only when data is
// not a JSON object.
func DecodePlexWebhook(data []byte) (*PlexWebhook, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode webhook: %w", err)
	}
	if fields == nil {
		return nil, ErrWebhookNotObject
	}
	return webhookFromFields(fields), nil
}

// UnmarshalJSON decodes tolerantly, see DecodePlexWebhook.
func (w *PlexWebhook) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*w = *webhookFromFields(fields)
	return nil
}

// Wire shapes of the webhook sections. Every leaf is a FlexString so a
// section only fails when it is not an object at all.
type (
	webhookAccountWire struct {
		Title FlexString `json:"title"`
	}
	webhookServerWire struct {
		Title FlexString `json:"title"`
		UUID  FlexString `json:"uuid"`
	}
	webhookPlayerWire struct {
		PublicAddress FlexString `json:"publicAddress"`
		Title         FlexString `json:"title"`
		UUID          FlexString `json:"uuid"`
	}
	webhookSessionWire struct {
		ID FlexString `json:"id"`
	}
	webhookMetadataWire struct {
		RatingKey        FlexString `json:"ratingKey"`
		Type             FlexString `json:"type"`
		Title            FlexString `json:"title"`
		GrandparentTitle FlexString `json:"grandparentTitle"`
		ParentIndex      FlexString `json:"parentIndex"`
		Index            FlexString `json:"index"`
	}
)

func webhookFromFields(fields map[string]json.RawMessage) *PlexWebhook {
	w := &PlexWebhook{}

	event, _ := decodeSection[FlexString](fields["event"])
	w.Event = string(event)

	if account, ok := decodeSection[webhookAccountWire](fields["Account"]); ok {
		w.Account = PlexWebhookAccount{Title: string(account.Title)}
	}
	if server, ok := decodeSection[webhookServerWire](fields["Server"]); ok {
		w.Server = PlexWebhookServer{Title: string(server.Title), UUID: string(server.UUID)}
	}
	if player, ok := decodeSection[webhookPlayerWire](fields["Player"]); ok {
		w.Player = PlexWebhookPlayer{
			PublicAddress: string(player.PublicAddress),
			Title:         string(player.Title),
			UUID:          string(player.UUID),
		}
	}
	if session, ok := decodeSection[webhookSessionWire](fields["Session"]); ok {
		w.Session = PlexWebhookSession{ID: string(session.ID)}
	}
	if md, ok := decodeSection[webhookMetadataWire](fields["Metadata"]); ok {
		w.Metadata = &PlexWebhookMetadata{
			RatingKey:        string(md.RatingKey),
			Type:             string(md.Type),
			Title:            string(md.Title),
			GrandparentTitle: string(md.GrandparentTitle),
			ParentIndex:      md.ParentIndex.Int(),
			Index:            md.Index.Int(),
		}
	}
	return w
}

// decodeSection decodes raw into a T. Absent, null or mistyped sections
// report false.
func decodeSection[T any](raw json.RawMessage) (T, bool) {
	var v T
	if len(raw) == 0 || string(raw) == "null" {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// FlexString accepts a JSON string or number. Any other JSON type decodes
// as "".
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*s = ""
		return nil
	}
	switch c := data[0]; {
	case c == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
	case c == '-' || (c >= '0' && c <= '9'):
		*s = FlexString(data)
	default:
		*s = ""
	}
	return nil
}

// Int parses the value as a decimal integer, 0 when it is not one.
func (s FlexString) Int() int {
	n, err := strconv.Atoi(string(s))
	if err != nil {
		return 0
	}
	return n
}

// IsPlaybackStart reports whether the event starts playback.
func (w *PlexWebhook) IsPlaybackStart() bool {
	return w.Event == PlexEventMediaPlay
}

// GetUsername returns the username from the webhook account
func (w *PlexWebhook) GetUsername() string {
	return w.Account.Title
}

// GetPlayerIP returns the client's public IP address
func (w *PlexWebhook) GetPlayerIP() string {
	return w.Player.PublicAddress
}

// GetSessionID returns the session identifier, or "" when absent.
func (w *PlexWebhook) GetSessionID() string {
	return w.Session.ID
}

// GetPlayerMachineID returns the player machine identifier, or "" when absent.
func (w *PlexWebhook) GetPlayerMachineID() string {
	return w.Player.UUID
}

// GetContentTitle returns a formatted content title
func (w *PlexWebhook) GetContentTitle() string {
	if w.Metadata == nil {
		return ""
	}
	if w.Metadata.GrandparentTitle != "" {
		// "Show Name - S01E05 - Episode Title"
		return fmt.Sprintf("%s - S%02dE%02d - %s",
			w.Metadata.GrandparentTitle,
			w.Metadata.ParentIndex,
			w.Metadata.Index,
			w.Metadata.Title)
	}
	return w.Metadata.Title
}
