// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package models

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

// PlexSessionsResponse represents GET /status/sessions.
//
// JSON (Accept: application/json) nests sessions under MediaContainer.Metadata.
// XML lists them as Video, Track and Photo children of <MediaContainer>.
type PlexSessionsResponse struct {
	XMLName        xml.Name              `json:"-" xml:"MediaContainer"`
	MediaContainer PlexSessionsContainer `json:"MediaContainer"`
}

// PlexSessionsContainer wraps the active sessions array
type PlexSessionsContainer struct {
	Size     int           `json:"size"`     // Number of active sessions
	Metadata []PlexSession `json:"Metadata"` // Active sessions in server order
}

// PlexSession represents a single active playback session
type PlexSession struct {
	SessionKey string `json:"sessionKey" xml:"sessionKey,attr"` // Numeric session key
	Key        string `json:"key" xml:"key,attr"`               // Metadata key path
	Type       string `json:"type" xml:"type,attr"`             // "movie", "episode", "track", "photo"
	Title      string `json:"title" xml:"title,attr"`

	User    *PlexSessionUser    `json:"User,omitempty" xml:"User"`
	Player  *PlexSessionPlayer  `json:"Player,omitempty" xml:"Player"`
	Session *PlexSessionDetails `json:"Session,omitempty" xml:"Session"`
}

// PlexSessionUser represents user information in active sessions
type PlexSessionUser struct {
	ID    string `json:"id" xml:"id,attr"`
	Title string `json:"title" xml:"title,attr"` // Username
	Thumb string `json:"thumb" xml:"thumb,attr"`
}

// PlexSessionPlayer represents device/client information
type PlexSessionPlayer struct {
	Address   string `json:"address" xml:"address,attr"` // Client IP address
	Device    string `json:"device" xml:"device,attr"`
	MachineID string `json:"machineIdentifier" xml:"machineIdentifier,attr"`
	Platform  string `json:"platform" xml:"platform,attr"`
	Product   string `json:"product" xml:"product,attr"`
	State     string `json:"state" xml:"state,attr"` // "playing", "paused", "buffering"
	Title     string `json:"title" xml:"title,attr"`
	Local     bool   `json:"local" xml:"local,attr"`
	Relayed   bool   `json:"relayed" xml:"relayed,attr"`
	Secure    bool   `json:"secure" xml:"secure,attr"`
}

// PlexSessionDetails carries the session identifier accepted by
// /status/sessions/terminate.
type PlexSessionDetails struct {
	ID        string `json:"id" xml:"id,attr"`
	Bandwidth int    `json:"bandwidth" xml:"bandwidth,attr"`
	Location  string `json:"location" xml:"location,attr"` // "lan" or "wan"
}

// GetMachineID returns the player machine identifier, or "".
func (s *PlexSession) GetMachineID() string {
	if s.Player == nil {
		return ""
	}
	return s.Player.MachineID
}

// GetUsername returns the session user's title, or "".
func (s *PlexSession) GetUsername() string {
	if s.User == nil {
		return ""
	}
	return s.User.Title
}

// TerminationID returns the identifier to pass to the terminate endpoint:
// Session.id, falling back to sessionKey.
func (s *PlexSession) TerminationID() string {
	if s.Session != nil && s.Session.ID != "" {
		return s.Session.ID
	}
	return s.SessionKey
}

// plexSessionElements are the MediaContainer children that represent sessions.
var plexSessionElements = map[string]bool{
	"Video": true,
	"Track": true,
	"Photo": true,
}

// UnmarshalXML decodes <MediaContainer> keeping sessions in document order
// across the Video, Track and Photo element types.
func (c *PlexSessionsContainer) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		if attr.Name.Local != "size" {
			continue
		}
		size, err := strconv.Atoi(attr.Value)
		if err != nil {
			return fmt.Errorf("invalid MediaContainer size %q: %w", attr.Value, err)
		}
		c.Size = size
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if !plexSessionElements[el.Name.Local] {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			var session PlexSession
			if err := d.DecodeElement(&session, &el); err != nil {
				return fmt.Errorf("decode %s element: %w", el.Name.Local, err)
			}
			c.Metadata = append(c.Metadata, session)
		case xml.EndElement:
			return nil
		}
	}
}

// UnmarshalXML decodes the <MediaContainer> root into the container.
func (r *PlexSessionsResponse) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	if start.Name.Local != "MediaContainer" {
		return fmt.Errorf("unexpected root element %q", start.Name.Local)
	}
	r.XMLName = start.Name
	return r.MediaContainer.UnmarshalXML(d, start)
}
