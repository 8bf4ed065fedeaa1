// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

/*
Package models defines the wire types VPNGuard exchanges with Plex Media
Server and vpnapi.io.

  - PlexWebhook: the payload Plex POSTs to the webhook endpoint, either as
    the request body or as the multipart "payload" field
  - PlexSessionsResponse: GET /status/sessions, decodable from JSON and XML
  - VPNAPIResponse: GET https://vpnapi.io/api/{ip}

Types carry only the fields VPNGuard reads or logs; unknown fields are
ignored by the decoders.
*/
package models
