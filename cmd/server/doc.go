// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

/*
Package main is the entry point for the VPNGuard server.

VPNGuard receives Plex webhooks and stops playback sessions that start from
an IP address flagged as VPN or proxy infrastructure.

	RootSupervisor ("vpnguard")
	└── APISupervisor ("api-layer")
	    └── HTTP Server (/webhook, health, metrics)

Component initialization order:

 1. Configuration: Koanf v2 (defaults, optional YAML file, environment)
 2. Logging: zerolog global logger
 3. Known VPN provider list (optional VPN_DATA_FILE)
 4. vpnapi.io client and reputation service
 5. Plex client with the configured session listing format
 6. Enforcement pipeline
 7. Chi router and HTTP server under the supervisor tree

Minimal environment:

	export PLEX_SERVER_URL=http://plex:32400
	export PLEX_API_TOKEN=your-plex-token
	export VPN_API_KEY=your-vpnapi-key
	./vpnguard

Then add http://vpnguard:10201/webhook as a webhook in Plex settings.
*/
package main
