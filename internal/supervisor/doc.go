// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

/*
Package supervisor provides process supervision for VPNGuard using suture v4.

	RootSupervisor ("vpnguard")
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

The root owns the process context: main cancels it on SIGINT or SIGTERM and
every service shuts down within TreeConfig.ShutdownTimeout. A service that
returns an error is restarted with suture's backoff; supervisor events are
logged through sutureslog into the zerolog output.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
