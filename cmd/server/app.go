// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/vpnguard/internal/api"
	"github.com/tomtom215/vpnguard/internal/config"
	"github.com/tomtom215/vpnguard/internal/enforcement"
	"github.com/tomtom215/vpnguard/internal/logging"
	"github.com/tomtom215/vpnguard/internal/plex"
	"github.com/tomtom215/vpnguard/internal/vpn"
)

// app holds the wired components.
type app struct {
	handler   http.Handler
	pipeline  *enforcement.Pipeline
	vpnClient *vpn.APIClient
	plex      *plex.Client
}

// newApp builds every component from cfg. It opens no listeners.
func newApp(cfg *config.Config) (*app, error) {
	known, err := loadKnownProviders(cfg.VPN.DataFile)
	if err != nil {
		return nil, err
	}

	vpnClient := vpn.NewAPIClient(vpn.APIClientConfig{
		BaseURL:         cfg.VPN.APIBaseURL,
		APIKey:          cfg.VPN.APIKey,
		Timeout:         cfg.VPN.Timeout,
		TreatProxyAsVPN: cfg.VPN.TreatProxyAsVPN,
		TreatTorAsVPN:   cfg.VPN.TreatTorAsVPN,
		TreatRelayAsVPN: cfg.VPN.TreatRelayAsVPN,
	})
	checker := vpn.NewService(cfg.VPN.TestBlockedIP, known, vpnClient)

	decoder, err := plex.NewSessionDecoder(cfg.Plex.SessionsFormat)
	if err != nil {
		return nil, fmt.Errorf("plex sessions format: %w", err)
	}
	plexClient := plex.NewClient(plex.ClientConfig{
		BaseURL: cfg.Plex.URL,
		Token:   cfg.Plex.Token,
		Timeout: cfg.Plex.Timeout,
		Decoder: decoder,
	})

	mode, err := enforcement.ParseResolutionMode(cfg.Enforcement.ResolutionMode)
	if err != nil {
		return nil, err
	}

	pipeline := enforcement.NewPipeline(enforcement.PipelineConfig{
		Allowlist: enforcement.NewAllowlist(cfg.Enforcement.AllowedUsernames),
		Checker:   checker,
		Terminator: &enforcement.PlexTerminator{
			Client: plexClient,
			Reason: cfg.Enforcement.TerminationReason,
		},
		Mode:     mode,
		Sessions: plexClient,
	})

	breakers := []api.BreakerStatus{vpnClient.Breaker()}
	for _, b := range plexClient.Breakers() {
		breakers = append(breakers, b)
	}

	handler := api.NewHandler(api.HandlerConfig{
		Pipeline:     pipeline,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Breakers:     breakers,
	})

	logging.Info().
		Str("plex_url", cfg.Plex.URL).
		Str("plex_token", logging.RedactSecret(cfg.Plex.Token)).
		Str("sessions_format", cfg.Plex.SessionsFormat).
		Str("resolution_mode", string(mode)).
		Int("allowed_usernames", len(cfg.Enforcement.AllowedUsernames)).
		Bool("test_blocked_ip", cfg.VPN.TestBlockedIP != "").
		Int("known_vpn_ips", known.Count()).
		Msg("Configuration loaded")

	return &app{
		handler:   api.NewRouter(handler).Setup(),
		pipeline:  pipeline,
		vpnClient: vpnClient,
		plex:      plexClient,
	}, nil
}

// loadKnownProviders imports the optional gluetun servers.json. An empty
// path yields an empty list.
func loadKnownProviders(path string) (*vpn.Lookup, error) {
	known := vpn.NewLookup()
	if path == "" {
		return known, nil
	}

	result, err := vpn.NewImporter(known).ImportFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("import VPN data file %s: %w", path, err)
	}

	logging.Info().
		Str("file", path).
		Int("providers", result.ProvidersImported).
		Int("servers", result.ServersImported).
		Int("ips", result.IPsImported).
		Int("skipped_ips", result.SkippedIPs).
		Dur("duration", result.Duration).
		Msg("Known VPN provider list imported")
	return known, nil
}

// newHTTPServer creates the listener configuration.
func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
}
