// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package api

import (
	"context"
	"time"

	"github.com/tomtom215/vpnguard/internal/enforcement"
)

// DefaultMaxBodyBytes caps webhook bodies when HandlerConfig leaves it unset.
const DefaultMaxBodyBytes int64 = 10 << 20

// DecisionPipeline is the part of enforcement.Pipeline the handlers use.
type DecisionPipeline interface {
	Process(ctx context.Context, event enforcement.PlaybackEvent) enforcement.Decision
	Malformed(ctx context.Context, status string) enforcement.Decision
}

// BreakerStatus reports the state of an outbound circuit breaker.
// *breaker.Breaker satisfies it.
type BreakerStatus interface {
	Name() string
	State() string
	IsOpen() bool
}

// HandlerConfig wires a Handler.
type HandlerConfig struct {
	Pipeline     DecisionPipeline
	MaxBodyBytes int64
	Breakers     []BreakerStatus
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_webhook.go: Plex webhook receiver and payload extraction
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	pipeline     DecisionPipeline
	maxBodyBytes int64
	breakers     []BreakerStatus
	startTime    time.Time
}

// NewHandler creates a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Handler{
		pipeline:     cfg.Pipeline,
		maxBodyBytes: maxBody,
		breakers:     cfg.Breakers,
		startTime:    time.Now(),
	}
}
