// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package enforcement

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/vpnguard/internal/logging"
	"github.com/tomtom215/vpnguard/internal/models"
)

// SessionHandle is the identifier Plex accepts to terminate a session.
type SessionHandle string

// ErrSessionNotFound is returned when no session can be resolved for an event.
var ErrSessionNotFound = errors.New("session not found")

// SessionResolver finds the session to terminate for an event.
type SessionResolver interface {
	Resolve(ctx context.Context, event PlaybackEvent) (SessionHandle, error)
}

// SessionLister lists active sessions in server order.
type SessionLister interface {
	ListSessions(ctx context.Context) ([]models.PlexSession, error)
}

// ResolutionMode selects the resolution strategy.
type ResolutionMode string

const (
	// ResolutionAuto uses the session id when present, else the machine identifier.
	ResolutionAuto ResolutionMode = "auto"
	// ResolutionSession only uses the session id carried in the event.
	ResolutionSession ResolutionMode = "session"
	// ResolutionMachine only looks the session up by machine identifier.
	ResolutionMachine ResolutionMode = "machine"
)

// ParseResolutionMode parses "auto", "session" or "machine". "" is auto.
func ParseResolutionMode(s string) (ResolutionMode, error) {
	switch ResolutionMode(s) {
	case "", ResolutionAuto:
		return ResolutionAuto, nil
	case ResolutionSession:
		return ResolutionSession, nil
	case ResolutionMachine:
		return ResolutionMachine, nil
	default:
		return "", fmt.Errorf("unknown session resolution mode %q", s)
	}
}

// DirectResolver returns the event's session id without checking that the
// session is still active.
type DirectResolver struct{}

// Resolve implements SessionResolver.
func (DirectResolver) Resolve(_ context.Context, event PlaybackEvent) (SessionHandle, error) {
	if event.SessionID == "" {
		return "", ErrSessionNotFound
	}
	return SessionHandle(event.SessionID), nil
}

// MachineLookupResolver finds the first active session whose player has the
// event's machine identifier.
type MachineLookupResolver struct {
	Sessions SessionLister
}

// Resolve implements SessionResolver. Listing failures and misses both
// return ErrSessionNotFound.
func (r *MachineLookupResolver) Resolve(ctx context.Context, event PlaybackEvent) (SessionHandle, error) {
	if event.PlayerMachineID == "" {
		return "", ErrSessionNotFound
	}

	sessions, err := r.Sessions.ListSessions(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to list active Plex sessions")
		return "", fmt.Errorf("%w: list sessions: %w", ErrSessionNotFound, err)
	}

	for i := range sessions {
		if sessions[i].GetMachineID() != event.PlayerMachineID {
			continue
		}
		// First match wins, even when it carries no usable identifier.
		id := sessions[i].TerminationID()
		if id == "" {
			logging.Ctx(ctx).Warn().
				Str("machine_id", logging.SanitizeValue(event.PlayerMachineID)).
				Msg("Matching Plex session has no session id or key")
			return "", ErrSessionNotFound
		}
		return SessionHandle(id), nil
	}

	logging.Ctx(ctx).Warn().
		Str("machine_id", logging.SanitizeValue(event.PlayerMachineID)).
		Int("active_sessions", len(sessions)).
		Msg("No active session for player machine identifier")
	return "", ErrSessionNotFound
}
