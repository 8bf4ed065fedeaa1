// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package enforcement

import (
	"context"

	"github.com/tomtom215/vpnguard/internal/plex"
)

// Terminator stops a session. ok is false when the server refused.
type Terminator interface {
	Terminate(ctx context.Context, handle SessionHandle) (ok bool, err error)
}

// SessionTerminator is the part of plex.Client PlexTerminator needs.
type SessionTerminator interface {
	TerminateSession(ctx context.Context, sessionID, reason string) (*plex.TerminationResult, error)
}

// PlexTerminator terminates sessions through Plex with a fixed reason.
type PlexTerminator struct {
	Client SessionTerminator
	Reason string
}

// Terminate implements Terminator.
func (t *PlexTerminator) Terminate(ctx context.Context, handle SessionHandle) (bool, error) {
	result, err := t.Client.TerminateSession(ctx, string(handle), t.Reason)
	if err != nil {
		return false, err
	}
	return result.Success, nil
}
