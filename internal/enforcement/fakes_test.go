// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package enforcement

import (
	"context"
	"sync"

	"github.com/tomtom215/vpnguard/internal/models"
	"github.com/tomtom215/vpnguard/internal/plex"
	"github.com/tomtom215/vpnguard/internal/vpn"
)

type fakeChecker struct {
	mu    sync.Mutex
	isVPN bool
	err   error
	ips   []string
}

func (f *fakeChecker) Lookup(_ context.Context, ip string) (*vpn.Verdict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ips = append(f.ips, ip)
	if f.err != nil {
		return nil, f.err
	}
	return &vpn.Verdict{IP: ip, IsVPN: f.isVPN, Source: vpn.SourceVPNAPI}, nil
}

func (f *fakeChecker) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ips)
}

type fakeTerminator struct {
	mu      sync.Mutex
	ok      bool
	err     error
	handles []SessionHandle
}

func (f *fakeTerminator) Terminate(_ context.Context, handle SessionHandle) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handles = append(f.handles, handle)
	return f.ok, f.err
}

func (f *fakeTerminator) calls() []SessionHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SessionHandle(nil), f.handles...)
}

type fakeLister struct {
	mu       sync.Mutex
	sessions []models.PlexSession
	err      error
	calls    int
}

func (f *fakeLister) ListSessions(context.Context) ([]models.PlexSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.sessions, f.err
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSessionTerminator struct {
	result *plex.TerminationResult
	err    error

	gotSessionID string
	gotReason    string
}

func (f *fakeSessionTerminator) TerminateSession(_ context.Context, sessionID, reason string) (*plex.TerminationResult, error) {
	f.gotSessionID = sessionID
	f.gotReason = reason
	return f.result, f.err
}

func session(key, machineID, sessionID string) models.PlexSession {
	s := models.PlexSession{SessionKey: key, Player: &models.PlexSessionPlayer{MachineID: machineID}}
	if sessionID != "" {
		s.Session = &models.PlexSessionDetails{ID: sessionID}
	}
	return s
}
