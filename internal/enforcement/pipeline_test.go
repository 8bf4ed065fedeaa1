// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package enforcement

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/vpnguard/internal/metrics"
	"github.com/tomtom215/vpnguard/internal/models"
	"github.com/tomtom215/vpnguard/internal/vpn"
)

func playEvent() PlaybackEvent {
	return PlaybackEvent{
		EventType:       models.PlexEventMediaPlay,
		ClientIP:        "203.0.113.7",
		Username:        "bob",
		SessionID:       "sess-1",
		PlayerMachineID: "machine-1",
	}
}

func checkDecision(t *testing.T, d Decision, outcome Outcome, httpStatus int, status string) {
	t.Helper()
	if d.Outcome != outcome {
		t.Errorf("Outcome = %q, want %q", d.Outcome, outcome)
	}
	if d.HTTPStatus() != httpStatus {
		t.Errorf("HTTPStatus() = %d, want %d", d.HTTPStatus(), httpStatus)
	}
	if d.Status != status {
		t.Errorf("Status = %q, want %q", d.Status, status)
	}
}

func TestPipeline_Process(t *testing.T) {
	t.Parallel()

	apiErr := &vpn.APIError{StatusCode: 403, Body: "invalid key"}

	tests := []struct {
		name        string
		mutate      func(*PlaybackEvent)
		allowlist   []string
		checker     *fakeChecker
		terminator  *fakeTerminator
		mode        ResolutionMode
		outcome     Outcome
		httpStatus  int
		status      string
		wantLookups int
		wantHandles []SessionHandle
		wantError   string
	}{
		{
			name:       "non playback event ignored",
			mutate:     func(e *PlaybackEvent) { e.EventType = models.PlexEventMediaStop },
			checker:    &fakeChecker{isVPN: true},
			terminator: &fakeTerminator{ok: true},
			outcome:    OutcomeIgnored,
			httpStatus: http.StatusOK,
			status:     StatusIgnored,
		},
		{
			name:       "resume is not a playback start",
			mutate:     func(e *PlaybackEvent) { e.EventType = models.PlexEventMediaResume },
			checker:    &fakeChecker{isVPN: true},
			terminator: &fakeTerminator{ok: true},
			outcome:    OutcomeIgnored,
			httpStatus: http.StatusOK,
			status:     StatusIgnored,
		},
		{
			name:       "missing client ip",
			mutate:     func(e *PlaybackEvent) { e.ClientIP = "" },
			checker:    &fakeChecker{isVPN: true},
			terminator: &fakeTerminator{ok: true},
			outcome:    OutcomeMissingClientIP,
			httpStatus: http.StatusBadRequest,
			status:     StatusMissingClientIP,
		},
		{
			name:       "allowlisted user skips lookup",
			allowlist:  []string{"bob"},
			checker:    &fakeChecker{isVPN: true},
			terminator: &fakeTerminator{ok: true},
			outcome:    OutcomeAllowedByAllowlist,
			httpStatus: http.StatusOK,
			status:     StatusAllowedByAllowlist,
		},
		{
			name:        "allowlist is case sensitive",
			allowlist:   []string{"Bob"},
			checker:     &fakeChecker{isVPN: false},
			terminator:  &fakeTerminator{ok: true},
			outcome:     OutcomeAllowed,
			httpStatus:  http.StatusOK,
			status:      StatusAllowed,
			wantLookups: 1,
		},
		{
			name:        "clean ip allowed",
			checker:     &fakeChecker{isVPN: false},
			terminator:  &fakeTerminator{ok: true},
			outcome:     OutcomeAllowed,
			httpStatus:  http.StatusOK,
			status:      StatusAllowed,
			wantLookups: 1,
		},
		{
			name:        "lookup failure",
			checker:     &fakeChecker{err: apiErr},
			terminator:  &fakeTerminator{ok: true},
			outcome:     OutcomeReputationLookupFailed,
			httpStatus:  http.StatusInternalServerError,
			status:      StatusReputationFailed,
			wantLookups: 1,
			wantError:   "vpn api returned status 403: invalid key",
		},
		{
			name:        "vpn terminated",
			checker:     &fakeChecker{isVPN: true},
			terminator:  &fakeTerminator{ok: true},
			outcome:     OutcomeTerminationSucceeded,
			httpStatus:  http.StatusOK,
			status:      StatusTerminationSucceeded,
			wantLookups: 1,
			wantHandles: []SessionHandle{"sess-1"},
		},
		{
			name:        "termination refused",
			checker:     &fakeChecker{isVPN: true},
			terminator:  &fakeTerminator{ok: false},
			outcome:     OutcomeTerminationFailed,
			httpStatus:  http.StatusInternalServerError,
			status:      StatusTerminationFailed,
			wantLookups: 1,
			wantHandles: []SessionHandle{"sess-1"},
		},
		{
			name:        "termination transport error",
			checker:     &fakeChecker{isVPN: true},
			terminator:  &fakeTerminator{err: errors.New("connection refused")},
			outcome:     OutcomeTerminationFailed,
			httpStatus:  http.StatusInternalServerError,
			status:      StatusTerminationFailed,
			wantLookups: 1,
			wantHandles: []SessionHandle{"sess-1"},
		},
		{
			name:        "session mode without session id",
			mutate:      func(e *PlaybackEvent) { e.SessionID = "" },
			mode:        ResolutionSession,
			checker:     &fakeChecker{isVPN: true},
			terminator:  &fakeTerminator{ok: true},
			outcome:     OutcomeSessionIdentifierMissing,
			httpStatus:  http.StatusBadRequest,
			status:      StatusSessionIDMissing,
			wantLookups: 1,
		},
		{
			name:        "auto mode without any identifier",
			mutate:      func(e *PlaybackEvent) { e.SessionID, e.PlayerMachineID = "", "" },
			checker:     &fakeChecker{isVPN: true},
			terminator:  &fakeTerminator{ok: true},
			outcome:     OutcomeSessionIdentifierMissing,
			httpStatus:  http.StatusBadRequest,
			status:      StatusSessionIDMissing,
			wantLookups: 1,
		},
		{
			name:        "machine mode without machine id",
			mutate:      func(e *PlaybackEvent) { e.PlayerMachineID = "" },
			mode:        ResolutionMachine,
			checker:     &fakeChecker{isVPN: true},
			terminator:  &fakeTerminator{ok: true},
			outcome:     OutcomeSessionIdentifierMissing,
			httpStatus:  http.StatusBadRequest,
			status:      StatusMachineIDMissing,
			wantLookups: 1,
		},
		{
			name:        "clean ip without session id still allowed",
			mutate:      func(e *PlaybackEvent) { e.SessionID, e.PlayerMachineID = "", "" },
			checker:     &fakeChecker{isVPN: false},
			terminator:  &fakeTerminator{ok: true},
			outcome:     OutcomeAllowed,
			httpStatus:  http.StatusOK,
			status:      StatusAllowed,
			wantLookups: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			event := playEvent()
			if tt.mutate != nil {
				tt.mutate(&event)
			}

			p := NewPipeline(PipelineConfig{
				Allowlist:  NewAllowlist(tt.allowlist),
				Checker:    tt.checker,
				Terminator: tt.terminator,
				Mode:       tt.mode,
				Sessions:   &fakeLister{},
			})

			d := p.Process(context.Background(), event)
			checkDecision(t, d, tt.outcome, tt.httpStatus, tt.status)

			if got := tt.checker.calls(); got != tt.wantLookups {
				t.Errorf("reputation lookups = %d, want %d", got, tt.wantLookups)
			}
			handles := tt.terminator.calls()
			if len(handles) != len(tt.wantHandles) {
				t.Fatalf("terminations = %v, want %v", handles, tt.wantHandles)
			}
			for i := range handles {
				if handles[i] != tt.wantHandles[i] {
					t.Errorf("terminations[%d] = %q, want %q", i, handles[i], tt.wantHandles[i])
				}
			}
			if d.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", d.Error, tt.wantError)
			}
		})
	}
}

func TestPipeline_MachineLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		mode        ResolutionMode
		sessionID   string
		lister      *fakeLister
		outcome     Outcome
		wantHandles []SessionHandle
		wantListed  int
	}{
		{
			name:        "auto falls back to machine lookup",
			mode:        ResolutionAuto,
			lister:      &fakeLister{sessions: []models.PlexSession{session("1", "other", "s-other"), session("2", "machine-1", "s-match")}},
			outcome:     OutcomeTerminationSucceeded,
			wantHandles: []SessionHandle{"s-match"},
			wantListed:  1,
		},
		{
			name:        "machine mode ignores session id",
			mode:        ResolutionMachine,
			sessionID:   "sess-from-webhook",
			lister:      &fakeLister{sessions: []models.PlexSession{session("2", "machine-1", "s-match")}},
			outcome:     OutcomeTerminationSucceeded,
			wantHandles: []SessionHandle{"s-match"},
			wantListed:  1,
		},
		{
			name:        "first match wins",
			mode:        ResolutionMachine,
			lister:      &fakeLister{sessions: []models.PlexSession{session("1", "machine-1", "s-first"), session("2", "machine-1", "s-second")}},
			outcome:     OutcomeTerminationSucceeded,
			wantHandles: []SessionHandle{"s-first"},
			wantListed:  1,
		},
		{
			name:        "session key fallback",
			mode:        ResolutionMachine,
			lister:      &fakeLister{sessions: []models.PlexSession{session("42", "machine-1", "")}},
			outcome:     OutcomeTerminationSucceeded,
			wantHandles: []SessionHandle{"42"},
			wantListed:  1,
		},
		{
			name:       "no match",
			mode:       ResolutionMachine,
			lister:     &fakeLister{sessions: []models.PlexSession{session("1", "other", "s-other")}},
			outcome:    OutcomeTerminationFailed,
			wantListed: 1,
		},
		{
			name:       "listing failure",
			mode:       ResolutionMachine,
			lister:     &fakeLister{err: errors.New("unexpected status: 500")},
			outcome:    OutcomeTerminationFailed,
			wantListed: 1,
		},
		{
			name:        "auto prefers session id",
			mode:        ResolutionAuto,
			sessionID:   "sess-direct",
			lister:      &fakeLister{sessions: []models.PlexSession{session("2", "machine-1", "s-match")}},
			outcome:     OutcomeTerminationSucceeded,
			wantHandles: []SessionHandle{"sess-direct"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			event := playEvent()
			event.SessionID = tt.sessionID

			terminator := &fakeTerminator{ok: true}
			p := NewPipeline(PipelineConfig{
				Checker:    &fakeChecker{isVPN: true},
				Terminator: terminator,
				Mode:       tt.mode,
				Sessions:   tt.lister,
			})

			d := p.Process(context.Background(), event)
			if d.Outcome != tt.outcome {
				t.Errorf("Outcome = %q, want %q", d.Outcome, tt.outcome)
			}
			if got := tt.lister.callCount(); got != tt.wantListed {
				t.Errorf("ListSessions calls = %d, want %d", got, tt.wantListed)
			}
			handles := terminator.calls()
			if len(handles) != len(tt.wantHandles) {
				t.Fatalf("terminations = %v, want %v", handles, tt.wantHandles)
			}
			for i := range handles {
				if handles[i] != tt.wantHandles[i] {
					t.Errorf("terminations[%d] = %q, want %q", i, handles[i], tt.wantHandles[i])
				}
			}
		})
	}
}

func TestPipeline_Malformed(t *testing.T) {
	t.Parallel()

	p := NewPipeline(PipelineConfig{Checker: &fakeChecker{}, Terminator: &fakeTerminator{}})
	d := p.Malformed(context.Background(), StatusInvalidMultipartJSON)
	checkDecision(t, d, OutcomeMalformedPayload, http.StatusBadRequest, StatusInvalidMultipartJSON)
}

func TestPipeline_RecordsDecisionMetric(t *testing.T) {
	counter := metrics.WebhookDecisions.WithLabelValues(string(OutcomeMissingClientIP))
	before := testutil.ToFloat64(counter)

	p := NewPipeline(PipelineConfig{Checker: &fakeChecker{}, Terminator: &fakeTerminator{}})
	event := playEvent()
	event.ClientIP = ""
	p.Process(context.Background(), event)

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("decisions{missing_client_ip} delta = %v, want 1", got)
	}
}

func TestPipeline_ConcurrentEvents(t *testing.T) {
	t.Parallel()

	terminator := &fakeTerminator{ok: true}
	p := NewPipeline(PipelineConfig{
		Checker:    &fakeChecker{isVPN: true},
		Terminator: terminator,
	})

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d := p.Process(context.Background(), playEvent()); d.Outcome != OutcomeTerminationSucceeded {
				t.Errorf("Outcome = %q", d.Outcome)
			}
		}()
	}
	wg.Wait()

	if got := len(terminator.calls()); got != 25 {
		t.Errorf("terminations = %d, want 25", got)
	}
}

func TestOutcome_HTTPStatus(t *testing.T) {
	t.Parallel()

	for outcome, want := range outcomeHTTPStatus {
		if got := outcome.HTTPStatus(); got != want {
			t.Errorf("%s.HTTPStatus() = %d, want %d", outcome, got, want)
		}
	}
	if got := Outcome("bogus").HTTPStatus(); got != http.StatusInternalServerError {
		t.Errorf("unknown outcome status = %d, want 500", got)
	}
	if len(outcomeHTTPStatus) != 9 {
		t.Errorf("outcomes = %d, want 9", len(outcomeHTTPStatus))
	}
}
