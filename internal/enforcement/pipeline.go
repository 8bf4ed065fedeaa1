// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package enforcement

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/vpnguard/internal/logging"
	"github.com/tomtom215/vpnguard/internal/metrics"
	"github.com/tomtom215/vpnguard/internal/models"
	"github.com/tomtom215/vpnguard/internal/vpn"
)

// PipelineConfig wires a Pipeline.
type PipelineConfig struct {
	Allowlist  *Allowlist
	Checker    vpn.Checker
	Terminator Terminator
	Mode       ResolutionMode

	// Direct and Machine default to DirectResolver and a MachineLookupResolver
	// over Sessions.
	Direct   SessionResolver
	Machine  SessionResolver
	Sessions SessionLister
}

// Pipeline is the webhook decision pipeline. It is stateless per request
// and safe for concurrent use.
type Pipeline struct {
	allowlist  *Allowlist
	checker    vpn.Checker
	terminator Terminator
	mode       ResolutionMode
	direct     SessionResolver
	machine    SessionResolver
}

// NewPipeline creates a Pipeline.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	mode := cfg.Mode
	if mode == "" {
		mode = ResolutionAuto
	}

	direct := cfg.Direct
	if direct == nil {
		direct = DirectResolver{}
	}

	machine := cfg.Machine
	if machine == nil && cfg.Sessions != nil {
		machine = &MachineLookupResolver{Sessions: cfg.Sessions}
	}

	allowlist := cfg.Allowlist
	if allowlist == nil {
		allowlist = NewAllowlist(nil)
	}

	return &Pipeline{
		allowlist:  allowlist,
		checker:    cfg.Checker,
		terminator: cfg.Terminator,
		mode:       mode,
		direct:     direct,
		machine:    machine,
	}
}

// Process runs one event to a terminal Decision. It never returns an error;
// every failure is an Outcome.
func (p *Pipeline) Process(ctx context.Context, event PlaybackEvent) Decision {
	start := time.Now()
	d := p.decide(ctx, event)
	p.record(ctx, event, d, time.Since(start))
	return d
}

// Malformed records a payload that could not be decoded.
func (p *Pipeline) Malformed(ctx context.Context, status string) Decision {
	d := newDecision(OutcomeMalformedPayload, status)
	p.record(ctx, PlaybackEvent{}, d, 0)
	return d
}

func (p *Pipeline) decide(ctx context.Context, event PlaybackEvent) Decision {
	if event.EventType != models.PlexEventMediaPlay {
		return newDecision(OutcomeIgnored, StatusIgnored)
	}

	if event.ClientIP == "" {
		return newDecision(OutcomeMissingClientIP, StatusMissingClientIP)
	}

	if p.allowlist.Contains(event.Username) {
		return newDecision(OutcomeAllowedByAllowlist, StatusAllowedByAllowlist)
	}

	verdict, err := p.checker.Lookup(ctx, event.ClientIP)
	if err != nil {
		d := newDecision(OutcomeReputationLookupFailed, StatusReputationFailed)
		d.Error = err.Error()
		return d
	}

	if !verdict.IsVPN {
		d := newDecision(OutcomeAllowed, StatusAllowed)
		d.Verdict = verdict
		return d
	}

	d := p.enforce(ctx, event)
	d.Verdict = verdict
	return d
}

// enforce resolves and terminates the session of a VPN-flagged event.
func (p *Pipeline) enforce(ctx context.Context, event PlaybackEvent) Decision {
	resolver, missing := p.selectResolver(event)
	if resolver == nil {
		return newDecision(OutcomeSessionIdentifierMissing, missing)
	}

	handle, err := resolver.Resolve(ctx, event)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Session resolution failed")
		return newDecision(OutcomeTerminationFailed, StatusTerminationFailed)
	}

	ok, err := p.terminator.Terminate(ctx, handle)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("session", logging.SanitizeValue(string(handle))).Msg("Session termination request failed")
	}
	if err != nil || !ok {
		d := newDecision(OutcomeTerminationFailed, StatusTerminationFailed)
		d.SessionHandle = handle
		return d
	}

	d := newDecision(OutcomeTerminationSucceeded, StatusTerminationSucceeded)
	d.SessionHandle = handle
	return d
}

// selectResolver picks the strategy for event. A nil resolver means the
// event lacks the identifier the mode needs; the string is the response
// message.
func (p *Pipeline) selectResolver(event PlaybackEvent) (SessionResolver, string) {
	switch p.mode {
	case ResolutionSession:
		if event.SessionID == "" {
			return nil, StatusSessionIDMissing
		}
		return p.direct, ""
	case ResolutionMachine:
		if event.PlayerMachineID == "" || p.machine == nil {
			return nil, StatusMachineIDMissing
		}
		return p.machine, ""
	default:
		if event.SessionID != "" {
			return p.direct, ""
		}
		if event.PlayerMachineID != "" && p.machine != nil {
			return p.machine, ""
		}
		return nil, StatusSessionIDMissing
	}
}

func (p *Pipeline) record(ctx context.Context, event PlaybackEvent, d Decision, elapsed time.Duration) {
	metrics.RecordDecision(string(d.Outcome))

	logger := logging.Ctx(ctx)
	var e *zerolog.Event
	switch d.HTTPStatus() / 100 {
	case 5:
		e = logger.Error()
	case 4:
		e = logger.Warn()
	default:
		if d.Outcome == OutcomeIgnored {
			e = logger.Debug()
		} else {
			e = logger.Info()
		}
	}

	e = e.Str("outcome", string(d.Outcome)).
		Int("status_code", d.HTTPStatus()).
		Dur("elapsed", elapsed)
	if event.EventType != "" {
		e = e.Str("event", logging.SanitizeValue(event.EventType))
	}
	if event.ClientIP != "" {
		e = e.Str("client_ip", logging.SanitizeValue(event.ClientIP))
	}
	if event.Username != "" {
		e = e.Str("username", logging.SanitizeValue(event.Username))
	}
	if event.Title != "" {
		e = e.Str("title", logging.SanitizeValue(event.Title))
	}
	if d.Verdict != nil {
		e = e.Str("verdict_source", d.Verdict.Source)
		if d.Verdict.Provider != "" {
			e = e.Str("provider", d.Verdict.Provider)
		}
	}
	if d.SessionHandle != "" {
		e = e.Str("session", logging.SanitizeValue(string(d.SessionHandle)))
	}
	if d.Error != "" {
		e = e.Str("error", d.Error)
	}
	e.Msg(d.Status)
}
