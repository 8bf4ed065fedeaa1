// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package enforcement

// Allowlist is an immutable set of usernames exempt from enforcement.
// Matching is exact and case-sensitive.
type Allowlist struct {
	names map[string]struct{}
}

// NewAllowlist builds an Allowlist. Empty names are dropped.
func NewAllowlist(usernames []string) *Allowlist {
	names := make(map[string]struct{}, len(usernames))
	for _, name := range usernames {
		if name != "" {
			names[name] = struct{}{}
		}
	}
	return &Allowlist{names: names}
}

// Contains reports whether username is allowlisted. "" is never a member.
func (a *Allowlist) Contains(username string) bool {
	if a == nil || username == "" {
		return false
	}
	_, ok := a.names[username]
	return ok
}

// Len returns the number of allowlisted usernames.
func (a *Allowlist) Len() int {
	if a == nil {
		return 0
	}
	return len(a.names)
}
