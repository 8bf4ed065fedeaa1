// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package vpn

import (
	"net/netip"
	"sort"
	"sync"
)

// Lookup is an exact-match set of known VPN server addresses.
// IPv4-mapped IPv6 addresses are stored and matched in their IPv4 form.
type Lookup struct {
	addrs     map[netip.Addr]*serverInfo
	providers map[string]*Provider
	stats     Stats

	mu sync.RWMutex
}

type serverInfo struct {
	provider string
	country  string
	city     string
	hostname string
}

// NewLookup creates an empty Lookup.
func NewLookup() *Lookup {
	return &Lookup{
		addrs:     make(map[netip.Addr]*serverInfo),
		providers: make(map[string]*Provider),
	}
}

func parseAddr(ipStr string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(ipStr)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap().WithZone(""), true
}

// LookupIP returns the server an IP belongs to, or IsVPN=false.
func (l *Lookup) LookupIP(ipStr string) *LookupResult {
	addr, ok := parseAddr(ipStr)
	if !ok {
		return &LookupResult{}
	}

	l.mu.RLock()
	info, found := l.addrs[addr]
	l.mu.RUnlock()

	if !found {
		return &LookupResult{}
	}

	return &LookupResult{
		IsVPN:               true,
		Provider:            info.provider,
		ProviderDisplayName: GetDisplayName(info.provider),
		ServerCountry:       info.country,
		ServerCity:          info.city,
		ServerHostname:      info.hostname,
	}
}

// ContainsIP reports whether ipStr is a known VPN server address.
func (l *Lookup) ContainsIP(ipStr string) bool {
	addr, ok := parseAddr(ipStr)
	if !ok {
		return false
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	_, found := l.addrs[addr]
	return found
}

// AddServer adds a server's addresses and returns how many were unparsable.
func (l *Lookup) AddServer(server *Server) (skipped int) {
	info := &serverInfo{
		provider: server.Provider,
		country:  server.Country,
		city:     server.City,
		hostname: server.Hostname,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, ipStr := range server.IPs {
		addr, ok := parseAddr(ipStr)
		if !ok {
			skipped++
			continue
		}
		if _, dup := l.addrs[addr]; !dup {
			if addr.Is4() {
				l.stats.IPv4Count++
			} else {
				l.stats.IPv6Count++
			}
		}
		l.addrs[addr] = info
	}
	l.stats.TotalIPs = len(l.addrs)
	l.stats.TotalServers++

	return skipped
}

// AddProvider adds or replaces a provider's metadata.
func (l *Lookup) AddProvider(provider *Provider) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.providers[provider.Name] = provider
	l.stats.TotalProviders = len(l.providers)
}

// Providers returns provider metadata sorted by name.
func (l *Lookup) Providers() []Provider {
	l.mu.RLock()
	defer l.mu.RUnlock()

	providers := make([]Provider, 0, len(l.providers))
	for _, p := range l.providers {
		providers = append(providers, *p)
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i].Name < providers[j].Name })
	return providers
}

// GetStats returns a copy of the list statistics.
func (l *Lookup) GetStats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats
}

// Count returns the number of distinct addresses.
func (l *Lookup) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.addrs)
}

// Clear removes all data.
func (l *Lookup) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.addrs = make(map[netip.Addr]*serverInfo)
	l.providers = make(map[string]*Provider)
	l.stats = Stats{}
}
