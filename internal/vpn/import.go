// VPNGuard - Plex Webhook VPN Enforcement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vpnguard

package vpn

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vpnguard/internal/logging"
)

// Importer loads gluetun servers.json data into a Lookup.
type Importer struct {
	lookup *Lookup
}

// NewImporter creates a new VPN data importer.
func NewImporter(lookup *Lookup) *Importer {
	return &Importer{lookup: lookup}
}

// ImportFromFile replaces the Lookup contents with a gluetun servers.json file.
func (i *Importer) ImportFromFile(filename string) (*ImportResult, error) {
	file, err := os.Open(filename) //nolint:gosec // G304: filename is trusted input from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Str("filename", filename).Msg("Error closing VPN file")
		}
	}()

	return i.ImportFromReader(file)
}

// ImportFromReader replaces the Lookup contents with gluetun JSON read from r.
func (i *Importer) ImportFromReader(r io.Reader) (*ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return i.importBytes(data)
}

func (i *Importer) importBytes(data []byte) (*ImportResult, error) {
	start := time.Now()
	result := &ImportResult{}

	// The root "version" field is an int while providers are objects.
	var rawData map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawData); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	names := make([]string, 0, len(rawData))
	for name := range rawData {
		if name != "version" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	i.lookup.Clear()

	for _, providerName := range names {
		var providerData GluetunProvider
		if err := json.Unmarshal(rawData[providerName], &providerData); err != nil {
			logging.Debug().Str("provider", providerName).Err(err).Msg("Skipping non-provider entry in VPN data")
			continue
		}

		providerIPCount := 0
		for idx := range providerData.Servers {
			gs := &providerData.Servers[idx]
			skipped := i.lookup.AddServer(&Server{
				Provider: providerName,
				Country:  gs.Country,
				City:     gs.City,
				Hostname: gs.Hostname,
				IPs:      gs.IPs,
			})

			added := len(gs.IPs) - skipped
			providerIPCount += added
			result.ServersImported++
			result.IPsImported += added
			result.SkippedIPs += skipped
		}

		i.lookup.AddProvider(&Provider{
			Name:        providerName,
			DisplayName: GetDisplayName(providerName),
			ServerCount: len(providerData.Servers),
			IPCount:     providerIPCount,
			Version:     providerData.Version,
			Timestamp:   providerData.Timestamp,
		})
		result.ProvidersImported++
	}

	i.lookup.mu.Lock()
	i.lookup.stats.LastUpdated = time.Now()
	i.lookup.mu.Unlock()

	result.Duration = time.Since(start)
	return result, nil
}
