package config

import "time"

// Application constants
const (
	// EnvPrefix namespaces every environment variable, e.g. FEEDBACK_SERVER_PORT.
	EnvPrefix = "FEEDBACK"

	// Source kinds
	SourceKindCSV    = "csv"
	SourceKindFile   = "file"
	SourceKindSheets = "sheets"

	// DefaultSourceURL is the published CSV export of the feedback form.
	DefaultSourceURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vTSb09AJoTWy7rivoymiFsvRTpNxm3XKgvQ4lghKLTCBKWEVKbGvdl4FpuUueFP-WFu_1NeSf5nheNS/pub?output=csv"

	// Cache Settings
	DefaultCacheTTL = 1 * time.Hour

	// Network Timeouts
	DefaultFetchTimeout = 30 * time.Second

	// MaxSourceBytes bounds how much of a source response is read.
	MaxSourceBytes = 32 << 20
)
