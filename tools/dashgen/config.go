package main

import "errors"

// KnownMetrics is the set of metric names exported by flipradar plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"flipradar_http_request_duration_seconds": true,
	"flipradar_http_requests_total":           true,

	// Health metrics.
	"flipradar_healthz_up": true,
	"flipradar_readyz_up":  true,

	// Scan pipeline metrics.
	"flipradar_scans_total":           true,
	"flipradar_scan_errors_total":     true,
	"flipradar_scan_duration_seconds": true,
	"flipradar_opportunities_found":   true,

	// eBay API metrics.
	"flipradar_ebay_api_calls_total":        true,
	"flipradar_ebay_daily_usage":            true,
	"flipradar_ebay_daily_limit_hits_total": true,

	// TCGplayer API metrics.
	"flipradar_tcgplayer_api_calls_total": true,

	// Cache metrics.
	"flipradar_cache_hits_total":   true,
	"flipradar_cache_misses_total": true,

	// Watch engine metrics.
	"flipradar_watch_runs_total":            true,
	"flipradar_watch_errors_total":          true,
	"flipradar_notification_failures_total": true,

	// Recording rules.
	"flipradar:http_requests:rate5m":  true,
	"flipradar:http_errors:rate5m":    true,
	"flipradar:scans:rate5m":          true,
	"flipradar:scan_errors:rate5m":    true,
	"flipradar:ebay_api_calls:rate5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
