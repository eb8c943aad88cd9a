package main

import "errors"

// KnownMetrics is the set of metric names exported by auction-proxy plus the
// recording rules referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"altproxy_http_request_duration_seconds": true,
	"altproxy_http_requests_total":           true,

	// Probe gauges.
	"altproxy_healthz_up": true,
	"altproxy_readyz_up":  true,

	// Upstream attempts.
	"altproxy_upstream_requests_total":           true,
	"altproxy_upstream_request_duration_seconds": true,

	// Search outcomes.
	"altproxy_search_outcomes_total": true,
	"altproxy_search_items_returned": true,

	// Recording rules.
	"altproxy:http_requests:rate5m":              true,
	"altproxy:http_errors:rate5m":                true,
	"altproxy:search_outcomes:rate5m":            true,
	"altproxy:search_failures:ratio5m":           true,
	"altproxy:upstream_connection_errors:rate5m": true,

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

// DefaultConfig generates all artifacts into ../../deploy relative to
// tools/dashgen/.
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
