package main

import "errors"

// KnownMetrics is the set of metric names exported by slash plus the
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"slash_http_request_duration_seconds":        true,
	"slash_http_request_duration_seconds_bucket": true,
	"slash_http_requests_total":                  true,

	// Health metrics.
	"slash_healthz_up": true,
	"slash_readyz_up":  true,

	// Search metrics.
	"slash_search_requests_total":          true,
	"slash_search_duration_seconds_bucket": true,
	"slash_source_fetch_errors_total":      true,
	"slash_source_items_total":             true,

	// Cache metrics.
	"slash_cache_hits_total":   true,
	"slash_cache_misses_total": true,

	// Alert metrics.
	"slash_alert_items_total":                    true,
	"slash_alert_pass_duration_seconds_bucket":   true,
	"slash_alert_user_errors_total":              true,
	"slash_notification_failures_total":          true,
	"slash_notification_duration_seconds_bucket": true,

	// Scheduler metrics.
	"slash_scheduler_next_alert_pass_timestamp": true,
	"slash_scheduler_skipped_ticks_total":       true,

	// Recording rules.
	"slash:http_requests:rate5m":         true,
	"slash:http_errors:rate5m":           true,
	"slash:search_requests:rate5m":       true,
	"slash:source_fetch_errors:rate5m":   true,
	"slash:cache_hit_ratio:rate5m":       true,
	"slash:notification_duration:p95_5m": true,
	"slash:notification_failures:rate5m": true,

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
