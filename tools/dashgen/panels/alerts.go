package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// AlertItemsRate returns a timeseries panel showing price-drop items found
// per hour.
func AlertItemsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Price Drops / hour").
		Description("Wishlist items whose live price fell below the saved price").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`sum(rate(slash_alert_items_total{job="`+Job+`"}[1h])) * 3600`, "drops/h", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// AlertPassDuration returns a timeseries panel showing the p95 duration of an
// all-users alert pass.
func AlertPassDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Alert Pass Duration (p95)").
		Description("95th percentile time to evaluate every user's wishlist").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(quantile(0.95, "slash_alert_pass_duration_seconds_bucket", ""), "p95", "A")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// UserErrors returns a stat panel showing users whose evaluation failed in
// the past 24 hours.
func UserErrors() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Failed Users (24h)").
		Description("Users skipped by alert passes because evaluation failed").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`increase(slash_alert_user_errors_total{job="`+Job+`"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// NotificationLatency returns a timeseries panel showing the p95 delivery
// latency per sink.
func NotificationLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Notification Latency (p95)").
		Description("95th percentile delivery latency by sink").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`slash:notification_duration:p95_5m`, "{{sink}}", "A")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// NotificationFailures returns a stat panel showing notification failures
// in the past 24 hours.
func NotificationFailures() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Notification Failures (24h)").
		Description("Failed alert notification deliveries in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`increase(slash_notification_failures_total{job="`+Job+`"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// SkippedTicks returns a stat panel showing scheduler ticks skipped because a
// pass was still running.
func SkippedTicks() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Skipped Passes (24h)").
		Description("Scheduled alert passes skipped while the previous one was still running").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`increase(slash_scheduler_skipped_ticks_total{job="`+Job+`"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 3)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
