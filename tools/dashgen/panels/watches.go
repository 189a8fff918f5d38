package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// WatchRunsRate returns a timeseries panel showing scheduled watch runs
// per hour.
func WatchRunsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Watch Runs / hour").
		Description("Rate of scheduled watch scans per hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(flipradar_watch_runs_total{job="flipradar"}[1h])) * 3600`,
			"runs/h", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// WatchErrors returns a stat panel showing failed watch scans in the past
// 24 hours.
func WatchErrors() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Watch Errors (24h)").
		Description("Failed scheduled watch scans in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`increase(flipradar_watch_errors_total{job="flipradar"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
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
		WithTarget(PromQuery(`increase(flipradar_notification_failures_total{job="flipradar"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
