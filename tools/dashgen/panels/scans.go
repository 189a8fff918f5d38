package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ScanRate returns a timeseries panel showing pipeline scans per minute
// split by scan mode.
func ScanRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Scans / min").
		Description("Rate of pipeline scans per minute by mode").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(flipradar_scans_total{job="flipradar"}[5m])) by (mode) * 60`,
			"{{mode}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ScanErrors returns a timeseries panel showing scan errors per minute.
func ScanErrors() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Scan Errors / min").
		Description("Rate of failed pipeline scans per minute by mode").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(flipradar_scan_errors_total{job="flipradar"}[5m])) by (mode) * 60`,
			"{{mode}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ScanDuration returns a timeseries panel showing the p95 scan duration
// per mode.
func ScanDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Scan Duration (p95)").
		Description("95th percentile pipeline scan duration by mode").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(flipradar_scan_duration_seconds_bucket{job="flipradar"}[5m])) by (le, mode))`,
			"{{mode}}",
			"A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// OpportunitiesRate returns a timeseries panel showing the rate of
// opportunities surfaced per hour.
func OpportunitiesRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Opportunities / hour").
		Description("Rate of flip opportunities surfaced per hour by mode").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(flipradar_opportunities_found_sum{job="flipradar"}[1h])) by (mode) * 3600`,
			"{{mode}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
