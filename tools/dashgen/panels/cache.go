package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// CacheHitRatio returns a timeseries panel showing the cache hit ratio
// per key class.
func CacheHitRatio() *timeseries.PanelBuilder {
	expr := `sum(rate(flipradar_cache_hits_total{job="flipradar"}[5m])) by (class) / (sum(rate(flipradar_cache_hits_total{job="flipradar"}[5m])) by (class) + sum(rate(flipradar_cache_misses_total{job="flipradar"}[5m])) by (class)) * 100`
	return timeseries.NewPanelBuilder().
		Title("Cache Hit Ratio").
		Description("Cache hit ratio per key class").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(expr, "{{class}}", "A")).
		Unit("percent").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// TCGplayerCallsRate returns a timeseries panel showing the TCGplayer API
// call rate.
func TCGplayerCallsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("TCGplayer Calls Rate").
		Description("TCGplayer API calls per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(flipradar_tcgplayer_api_calls_total{job="flipradar"}[5m]))`,
			"calls/s", "A",
		)).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
