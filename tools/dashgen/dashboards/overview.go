// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/flipradar-io/flipradar/tools/dashgen/panels"
)

// BuildOverview constructs the Flip Radar Overview dashboard with all
// metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Flip Radar Overview").
		Uid("flipradar-overview").
		Tags([]string{"flipradar"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.QuotaGauge()).
		WithPanel(panels.UptimeStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: eBay API.
	b.WithRow(dashboard.NewRowBuilder("eBay API").
		WithPanel(panels.APICallsRate()).
		WithPanel(panels.DailyUsage()).
		WithPanel(panels.LimitHits()))

	// Row 4: Scans.
	b.WithRow(dashboard.NewRowBuilder("Scans").
		WithPanel(panels.ScanRate()).
		WithPanel(panels.ScanErrors()).
		WithPanel(panels.ScanDuration()))

	// Row 5: Market Data.
	b.WithRow(dashboard.NewRowBuilder("Market Data").
		WithPanel(panels.OpportunitiesRate()).
		WithPanel(panels.CacheHitRatio()).
		WithPanel(panels.TCGplayerCallsRate()))

	// Row 6: Watches.
	b.WithRow(dashboard.NewRowBuilder("Watches").
		WithPanel(panels.WatchRunsRate()).
		WithPanel(panels.WatchErrors()).
		WithPanel(panels.NotificationFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
