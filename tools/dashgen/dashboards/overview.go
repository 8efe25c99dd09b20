// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/slash/tools/dashgen/panels"
)

// BuildOverview constructs the slash overview dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Slash Overview").
		Uid("slash-overview").
		Tags([]string{"slash"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.NextAlertPass()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	b.WithRow(dashboard.NewRowBuilder("Search").
		WithPanel(panels.SearchRate()).
		WithPanel(panels.SearchLatency()).
		WithPanel(panels.CacheHitRatio()).
		WithPanel(panels.SourceItems()).
		WithPanel(panels.SourceErrors()))

	b.WithRow(dashboard.NewRowBuilder("Alerts").
		WithPanel(panels.AlertItemsRate()).
		WithPanel(panels.AlertPassDuration()).
		WithPanel(panels.UserErrors()).
		WithPanel(panels.NotificationLatency()).
		WithPanel(panels.NotificationFailures()).
		WithPanel(panels.SkippedTicks()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
