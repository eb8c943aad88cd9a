// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/auction-proxy/tools/dashgen/panels"
)

// BuildOverview constructs the Auction Proxy overview dashboard.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Auction Proxy Overview").
		Uid("altproxy-overview").
		Tags([]string{"altproxy", "auction-proxy"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.SearchSuccessGauge()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	b.WithRow(dashboard.NewRowBuilder("Upstream").
		WithPanel(panels.AttemptsByEndpoint()).
		WithPanel(panels.UpstreamLatency()).
		WithPanel(panels.ConnectionErrors()))

	b.WithRow(dashboard.NewRowBuilder("Search").
		WithPanel(panels.SearchOutcomes()).
		WithPanel(panels.ItemsReturned()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
