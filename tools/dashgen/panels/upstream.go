package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// AttemptsByEndpoint returns a timeseries panel showing upstream attempts per
// endpoint and outcome. A healthy primary endpoint takes nearly all traffic.
func AttemptsByEndpoint() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Upstream Attempts").
		Description("GraphQL attempts per second by endpoint and outcome").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			fmt.Sprintf(`sum(rate(altproxy_upstream_requests_total{job=%q}[5m])) by (endpoint, outcome)`, Job),
			"{{endpoint}} {{outcome}}", "A",
		)).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// UpstreamLatency returns a timeseries panel showing p95 attempt duration per
// endpoint.
func UpstreamLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Upstream Latency (p95)").
		Description("95th percentile GraphQL attempt duration by endpoint").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			Quantile(0.95, "altproxy_upstream_request_duration_seconds", "endpoint"),
			"{{endpoint}}", "A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ConnectionErrors returns a timeseries panel showing DNS and connection
// failures that forced a fallback.
func ConnectionErrors() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Connection Errors / min").
		Description("Attempts that failed before any HTTP response, per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`altproxy:upstream_connection_errors:rate5m * 60`, "errors/min", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}
