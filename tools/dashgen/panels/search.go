package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// SearchOutcomes returns a timeseries panel showing searches per second by
// classified outcome.
func SearchOutcomes() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Search Outcomes").
		Description("Searches per second by outcome (ok, bad_response, upstream_error, malformed, all_failed, other)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`altproxy:search_outcomes:rate5m`, "{{outcome}}", "A")).
		Unit("reqps").
		FillOpacity(20).
		LineWidth(1).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}

// ItemsReturned returns a timeseries panel showing listings per successful
// search.
func ItemsReturned() *timeseries.PanelBuilder {
	const metric = "altproxy_search_items_returned"
	return timeseries.NewPanelBuilder().
		Title("Listings per Search").
		Description("Listings returned per successful search, p50 and p95").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(Quantile(0.50, metric), "p50", "A")).
		WithTarget(PromQuery(Quantile(0.95, metric), "p95", "B")).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
