package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name:   "altproxy-recording-rules",
			Labels: defaultLabels(),
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "altproxy-recording",
					Rules: []Rule{
						{
							Record: "altproxy:http_requests:rate5m",
							Expr:   `sum(rate(altproxy_http_requests_total[5m]))`,
						},
						{
							Record: "altproxy:http_errors:rate5m",
							Expr:   `sum(rate(altproxy_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "altproxy:search_outcomes:rate5m",
							Expr:   `sum(rate(altproxy_search_outcomes_total[5m])) by (outcome)`,
						},
						{
							Record: "altproxy:search_failures:ratio5m",
							Expr: `sum(rate(altproxy_search_outcomes_total{outcome!="ok"}[5m]))` +
								` / sum(rate(altproxy_search_outcomes_total[5m]))`,
						},
						{
							Record: "altproxy:upstream_connection_errors:rate5m",
							Expr:   `sum(rate(altproxy_upstream_requests_total{outcome="connection_error"}[5m])) by (endpoint)`,
						},
					},
				},
			},
		},
	}
}
