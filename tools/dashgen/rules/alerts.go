package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// auction-proxy operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name:   "altproxy-alerts",
			Labels: defaultLabels(),
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "altproxy-alerts",
					Rules: []Rule{
						{
							Alert: "AltProxyDown",
							Expr:  `absent(up{job="auction-proxy"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Auction proxy is down",
								"description": "The auction-proxy job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "AltProxyNotReady",
							Expr:  `altproxy_readyz_up == 0`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Auction proxy has no upstream endpoints",
								"description": "The readiness probe has reported no configured upstream endpoints for more than 2 minutes.",
							},
						},
						{
							Alert: "AltProxyHighErrorRate",
							Expr:  `altproxy:http_errors:rate5m / altproxy:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on the auction proxy",
								"description": "More than 5% of requests are returning 5xx over the last 5 minutes.",
							},
						},
						{
							Alert: "AltProxyAllEndpointsFailing",
							Expr:  `sum(rate(altproxy_search_outcomes_total{outcome="all_failed"}[5m])) > 0`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "No Alt endpoint is reachable",
								"description": "Searches have failed on every candidate endpoint for more than 5 minutes.",
							},
						},
						{
							Alert: "AltProxyUpstreamBlocked",
							Expr:  `sum(rate(altproxy_search_outcomes_total{outcome="bad_response"}[5m])) > 0`,
							For:   "10m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Alt is answering with non-JSON pages",
								"description": "The accepted endpoint has been returning HTML (WAF or login pages) for more than 10 minutes.",
							},
						},
						{
							Alert: "AltProxyPrimaryEndpointFailing",
							Expr:  `altproxy:upstream_connection_errors:rate5m{endpoint="https://api.alt.xyz/graphql"} > 0`,
							For:   "15m",
							Labels: map[string]string{
								"severity": "info",
							},
							Annotations: map[string]string{
								"summary":     "Primary Alt endpoint is unreachable",
								"description": "Searches are falling back past api.alt.xyz; latency is higher than usual.",
							},
						},
					},
				},
			},
		},
	}
}
