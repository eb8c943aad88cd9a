package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/auction-proxy/tools/dashgen/rules"
	"github.com/donaldgifford/auction-proxy/tools/dashgen/validate"
)

var known = map[string]bool{
	"altproxy_http_requests_total":           true,
	"altproxy_http_request_duration_seconds": true,
	"altproxy:http_requests:rate5m":          true,
	"up":                                     true,
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	names, err := validate.Metrics(`sum(rate(altproxy_http_requests_total{status=~"5.."}[5m])) / altproxy:http_requests:rate5m`)
	require.NoError(t, err)
	assert.Equal(t, []string{"altproxy_http_requests_total", "altproxy:http_requests:rate5m"}, names)

	_, err = validate.Metrics(`sum(rate(`)
	assert.Error(t, err)
}

func TestExpr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		expr    string
		wantErr string
	}{
		{name: "known counter", expr: `rate(altproxy_http_requests_total[5m])`},
		{name: "histogram bucket", expr: `histogram_quantile(0.95, sum(rate(altproxy_http_request_duration_seconds_bucket[5m])) by (le))`},
		{name: "scalar function only", expr: `time()`},
		{name: "unknown metric", expr: `rate(spt_http_requests_total[5m])`, wantErr: `unknown metric "spt_http_requests_total"`},
		{name: "unknown histogram base", expr: `rate(nope_bucket[5m])`, wantErr: `unknown metric "nope_bucket"`},
		{name: "syntax error", expr: `sum(rate(up[5m])`, wantErr: "invalid PromQL"},
		{name: "empty", expr: `  `, wantErr: "empty expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := validate.Expr("test", tt.expr, known)
			if tt.wantErr == "" {
				assert.True(t, res.Ok(), "errors: %v", res.Errors)
				return
			}
			require.False(t, res.Ok())
			assert.Contains(t, res.Errors[0], tt.wantErr)
		})
	}
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	dash := map[string]any{
		"panels": []any{
			map[string]any{
				"type":  "row",
				"title": "HTTP",
				"panels": []any{
					map[string]any{
						"type":        "timeseries",
						"title":       "Good",
						"description": "ok",
						"targets":     []any{map[string]any{"expr": "altproxy:http_requests:rate5m"}},
					},
					map[string]any{
						"type":    "stat",
						"title":   "Undocumented",
						"targets": []any{map[string]any{"expr": "up"}},
					},
					map[string]any{
						"type":        "stat",
						"title":       "Empty",
						"description": "no queries",
					},
				},
			},
		},
	}

	res := validate.Dashboard(dash, known)
	assert.Equal(t, []string{`panel "Empty" has no targets`}, res.Errors)
	assert.Equal(t, []string{`panel "Undocumented" has no description`}, res.Warnings)
}

func TestRules(t *testing.T) {
	t.Parallel()

	cr := rules.PrometheusRule{
		Spec: rules.PrometheusRuleSpec{Groups: []rules.RuleGroup{{
			Name: "g",
			Rules: []rules.Rule{
				{Record: "altproxy:http_requests:rate5m", Expr: `sum(rate(altproxy_http_requests_total[5m]))`},
				{Record: "altproxy:unlisted:rate5m", Expr: `sum(rate(altproxy_http_requests_total[5m]))`},
				{Alert: "NoSeverity", Expr: `up == 0`, Annotations: map[string]string{"summary": "s", "description": "d"}},
				{Alert: "NoSeverity", Expr: `up == 0`, Labels: map[string]string{"severity": "info"}},
			},
		}}},
	}

	res := validate.Rules(cr, known)
	assert.Contains(t, res.Errors, `rule "NoSeverity": missing severity label`)
	assert.Contains(t, res.Errors, `rule "NoSeverity": duplicate name`)
	assert.Contains(t, res.Errors, `rule "NoSeverity": missing summary or description`)
	assert.Equal(t, []string{`rule "altproxy:unlisted:rate5m": recorded series is not listed as a known metric`}, res.Warnings)
}
