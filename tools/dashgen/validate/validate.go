// Package validate checks generated dashboards and rules: every expression
// must parse as PromQL and reference only known metrics.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/auction-proxy/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation; warnings do not.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r Result) Ok() bool { return len(r.Errors) == 0 }

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// histogramSuffixes are the series a histogram exposes beyond its base name.
var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

// Metrics parses expr and returns the metric names it selects.
func Metrics(expr string) ([]string, error) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, err
	}

	var names []string
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		if vs, ok := n.(*parser.VectorSelector); ok && vs.Name != "" {
			names = append(names, vs.Name)
		}
		return nil
	})
	return names, nil
}

// isKnown accepts a known name or a histogram series of a known name.
func isKnown(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range histogramSuffixes {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}

// Expr validates a single expression; where names the owner in messages.
func Expr(where, expr string, known map[string]bool) Result {
	var res Result
	checkExpr(&res, where, expr, known)
	return res
}

func checkExpr(res *Result, where, expr string, known map[string]bool) {
	if strings.TrimSpace(expr) == "" {
		res.errorf("%s: empty expression", where)
		return
	}
	names, err := Metrics(expr)
	if err != nil {
		res.errorf("%s: invalid PromQL %q: %v", where, expr, err)
		return
	}
	for _, name := range names {
		if !isKnown(name, known) {
			res.errorf("%s: unknown metric %q", where, name)
		}
	}
}

// panelJSON is the subset of the Grafana panel model that validation reads.
type panelJSON struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        string       `json:"type"`
	Targets     []targetJSON `json:"targets"`
	Panels      []panelJSON  `json:"panels"`
}

type targetJSON struct {
	Expr string `json:"expr"`
}

// Dashboard validates every panel target of a built dashboard. The dashboard
// is inspected through its JSON form so any dashboard model can be passed.
func Dashboard(dash any, known map[string]bool) Result {
	var res Result

	data, err := json.Marshal(dash)
	if err != nil {
		res.errorf("encoding dashboard: %v", err)
		return res
	}
	var doc struct {
		Panels []panelJSON `json:"panels"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		res.errorf("decoding dashboard: %v", err)
		return res
	}

	var walk func(ps []panelJSON)
	walk = func(ps []panelJSON) {
		for _, p := range ps {
			if p.Type == "row" {
				walk(p.Panels)
				continue
			}
			if p.Description == "" {
				res.warnf("panel %q has no description", p.Title)
			}
			if len(p.Targets) == 0 {
				res.errorf("panel %q has no targets", p.Title)
			}
			for _, t := range p.Targets {
				checkExpr(&res, fmt.Sprintf("panel %q", p.Title), t.Expr, known)
			}
		}
	}
	walk(doc.Panels)

	return res
}

// Rules validates the expressions of a rule CR. Alerts must carry a severity
// label and summary and description annotations.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result
	seen := make(map[string]bool)

	for _, r := range cr.AllRules() {
		where := fmt.Sprintf("rule %q", r.Name())
		if r.Name() == "" {
			res.errorf("%s: neither record nor alert is set", where)
		}
		if seen[r.Name()] {
			res.errorf("%s: duplicate name", where)
		}
		seen[r.Name()] = true

		if r.Record != "" && !known[r.Record] {
			res.warnf("%s: recorded series is not listed as a known metric", where)
		}
		if r.Alert != "" {
			if r.Labels["severity"] == "" {
				res.errorf("%s: missing severity label", where)
			}
			if r.Annotations["summary"] == "" || r.Annotations["description"] == "" {
				res.errorf("%s: missing summary or description", where)
			}
		}
		checkExpr(&res, where, r.Expr, known)
	}

	return res
}
