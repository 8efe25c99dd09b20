// Package validate checks generated dashboards and rules for PromQL syntax
// errors and references to metrics slash does not export.
package validate

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/slash/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation, warnings do not.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r *Result) Ok() bool { return len(r.Errors) == 0 }

// Dashboard validates every PromQL expression in a built dashboard. Any value
// that marshals to JSON is accepted so callers can pass the SDK type directly.
func Dashboard(dash any, known map[string]bool) *Result {
	res := &Result{}

	data, err := json.Marshal(dash)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("marshaling dashboard: %v", err))
		return res
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("decoding dashboard: %v", err))
		return res
	}

	exprs := collectExprs(doc, nil)
	if len(exprs) == 0 {
		res.Warnings = append(res.Warnings, "dashboard has no queries")
	}
	for _, e := range exprs {
		checkExpr(res, "dashboard", e, known)
	}
	return res
}

// Rules validates the expressions of a PrometheusRule.
func Rules(cr *rules.PrometheusRule, known map[string]bool) *Result {
	res := &Result{}
	for _, g := range cr.Spec.Groups {
		for i := range g.Rules {
			checkExpr(res, g.Name+"/"+g.Rules[i].Name(), g.Rules[i].Expr, known)
		}
	}
	return res
}

func collectExprs(v any, out []string) []string {
	switch n := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s, ok := n[k].(string); ok && k == "expr" {
				out = append(out, s)
				continue
			}
			out = collectExprs(n[k], out)
		}
	case []any:
		for _, item := range n {
			out = collectExprs(item, out)
		}
	}
	return out
}

func checkExpr(res *Result, where, expr string, known map[string]bool) {
	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: invalid PromQL %q: %v", where, expr, err))
		return
	}

	parser.Inspect(parsed, func(node parser.Node, _ []parser.Node) error {
		vs, ok := node.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !known[vs.Name] {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: unknown metric %q", where, vs.Name))
		}
		return nil
	})
}
