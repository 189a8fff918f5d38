// Package validate checks generated dashboards and rule files for PromQL
// syntax errors and references to metrics the application does not export.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prometheus/prometheus/promql/parser"
)

// Result collects validation errors and warnings.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation passed without errors.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

// Merge appends another result's errors and warnings.
func (r *Result) Merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Dashboard validates every PromQL expression in a built dashboard
// against the known metric set. The dashboard is walked through its JSON
// form so the check is independent of the SDK's panel type zoo.
func Dashboard(dash any, known map[string]bool) Result {
	var result Result

	data, err := json.Marshal(dash)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("marshaling dashboard: %v", err))
		return result
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("parsing dashboard JSON: %v", err))
		return result
	}

	for _, expr := range collectExprs(doc) {
		checkExpr(expr, known, &result)
	}
	return result
}

// RuleReferences is the minimal rule file shape the validator needs.
type RuleReferences interface {
	Expressions() []string
}

// RuleFile validates every rule expression in a Prometheus rule resource.
func RuleFile(rf RuleReferences, known map[string]bool) Result {
	var result Result
	for _, expr := range rf.Expressions() {
		checkExpr(expr, known, &result)
	}
	return result
}

// collectExprs walks a decoded JSON document and gathers every string
// value stored under an "expr" key.
func collectExprs(doc any) []string {
	var exprs []string
	switch v := doc.(type) {
	case map[string]any:
		for key, val := range v {
			if key == "expr" {
				if s, ok := val.(string); ok && s != "" {
					exprs = append(exprs, s)
				}
				continue
			}
			exprs = append(exprs, collectExprs(val)...)
		}
	case []any:
		for _, item := range v {
			exprs = append(exprs, collectExprs(item)...)
		}
	}
	return exprs
}

func checkExpr(expr string, known map[string]bool, result *Result) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("invalid PromQL %q: %v", expr, err))
		return
	}

	//nolint:errcheck // the inspector never returns an error
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !knownMetric(vs.Name, known) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("expression %q references unknown metric %q", expr, vs.Name))
		}
		return nil
	})
}

// knownMetric accepts exported metric names directly and histogram series
// through their base metric name.
func knownMetric(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}
