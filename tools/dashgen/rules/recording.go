package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "flipradar-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "flipradar-recording",
					Rules: []Rule{
						{
							Record: "flipradar:http_requests:rate5m",
							Expr:   `sum(rate(flipradar_http_requests_total[5m]))`,
						},
						{
							Record: "flipradar:http_errors:rate5m",
							Expr:   `sum(rate(flipradar_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "flipradar:scans:rate5m",
							Expr:   `sum(rate(flipradar_scans_total[5m]))`,
						},
						{
							Record: "flipradar:scan_errors:rate5m",
							Expr:   `sum(rate(flipradar_scan_errors_total[5m]))`,
						},
						{
							Record: "flipradar:ebay_api_calls:rate5m",
							Expr:   `rate(flipradar_ebay_api_calls_total[5m])`,
						},
					},
				},
			},
		},
	}
}
