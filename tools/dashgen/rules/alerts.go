package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// flipradar operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "flipradar-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "flipradar-alerts",
					Rules: []Rule{
						{
							Alert: "FlipradarDown",
							Expr:  `absent(up{job="flipradar"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Flip Radar is down",
								"description": "The flipradar job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "FlipradarReadinessDown",
							Expr:  `flipradar_readyz_up == 0`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Flip Radar readiness check is failing",
								"description": "The readiness probe has been reporting not-ready for more than 2 minutes.",
							},
						},
						{
							Alert: "FlipradarHighErrorRate",
							Expr:  `flipradar:http_errors:rate5m / flipradar:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on Flip Radar",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "FlipradarScanErrors",
							Expr:  `flipradar:scan_errors:rate5m > 0`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Scan errors detected",
								"description": "The scan pipeline has been producing errors for more than 5 minutes.",
							},
						},
						{
							Alert: "FlipradarEbayQuotaHigh",
							Expr:  `flipradar_ebay_daily_usage > 4000`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "eBay API daily usage is above 80% of the quota",
								"description": "Daily eBay API usage has exceeded 4000 calls (limit is 5000).",
							},
						},
						{
							Alert: "FlipradarEbayLimitReached",
							Expr:  `increase(flipradar_ebay_daily_limit_hits_total[5m]) > 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "eBay API daily limit has been reached",
								"description": "The eBay Browse API daily quota has been exhausted. Scanning is paused until reset.",
							},
						},
						{
							Alert: "FlipradarWatchErrors",
							Expr:  `increase(flipradar_watch_errors_total[30m]) > 2`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Scheduled watch scans are failing",
								"description": "More than two watch scans have failed within the last 30 minutes.",
							},
						},
						{
							Alert: "FlipradarNotificationFailures",
							Expr:  `increase(flipradar_notification_failures_total[5m]) > 0`,
							For:   "1m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Notification delivery failures detected",
								"description": "One or more alert notifications (Discord webhooks) have failed to send.",
							},
						},
					},
				},
			},
		},
	}
}
