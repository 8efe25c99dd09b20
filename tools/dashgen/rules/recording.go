package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "slash-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "slash-recording",
					Rules: []Rule{
						{
							Record: "slash:http_requests:rate5m",
							Expr:   `sum(rate(slash_http_requests_total[5m]))`,
						},
						{
							Record: "slash:http_errors:rate5m",
							Expr:   `sum(rate(slash_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "slash:search_requests:rate5m",
							Expr:   `rate(slash_search_requests_total[5m])`,
						},
						{
							Record: "slash:source_fetch_errors:rate5m",
							Expr:   `sum(rate(slash_source_fetch_errors_total[5m])) by (site)`,
						},
						{
							Record: "slash:cache_hit_ratio:rate5m",
							Expr: `sum(rate(slash_cache_hits_total[5m])) / ` +
								`(sum(rate(slash_cache_hits_total[5m])) + sum(rate(slash_cache_misses_total[5m])))`,
						},
						{
							Record: "slash:notification_duration:p95_5m",
							Expr:   `histogram_quantile(0.95, sum(rate(slash_notification_duration_seconds_bucket[5m])) by (sink, le))`,
						},
						{
							Record: "slash:notification_failures:rate5m",
							Expr:   `rate(slash_notification_failures_total[5m])`,
						},
					},
				},
			},
		},
	}
}
