package rules

// AlertRules returns a PrometheusRule CR containing alert rules for slash
// operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "slash-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "slash-alerts",
					Rules: []Rule{
						{
							Alert:  "SlashDown",
							Expr:   `absent(up{job="slash"})`,
							For:    "2m",
							Labels: map[string]string{"severity": "critical"},
							Annotations: map[string]string{
								"summary":     "slash is down",
								"description": "The slash job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert:  "SlashReadinessDown",
							Expr:   `slash_readyz_up == 0`,
							For:    "2m",
							Labels: map[string]string{"severity": "critical"},
							Annotations: map[string]string{
								"summary":     "slash readiness check is failing",
								"description": "The readiness probe has been reporting not-ready for more than 2 minutes.",
							},
						},
						{
							Alert:  "SlashHighErrorRate",
							Expr:   `slash:http_errors:rate5m / slash:http_requests:rate5m > 0.05`,
							For:    "5m",
							Labels: map[string]string{"severity": "warning"},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on slash",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert:  "SlashSourceFailing",
							Expr:   `slash:source_fetch_errors:rate5m > 0.1`,
							For:    "15m",
							Labels: map[string]string{"severity": "warning"},
							Annotations: map[string]string{
								"summary":     "A retail source keeps failing",
								"description": "Fetches from {{ $labels.site }} have been failing for 15 minutes. Its results are missing from searches and alerts.",
							},
						},
						{
							Alert:  "SlashAlertPassesSkipped",
							Expr:   `increase(slash_scheduler_skipped_ticks_total[1h]) > 2`,
							For:    "0m",
							Labels: map[string]string{"severity": "warning"},
							Annotations: map[string]string{
								"summary":     "Alert passes are overrunning their interval",
								"description": "More than two scheduled alert passes were skipped in the last hour because the previous pass was still running.",
							},
						},
						{
							Alert:  "SlashNotificationFailures",
							Expr:   `slash:notification_failures:rate5m > 0`,
							For:    "5m",
							Labels: map[string]string{"severity": "warning"},
							Annotations: map[string]string{
								"summary":     "Notification delivery failures detected",
								"description": "Alert notifications have been failing to send for 5 minutes.",
							},
						},
					},
				},
			},
		},
	}
}
