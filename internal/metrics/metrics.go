// Package metrics defines Prometheus metrics for flipradar.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "flipradar"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "Whether the last liveness probe succeeded (1) or failed (0).",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "Whether the last readiness probe succeeded (1) or failed (0).",
	})
)

// Scan pipeline metrics.
var (
	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scans_total",
		Help:      "Total number of pipeline scans by mode.",
	}, []string{"mode"})

	ScanErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scan_errors_total",
		Help:      "Total number of failed pipeline scans by mode.",
	}, []string{"mode"})

	ScanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scan_duration_seconds",
		Help:      "Duration of pipeline scans in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"mode"})

	OpportunitiesFound = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "opportunities_found",
		Help:      "Distribution of opportunity counts per scan.",
		Buckets:   prometheus.LinearBuckets(0, 5, 11),
	}, []string{"mode"})
)

// Marketplace API metrics.
var (
	EbayAPICallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ebay_api_calls_total",
		Help:      "Total cumulative eBay API calls.",
	})

	EbayDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ebay_daily_usage",
		Help:      "Current daily eBay API call count within the rolling 24-hour window.",
	})

	EbayDailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ebay_daily_limit_hits_total",
		Help:      "Total number of times the daily eBay API limit was reached.",
	})

	TCGPlayerAPICallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tcgplayer_api_calls_total",
		Help:      "Total cumulative TCGplayer API calls.",
	})
)

// Cache metrics.
var (
	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Total cache hits by key class.",
	}, []string{"class"})

	CacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Total cache misses by key class.",
	}, []string{"class"})
)

// Watch engine metrics.
var (
	WatchRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "watch_runs_total",
		Help:      "Total number of scheduled watch scans.",
	})

	WatchErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "watch_errors_total",
		Help:      "Total number of failed scheduled watch scans.",
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notification send failures.",
	})
)
