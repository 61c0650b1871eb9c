// Package metrics provides centralized Prometheus metrics for the digest
// pipeline. All metrics register with the default registry and are exposed
// by the worker's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics track a digest run end to end
var (
	// ItemsFetchedTotal counts feed items collected across all sources
	ItemsFetchedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "digest_items_fetched_total",
			Help: "Total number of feed items collected",
		},
	)

	// ItemsFilteredTotal counts items dropped by the relevance filter
	ItemsFilteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "digest_items_filtered_total",
			Help: "Total number of items dropped as not relevant",
		},
	)

	// ItemsDeduplicatedTotal counts items skipped as already processed
	ItemsDeduplicatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "digest_items_deduplicated_total",
			Help: "Total number of items skipped as already processed",
		},
	)

	// SummariesTotal counts summarization attempts by status
	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_summaries_total",
			Help: "Total number of summarization attempts",
		},
		[]string{"status"},
	)

	// SummarizationDuration measures time per summarization call
	SummarizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "digest_summarization_duration_seconds",
			Help:    "Time taken to summarize one item",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	// DigestEmitsTotal counts digest deliveries by status
	DigestEmitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_emits_total",
			Help: "Total number of digest delivery attempts",
		},
		[]string{"status"},
	)

	// RunDuration measures whole pipeline run duration
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "digest_run_duration_seconds",
			Help:    "Duration of a full pipeline run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
)

// Feed collection metrics
var (
	// FeedCollectDuration measures time to collect one feed
	FeedCollectDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_collect_duration_seconds",
			Help:    "Time taken to collect one feed",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"source"},
	)

	// FeedCollectErrors counts per-source collection failures
	FeedCollectErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_collect_errors_total",
			Help: "Total number of feed collection errors",
		},
		[]string{"source", "error_type"},
	)
)

// Resilience metrics track protection around external services
var (
	// BreakerState exposes circuit breaker state per service
	// (0 closed, 1 half-open, 2 open)
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state per service (0 closed, 1 half-open, 2 open)",
		},
		[]string{"service"},
	)

	// RateLimitWaitDuration measures time spent blocked in the rate limiter
	RateLimitWaitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rate_limit_wait_duration_seconds",
			Help:    "Time spent waiting for rate limiter clearance",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"service"},
	)
)
