package metrics

import "time"

// RecordItemsFetched records how many feed items a collection pass produced.
func RecordItemsFetched(count int) {
	if count > 0 {
		ItemsFetchedTotal.Add(float64(count))
	}
}

// RecordItemsFiltered records how many items the relevance filter dropped.
func RecordItemsFiltered(count int) {
	if count > 0 {
		ItemsFilteredTotal.Add(float64(count))
	}
}

// RecordItemDeduplicated records one item skipped as already processed.
func RecordItemDeduplicated() {
	ItemsDeduplicatedTotal.Inc()
}

// RecordSummary records the result of one summarization attempt.
func RecordSummary(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	SummariesTotal.WithLabelValues(status).Inc()
}

// RecordSummarizationDuration records the time one summarization call took.
func RecordSummarizationDuration(duration time.Duration) {
	SummarizationDuration.Observe(duration.Seconds())
}

// RecordDigestEmit records the result of a digest delivery attempt.
func RecordDigestEmit(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	DigestEmitsTotal.WithLabelValues(status).Inc()
}

// RecordRunDuration records the duration of a full pipeline run.
func RecordRunDuration(duration time.Duration) {
	RunDuration.Observe(duration.Seconds())
}

// RecordFeedCollect records the per-source collection duration.
func RecordFeedCollect(source string, duration time.Duration) {
	FeedCollectDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordFeedCollectError records a per-source collection failure.
func RecordFeedCollectError(source, errorType string) {
	FeedCollectErrors.WithLabelValues(source, errorType).Inc()
}

// RecordBreakerState exposes the current breaker state for a service.
// State values follow the breaker package ordering: 0 closed, 1 half-open,
// 2 open.
func RecordBreakerState(service string, state int) {
	BreakerState.WithLabelValues(service).Set(float64(state))
}

// RecordRateLimitWait records time spent blocked waiting for limiter
// clearance before an external call.
func RecordRateLimitWait(service string, wait time.Duration) {
	RateLimitWaitDuration.WithLabelValues(service).Observe(wait.Seconds())
}
