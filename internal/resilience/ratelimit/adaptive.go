package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	maxBackoffMultiplier = 8.0
	backoffGrowth        = 2.0
	backoffDecay         = 0.9
)

// AdaptiveLimiter extends Limiter with per-service backoff that stretches
// the inter-call interval when the protected service reports failures.
// Callers report outcomes explicitly; the limiter never inspects results.
type AdaptiveLimiter struct {
	*Limiter

	mu          sync.Mutex
	multipliers map[string]float64
}

// NewAdaptiveLimiter creates an adaptive limiter with the given base rate.
func NewAdaptiveLimiter(callsPerMinute int) *AdaptiveLimiter {
	return &AdaptiveLimiter{
		Limiter:     NewLimiter(callsPerMinute),
		multipliers: make(map[string]float64),
	}
}

// Acquire blocks until a call is permitted, applying the service's current
// backoff multiplier to the minimum inter-call interval. The window cap is
// unaffected by backoff.
func (l *AdaptiveLimiter) Acquire(ctx context.Context, service string) error {
	interval := time.Duration(float64(l.interval()) * l.multiplier(service))
	return l.acquire(ctx, service, interval)
}

// RecordFailure doubles the service's backoff multiplier, capped at 8x.
func (l *AdaptiveLimiter) RecordFailure(service string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	m := l.multipliers[service]
	if m < 1.0 {
		m = 1.0
	}
	m *= backoffGrowth
	if m > maxBackoffMultiplier {
		m = maxBackoffMultiplier
	}
	l.multipliers[service] = m

	slog.Warn("rate limiter backoff increased",
		slog.String("service", service),
		slog.Float64("multiplier", m))
}

// RecordSuccess decays the service's backoff multiplier by 10%, floored at 1x.
func (l *AdaptiveLimiter) RecordSuccess(service string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	m := l.multipliers[service]
	if m <= 1.0 {
		l.multipliers[service] = 1.0
		return
	}
	m *= backoffDecay
	if m < 1.0 {
		m = 1.0
	}
	l.multipliers[service] = m
}

// multiplier returns the current backoff multiplier for a service.
func (l *AdaptiveLimiter) multiplier(service string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.multipliers[service]
	if !ok || m < 1.0 {
		return 1.0
	}
	return m
}
