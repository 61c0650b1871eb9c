// Package ratelimit provides per-service call-rate limiting for external
// API calls. It enforces both a minimum inter-call interval and a hard cap
// on calls within a fixed 60-second window, blocking the caller until the
// call is permitted.
//
// This limiter paces a small sequential batch against provider quotas
// (e.g. an LLM API free tier); it is not a token bucket. The Slack webhook
// delivery path uses golang.org/x/time/rate instead, where burst semantics
// are what's wanted.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Window is the quota accounting period.
const Window = time.Minute

// Clock abstracts time for testing.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock backed by the system time.
type SystemClock struct{}

// Now returns the current system time.
func (c *SystemClock) Now() time.Time { return time.Now() }

// bucket tracks per-service call state within the current window.
type bucket struct {
	lastCall    time.Time
	callCount   int
	windowReset time.Time
}

// Limiter enforces per-service rate limits. State is keyed by service name
// and initialized lazily on first use. Safe for concurrent use.
type Limiter struct {
	callsPerMinute int

	// sleep is injectable for tests; defaults to a context-aware wait.
	sleep func(ctx context.Context, d time.Duration) error
	clock Clock

	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewLimiter creates a limiter allowing callsPerMinute calls per service
// within any window, with a minimum spacing of Window/callsPerMinute
// between consecutive calls.
func NewLimiter(callsPerMinute int) *Limiter {
	if callsPerMinute <= 0 {
		callsPerMinute = 60
	}
	return &Limiter{
		callsPerMinute: callsPerMinute,
		sleep:          sleepContext,
		clock:          &SystemClock{},
		buckets:        make(map[string]*bucket),
	}
}

// interval returns the minimum spacing between calls.
func (l *Limiter) interval() time.Duration {
	return Window / time.Duration(l.callsPerMinute)
}

// Acquire blocks until a call for the given service is permitted, or the
// context is canceled. On return (nil error) the call is accounted against
// the service's window.
func (l *Limiter) Acquire(ctx context.Context, service string) error {
	return l.acquire(ctx, service, l.interval())
}

// acquire implements the two-constraint wait with a caller-chosen minimum
// interval (the adaptive limiter scales it).
func (l *Limiter) acquire(ctx context.Context, service string, minInterval time.Duration) error {
	l.mu.Lock()
	b, ok := l.buckets[service]
	if !ok {
		b = &bucket{windowReset: l.clock.Now().Add(Window)}
		l.buckets[service] = b
	}

	now := l.clock.Now()

	// Roll the window if it has elapsed.
	if !now.Before(b.windowReset) {
		b.callCount = 0
		b.windowReset = now.Add(Window)
	}

	// Hard cap: wait out the rest of the window.
	if b.callCount >= l.callsPerMinute {
		wait := b.windowReset.Sub(now)
		l.mu.Unlock()

		slog.Warn("rate limit reached, waiting for window reset",
			slog.String("service", service),
			slog.Duration("wait", wait))
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}

		l.mu.Lock()
		now = l.clock.Now()
		b.callCount = 0
		b.windowReset = now.Add(Window)
	}

	// Minimum spacing between consecutive calls.
	if !b.lastCall.IsZero() {
		if sinceLast := now.Sub(b.lastCall); sinceLast < minInterval {
			wait := minInterval - sinceLast
			l.mu.Unlock()

			slog.Debug("rate limiting call",
				slog.String("service", service),
				slog.Duration("wait", wait))
			if err := l.sleep(ctx, wait); err != nil {
				return err
			}

			l.mu.Lock()
			now = l.clock.Now()
		}
	}

	b.lastCall = now
	b.callCount++
	l.mu.Unlock()
	return nil
}

// sleepContext waits for d or until the context is canceled.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
