package ratelimit

import (
	"context"
	"testing"
	"time"
)

// fakeClock advances only when the recorded sleeps do.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// newTestLimiter wires a limiter to a fake clock and a sleep stub that
// advances the clock instead of blocking, recording each wait.
func newTestLimiter(callsPerMinute int) (*Limiter, *fakeClock, *[]time.Duration) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	var waits []time.Duration

	l := NewLimiter(callsPerMinute)
	l.clock = clock
	l.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		clock.now = clock.now.Add(d)
		return nil
	}
	return l, clock, &waits
}

func TestLimiter_FirstCallIsImmediate(t *testing.T) {
	l, _, waits := newTestLimiter(30)

	if err := l.Acquire(context.Background(), "openrouter"); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if len(*waits) != 0 {
		t.Errorf("waits = %v, want none on first call", *waits)
	}
}

func TestLimiter_EnforcesMinimumInterval(t *testing.T) {
	l, _, waits := newTestLimiter(30) // 2s minimum spacing
	ctx := context.Background()

	l.Acquire(ctx, "openrouter")
	l.Acquire(ctx, "openrouter")

	if len(*waits) != 1 {
		t.Fatalf("waits = %v, want exactly one spacing wait", *waits)
	}
	if (*waits)[0] != 2*time.Second {
		t.Errorf("spacing wait = %v, want 2s", (*waits)[0])
	}
}

func TestLimiter_SpacingRespectsElapsedTime(t *testing.T) {
	l, clock, waits := newTestLimiter(30)
	ctx := context.Background()

	l.Acquire(ctx, "openrouter")
	clock.now = clock.now.Add(1500 * time.Millisecond)
	l.Acquire(ctx, "openrouter")

	if len(*waits) != 1 || (*waits)[0] != 500*time.Millisecond {
		t.Errorf("waits = %v, want single 500ms wait", *waits)
	}
}

func TestLimiter_WindowCapBlocksUntilReset(t *testing.T) {
	l, clock, waits := newTestLimiter(3)
	ctx := context.Background()

	// Exhaust the window. Spacing waits advance the fake clock 20s per call.
	for i := 0; i < 3; i++ {
		if err := l.Acquire(ctx, "rss"); err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
	}

	before := len(*waits)
	start := clock.now
	if err := l.Acquire(ctx, "rss"); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	// The 4th call must have waited for the window to roll over.
	capWaits := (*waits)[before:]
	if len(capWaits) == 0 {
		t.Fatal("4th call within window did not wait")
	}
	if clock.now.Sub(start) < capWaits[0] {
		t.Errorf("clock advanced %v, want at least the cap wait %v", clock.now.Sub(start), capWaits[0])
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l, _, waits := newTestLimiter(30)
	ctx := context.Background()

	l.Acquire(ctx, "openrouter")
	l.Acquire(ctx, "rss")

	if len(*waits) != 0 {
		t.Errorf("waits = %v, want none across distinct services", *waits)
	}
}

func TestLimiter_AcquireCanceledContext(t *testing.T) {
	l := NewLimiter(30)
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	l.clock = clock
	l.sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l.buckets["openrouter"] = &bucket{
		lastCall:    clock.now,
		callCount:   1,
		windowReset: clock.now.Add(Window),
	}

	if err := l.Acquire(ctx, "openrouter"); err == nil {
		t.Error("Acquire() = nil, want context error while waiting")
	}
}

func TestAdaptiveLimiter_BackoffGrowsAndCaps(t *testing.T) {
	l := NewAdaptiveLimiter(30)

	for i := 0; i < 5; i++ {
		l.RecordFailure("openrouter")
	}
	if m := l.multiplier("openrouter"); m != 8.0 {
		t.Errorf("multiplier = %v, want capped at 8.0", m)
	}
}

func TestAdaptiveLimiter_SuccessDecaysTowardOne(t *testing.T) {
	l := NewAdaptiveLimiter(30)

	l.RecordFailure("openrouter") // 2.0
	l.RecordSuccess("openrouter") // 1.8
	if m := l.multiplier("openrouter"); m < 1.79 || m > 1.81 {
		t.Errorf("multiplier = %v, want ~1.8", m)
	}

	for i := 0; i < 50; i++ {
		l.RecordSuccess("openrouter")
	}
	if m := l.multiplier("openrouter"); m != 1.0 {
		t.Errorf("multiplier = %v, want floored at 1.0", m)
	}
}

func TestAdaptiveLimiter_BackoffScalesInterval(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	var waits []time.Duration

	l := NewAdaptiveLimiter(30) // 2s base spacing
	l.Limiter.clock = clock
	l.Limiter.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		clock.now = clock.now.Add(d)
		return nil
	}

	ctx := context.Background()
	l.Acquire(ctx, "openrouter")
	l.RecordFailure("openrouter") // 2x -> 4s effective spacing
	l.Acquire(ctx, "openrouter")

	if len(waits) != 1 || waits[0] != 4*time.Second {
		t.Errorf("waits = %v, want single 4s wait under 2x backoff", waits)
	}
}
