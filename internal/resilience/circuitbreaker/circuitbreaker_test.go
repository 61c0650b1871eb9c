package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

// fakeClock is a controllable Clock for testing state transitions.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

var errService = errors.New("service exploded")

func failingCall() error    { return errService }
func succeedingCall() error { return nil }

func TestState_String(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  string
	}{
		{"closed", StateClosed, "closed"},
		{"open", StateOpen, "open"},
		{"half-open", StateHalfOpen, "half-open"},
		{"unknown", State(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	b := New(Config{Name: "llm", FailureThreshold: 3, RecoveryTimeout: 120 * time.Second, Clock: clock})

	for i := 0; i < 3; i++ {
		if err := b.Execute(failingCall); !errors.Is(err, errService) {
			t.Fatalf("call %d: error = %v, want errService", i+1, err)
		}
	}

	if b.State() != StateOpen {
		t.Fatalf("state = %v, want open after 3 failures", b.State())
	}

	// The 4th call must be rejected without reaching the service.
	invoked := false
	err := b.Execute(func() error {
		invoked = true
		return nil
	})
	if invoked {
		t.Error("wrapped function invoked while circuit open")
	}

	var openErr *OpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("error = %v, want *OpenError", err)
	}
	if openErr.RetryAfter <= 0 || openErr.RetryAfter > 120*time.Second {
		t.Errorf("RetryAfter = %v, want within (0, 120s]", openErr.RetryAfter)
	}
}

func TestBreaker_HalfOpenProbe(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	b := New(Config{Name: "llm", FailureThreshold: 2, RecoveryTimeout: 60 * time.Second, Clock: clock})

	b.Execute(failingCall)
	b.Execute(failingCall)
	if b.State() != StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	// Before the recovery timeout, still rejected.
	clock.Advance(30 * time.Second)
	if err := b.Execute(succeedingCall); err == nil {
		t.Fatal("expected rejection before recovery timeout")
	}

	// After the timeout, exactly one probe is let through.
	clock.Advance(31 * time.Second)
	if err := b.Execute(succeedingCall); err != nil {
		t.Fatalf("probe call error = %v, want nil", err)
	}

	if b.State() != StateClosed {
		t.Errorf("state = %v, want closed after successful probe", b.State())
	}
	if b.FailureCount() != 0 {
		t.Errorf("failure count = %d, want 0 after close", b.FailureCount())
	}
}

func TestBreaker_ProbeFailureReopens(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	b := New(Config{Name: "llm", FailureThreshold: 2, RecoveryTimeout: 60 * time.Second, Clock: clock})

	b.Execute(failingCall)
	b.Execute(failingCall)
	clock.Advance(61 * time.Second)

	if err := b.Execute(failingCall); !errors.Is(err, errService) {
		t.Fatalf("probe error = %v, want errService", err)
	}
	if b.State() != StateOpen {
		t.Errorf("state = %v, want open after failed probe", b.State())
	}
}

func TestBreaker_UnexpectedErrorsBypassBookkeeping(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	b := New(Config{
		Name:             "llm",
		FailureThreshold: 2,
		RecoveryTimeout:  60 * time.Second,
		Clock:            clock,
		IsExpected: func(err error) bool {
			return errors.Is(err, errService)
		},
	})

	other := errors.New("validation problem")
	for i := 0; i < 5; i++ {
		if err := b.Execute(func() error { return other }); !errors.Is(err, other) {
			t.Fatalf("error = %v, want passthrough", err)
		}
	}

	if b.State() != StateClosed {
		t.Errorf("state = %v, want closed (unexpected errors must not trip)", b.State())
	}
	if b.FailureCount() != 0 {
		t.Errorf("failure count = %d, want 0", b.FailureCount())
	}
}

func TestBreaker_SuccessResetsCounter(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	b := New(Config{Name: "llm", FailureThreshold: 3, RecoveryTimeout: 60 * time.Second, Clock: clock})

	b.Execute(failingCall)
	b.Execute(failingCall)
	b.Execute(succeedingCall)

	if b.FailureCount() != 0 {
		t.Errorf("failure count = %d, want 0 after success", b.FailureCount())
	}

	// Two more failures should not open the circuit after the reset.
	b.Execute(failingCall)
	b.Execute(failingCall)
	if b.State() != StateClosed {
		t.Errorf("state = %v, want closed", b.State())
	}
}

func TestStrictBreaker_RequiresConsecutiveSuccesses(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	b := NewStrict(StrictConfig{
		Config:           Config{Name: "llm", FailureThreshold: 2, RecoveryTimeout: 60 * time.Second, Clock: clock},
		SuccessThreshold: 3,
	})

	b.Execute(failingCall)
	b.Execute(failingCall)
	if b.State() != StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	clock.Advance(61 * time.Second)

	// Two successful probes are not enough to close.
	b.Execute(succeedingCall)
	b.Execute(succeedingCall)
	if b.State() != StateHalfOpen {
		t.Fatalf("state = %v, want half-open after 2/3 successes", b.State())
	}

	b.Execute(succeedingCall)
	if b.State() != StateClosed {
		t.Errorf("state = %v, want closed after 3 successes", b.State())
	}
	if b.FailureCount() != 0 {
		t.Errorf("failure count = %d, want 0", b.FailureCount())
	}
}

func TestStrictBreaker_ReopensOnConsecutiveHalfOpenFailures(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	b := NewStrict(StrictConfig{
		Config:           Config{Name: "llm", FailureThreshold: 2, RecoveryTimeout: 60 * time.Second, Clock: clock},
		SuccessThreshold: 3,
	})

	b.Execute(failingCall)
	b.Execute(failingCall)
	clock.Advance(61 * time.Second)

	// A success then a single failure keeps probing.
	b.Execute(succeedingCall)
	b.Execute(failingCall)
	if b.State() != StateHalfOpen {
		t.Fatalf("state = %v, want half-open after isolated probe failure", b.State())
	}

	// A second consecutive failure reopens.
	b.Execute(failingCall)
	if b.State() != StateOpen {
		t.Errorf("state = %v, want open after consecutive probe failures", b.State())
	}
}

func TestStrictBreaker_ClosedSuccessDecaysCounter(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	b := NewStrict(StrictConfig{
		Config: Config{Name: "llm", FailureThreshold: 5, RecoveryTimeout: 60 * time.Second, Clock: clock},
	})

	b.Execute(failingCall)
	b.Execute(failingCall)
	b.Execute(failingCall)
	if b.FailureCount() != 3 {
		t.Fatalf("failure count = %d, want 3", b.FailureCount())
	}

	b.Execute(succeedingCall)
	if b.FailureCount() != 2 {
		t.Errorf("failure count = %d, want 2 (decay by one, not reset)", b.FailureCount())
	}
}

func TestIOBreaker_Name(t *testing.T) {
	cb := NewIO(FeedFetchConfig())
	if cb.Name() != "feed-fetch" {
		t.Errorf("Name() = %q, want feed-fetch", cb.Name())
	}
	if cb.IsOpen() {
		t.Error("new breaker should start closed")
	}
}
