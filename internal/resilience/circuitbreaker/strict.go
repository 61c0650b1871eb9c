package circuitbreaker

import (
	"log/slog"
	"sync"
	"time"
)

// StrictConfig extends Config with the stricter recovery policy.
type StrictConfig struct {
	Config

	// SuccessThreshold is the number of consecutive half-open successes
	// required before the circuit closes. Defaults to 3.
	SuccessThreshold int
}

// StrictBreaker is a variant of Breaker with gradual recovery:
//
//   - closing from half-open requires SuccessThreshold consecutive successes;
//   - two consecutive failures while half-open reopen the circuit immediately;
//   - a closed-state success decays the failure counter by one instead of
//     resetting it, so sustained good behavior absorbs isolated failures
//     without hiding a degrading service.
type StrictBreaker struct {
	cfg StrictConfig

	mu                  sync.Mutex
	state               State
	failureCount        int
	successCount        int
	consecutiveFailures int
	lastFailureTime     time.Time
}

// NewStrict creates a strict breaker with the given configuration.
func NewStrict(cfg StrictConfig) *StrictBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = 60 * time.Second
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 3
	}
	if cfg.Clock == nil {
		cfg.Clock = &SystemClock{}
	}
	return &StrictBreaker{cfg: cfg, state: StateClosed}
}

// State returns the current breaker state.
func (b *StrictBreaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// FailureCount returns the current failure counter.
func (b *StrictBreaker) FailureCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failureCount
}

// Execute runs fn through the breaker, rejecting with *OpenError while open.
func (b *StrictBreaker) Execute(fn func() error) error {
	if err := b.beforeCall(); err != nil {
		return err
	}

	err := fn()
	if err == nil {
		b.onSuccess()
		return nil
	}
	if b.cfg.IsExpected != nil && !b.cfg.IsExpected(err) {
		return err
	}
	b.onFailure()
	return err
}

func (b *StrictBreaker) beforeCall() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateOpen {
		return nil
	}

	elapsed := b.cfg.Clock.Now().Sub(b.lastFailureTime)
	if elapsed < b.cfg.RecoveryTimeout {
		return &OpenError{
			Service:    b.cfg.Name,
			RetryAfter: b.cfg.RecoveryTimeout - elapsed,
		}
	}

	b.state = StateHalfOpen
	slog.Info("circuit breaker entering half-open state",
		slog.String("circuit", b.cfg.Name))
	return nil
}

func (b *StrictBreaker) onSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecutiveFailures = 0

	if b.state == StateHalfOpen {
		b.successCount++
		if b.successCount >= b.cfg.SuccessThreshold {
			slog.Info("circuit breaker closing after successful probes",
				slog.String("circuit", b.cfg.Name),
				slog.Int("successes", b.successCount))
			b.state = StateClosed
			b.failureCount = 0
			b.successCount = 0
		}
		return
	}

	// Closed state: decay rather than reset, tolerating isolated failures
	// without wiping evidence of a flapping service.
	if b.failureCount > 0 {
		b.failureCount--
	}
}

func (b *StrictBreaker) onFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecutiveFailures++
	b.successCount = 0
	b.failureCount++
	b.lastFailureTime = b.cfg.Clock.Now()

	if b.state == StateHalfOpen {
		// A single half-open failure is tolerated; two in a row reopen.
		if b.consecutiveFailures >= 2 {
			b.state = StateOpen
			slog.Warn("circuit breaker reopened after consecutive half-open failures",
				slog.String("circuit", b.cfg.Name))
		}
		return
	}

	if b.failureCount >= b.cfg.FailureThreshold {
		b.state = StateOpen
		slog.Warn("circuit breaker opened",
			slog.String("circuit", b.cfg.Name),
			slog.Int("failures", b.failureCount))
	}
}
