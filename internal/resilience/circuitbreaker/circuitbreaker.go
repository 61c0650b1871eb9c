// Package circuitbreaker provides circuit breakers for external service calls.
//
// Two implementations are provided:
//
//   - Breaker / StrictBreaker: fail-closed breakers with consecutive-failure
//     counting, used to guard LLM API calls. When open, calls are rejected
//     immediately with ErrOpen until the recovery timeout elapses.
//   - IOBreaker (gobreaker.go): a wrapper around github.com/sony/gobreaker
//     using failure-ratio tripping, used on the feed fetch and web scraping
//     adapters where occasional failures are expected.
package circuitbreaker

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// State represents the current state of a circuit breaker.
type State int

const (
	// StateClosed indicates normal operation; calls pass through.
	StateClosed State = iota

	// StateOpen indicates the protected service is failing; calls are
	// rejected without reaching the service.
	StateOpen

	// StateHalfOpen indicates the breaker is probing recovery with a
	// single trial call.
	StateHalfOpen
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Clock abstracts time for testing.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock backed by the system time.
type SystemClock struct{}

// Now returns the current system time.
func (c *SystemClock) Now() time.Time { return time.Now() }

// OpenError is returned when a call is rejected because the circuit is open.
// RetryAfter is the remaining cooldown before a probe will be permitted.
type OpenError struct {
	Service    string
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *OpenError) Error() string {
	return fmt.Sprintf("circuit breaker open for %s: service unavailable, retry after %s",
		e.Service, e.RetryAfter.Round(time.Second))
}

// Config holds configuration for a fail-closed breaker.
type Config struct {
	// Name identifies the protected service in logs.
	Name string

	// FailureThreshold is the number of expected-category failures in the
	// closed state required to open the circuit.
	FailureThreshold int

	// RecoveryTimeout is how long the circuit stays open before the next
	// call is allowed through as a half-open probe.
	RecoveryTimeout time.Duration

	// IsExpected classifies errors. Only errors for which it returns true
	// count toward breaker state; all other errors pass through without
	// touching the failure counter. A nil classifier counts every error.
	IsExpected func(error) bool

	// Clock provides time abstraction for testing. Defaults to SystemClock.
	Clock Clock
}

// LLMAPIConfig returns the breaker configuration used for LLM API calls.
// Matches the upstream API's behavior of failing hard for a couple of
// minutes once it starts erroring.
func LLMAPIConfig(name string, isExpected func(error) bool) Config {
	return Config{
		Name:             name,
		FailureThreshold: 3,
		RecoveryTimeout:  120 * time.Second,
		IsExpected:       isExpected,
	}
}

// Breaker is a fail-closed circuit breaker with consecutive-failure tripping.
//
// State machine:
//
//	CLOSED --(failures >= threshold)--> OPEN
//	OPEN --(recovery timeout elapsed, next call)--> HALF_OPEN
//	HALF_OPEN --(probe success)--> CLOSED
//	HALF_OPEN --(probe failure)--> OPEN
//
// Breaker is safe for concurrent use; the registries it lives in outlive a
// single pipeline run.
type Breaker struct {
	cfg Config

	mu              sync.Mutex
	state           State
	failureCount    int
	lastFailureTime time.Time
}

// New creates a fail-closed breaker with the given configuration.
// Zero-valued thresholds fall back to defaults (5 failures, 60s recovery).
func New(cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = 60 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = &SystemClock{}
	}
	return &Breaker{cfg: cfg, state: StateClosed}
}

// State returns the current breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// FailureCount returns the current failure counter. Exposed for monitoring.
func (b *Breaker) FailureCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failureCount
}

// Execute runs fn through the breaker.
//
// If the circuit is open and the recovery timeout has not elapsed, fn is not
// invoked and an *OpenError is returned. Once the timeout elapses the next
// Execute call transitions to half-open and runs fn as the trial probe.
func (b *Breaker) Execute(fn func() error) error {
	if err := b.beforeCall(); err != nil {
		return err
	}

	err := fn()
	b.afterCall(err)
	return err
}

// beforeCall gates the call and handles the OPEN -> HALF_OPEN transition.
func (b *Breaker) beforeCall() error {
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

func (b *Breaker) afterCall(err error) {
	if err == nil {
		b.onSuccess()
		return
	}
	if b.cfg.IsExpected != nil && !b.cfg.IsExpected(err) {
		// Unexpected error kinds propagate without breaker bookkeeping.
		return
	}
	b.onFailure()
}

func (b *Breaker) onSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		slog.Info("circuit breaker closing after successful probe",
			slog.String("circuit", b.cfg.Name))
	}
	b.failureCount = 0
	b.state = StateClosed
}

func (b *Breaker) onFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failureCount++
	b.lastFailureTime = b.cfg.Clock.Now()

	switch {
	case b.state == StateHalfOpen:
		b.state = StateOpen
		slog.Warn("circuit breaker reopened after probe failure",
			slog.String("circuit", b.cfg.Name))
	case b.failureCount >= b.cfg.FailureThreshold:
		b.state = StateOpen
		slog.Warn("circuit breaker opened",
			slog.String("circuit", b.cfg.Name),
			slog.Int("failures", b.failureCount),
			slog.Duration("recovery_timeout", b.cfg.RecoveryTimeout))
	}
}
