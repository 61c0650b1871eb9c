package summarizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NYMetsFan86/slack-ai-news-feed/internal/domain/entity"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/observability/metrics"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/resilience/circuitbreaker"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/resilience/ratelimit"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/resilience/retry"
)

// Client is the full summarization surface the pipeline consumes.
// OpenRouter, Claude, and NoOp all implement it.
type Client interface {
	SummarizeArticle(ctx context.Context, title, content string) ([]string, error)
	SummarizePodcast(ctx context.Context, title, description string) ([]string, error)
	GenerateTip(ctx context.Context) (string, error)
	ExtractToolMention(ctx context.Context, title, content string) (*entity.ToolSpotlight, error)
	GenerateToolSpotlight(ctx context.Context) (*entity.ToolSpotlight, error)
}

// Guarded wraps a Client with rate limiting, circuit breaking, and retry.
// Every call first waits on the shared limiter, then runs through the
// breaker inside the retry loop. Outcomes feed the limiter's adaptive
// backoff so a struggling API gets called less often, not more.
type Guarded struct {
	inner    Client
	limiter  *ratelimit.AdaptiveLimiter
	breaker  *circuitbreaker.Breaker
	retryCfg retry.Config
	service  string
}

// NewGuarded wraps inner with the protection stack. The service name keys
// the rate limiter bucket and the breaker, and labels all metrics.
func NewGuarded(inner Client, limiter *ratelimit.AdaptiveLimiter, service string) *Guarded {
	return &Guarded{
		inner:    inner,
		limiter:  limiter,
		breaker:  circuitbreaker.New(circuitbreaker.LLMAPIConfig(service, isServiceFailure)),
		retryCfg: retry.LLMAPIConfig(),
		service:  service,
	}
}

// isServiceFailure classifies errors for the breaker. Caller cancellation
// says nothing about the service's health and must not trip the circuit;
// neither does a clean empty completion.
func isServiceFailure(err error) bool {
	return err != nil &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, entity.ErrNoSummary)
}

func (g *Guarded) SummarizeArticle(ctx context.Context, title, content string) ([]string, error) {
	var bullets []string
	err := g.call(ctx, func() error {
		var innerErr error
		bullets, innerErr = g.inner.SummarizeArticle(ctx, title, content)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return bullets, nil
}

func (g *Guarded) SummarizePodcast(ctx context.Context, title, description string) ([]string, error) {
	var bullets []string
	err := g.call(ctx, func() error {
		var innerErr error
		bullets, innerErr = g.inner.SummarizePodcast(ctx, title, description)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return bullets, nil
}

func (g *Guarded) GenerateTip(ctx context.Context) (string, error) {
	var tip string
	err := g.call(ctx, func() error {
		var innerErr error
		tip, innerErr = g.inner.GenerateTip(ctx)
		return innerErr
	})
	if err != nil {
		return "", err
	}
	return tip, nil
}

func (g *Guarded) ExtractToolMention(ctx context.Context, title, content string) (*entity.ToolSpotlight, error) {
	var tool *entity.ToolSpotlight
	err := g.call(ctx, func() error {
		var innerErr error
		tool, innerErr = g.inner.ExtractToolMention(ctx, title, content)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return tool, nil
}

func (g *Guarded) GenerateToolSpotlight(ctx context.Context) (*entity.ToolSpotlight, error) {
	var tool *entity.ToolSpotlight
	err := g.call(ctx, func() error {
		var innerErr error
		tool, innerErr = g.inner.GenerateToolSpotlight(ctx)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return tool, nil
}

// call runs fn through limiter, retry, and breaker in that order. The
// limiter gate sits outside the retry loop; WithBackoff's own delays
// already space out retry attempts.
func (g *Guarded) call(ctx context.Context, fn func() error) error {
	waitStart := time.Now()
	if err := g.limiter.Acquire(ctx, g.service); err != nil {
		return fmt.Errorf("rate limit acquire: %w", err)
	}
	metrics.RecordRateLimitWait(g.service, time.Since(waitStart))

	err := retry.WithBackoff(ctx, g.retryCfg, func() error {
		execErr := g.breaker.Execute(fn)
		g.recordOutcome(execErr)
		return execErr
	})

	metrics.RecordBreakerState(g.service, breakerStateValue(g.breaker.State()))
	return err
}

// recordOutcome feeds the limiter's adaptive backoff. Breaker rejections
// never reached the API, so they do not count either way.
func (g *Guarded) recordOutcome(err error) {
	var openErr *circuitbreaker.OpenError
	switch {
	case err == nil, errors.Is(err, entity.ErrNoSummary):
		// An empty completion still proves the API is serving.
		g.limiter.RecordSuccess(g.service)
	case errors.As(err, &openErr), errors.Is(err, context.Canceled):
	default:
		g.limiter.RecordFailure(g.service)
	}
}

func breakerStateValue(s circuitbreaker.State) int {
	switch s {
	case circuitbreaker.StateHalfOpen:
		return 1
	case circuitbreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
