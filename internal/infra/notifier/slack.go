// Package notifier delivers the finished digest to its output channel.
// The production sink posts a Block Kit message to a Slack Incoming
// Webhook; a NoOp sink logs the digest for development runs.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/NYMetsFan86/slack-ai-news-feed/internal/domain/entity"
)

// SlackConfig holds settings for the Slack digest sink.
type SlackConfig struct {
	// WebhookURL is the Slack Incoming Webhook URL. It embeds the
	// authentication token, so it never appears in logs.
	WebhookURL string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// MaxNewsBlocks / MaxPodcastBlocks cap how many items of each kind
	// are rendered into the message.
	MaxNewsBlocks    int
	MaxPodcastBlocks int

	// BulletsPerItem caps summary bullets rendered per item.
	BulletsPerItem int

	// MaxAttempts bounds send attempts, including the first.
	MaxAttempts int

	// RetryBaseDelay is the backoff unit between attempts.
	RetryBaseDelay time.Duration
}

// DefaultSlackConfig returns production settings. Display caps follow the
// digest layout: three items per section, two bullets each.
func DefaultSlackConfig(webhookURL string) SlackConfig {
	return SlackConfig{
		WebhookURL:       webhookURL,
		Timeout:          10 * time.Second,
		MaxNewsBlocks:    3,
		MaxPodcastBlocks: 3,
		BulletsPerItem:   2,
		MaxAttempts:      2,
		RetryBaseDelay:   5 * time.Second,
	}
}

// Validate rejects configurations that cannot deliver a digest.
func (c SlackConfig) Validate() error {
	if c.WebhookURL == "" {
		return fmt.Errorf("webhook URL cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive, got %d", c.MaxAttempts)
	}
	if c.MaxNewsBlocks <= 0 || c.MaxPodcastBlocks <= 0 || c.BulletsPerItem <= 0 {
		return fmt.Errorf("display caps must be positive")
	}
	return nil
}

// SlackSink posts digests to a Slack Incoming Webhook. A token bucket
// keeps sends inside Slack's one-message-per-second webhook limit.
type SlackSink struct {
	cfg        SlackConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
}

// NewSlackSink creates a sink for the given configuration.
func NewSlackSink(cfg SlackConfig) *SlackSink {
	return &SlackSink{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
		now:        time.Now,
	}
}

// Emit renders the batch and posts it. An empty batch (no news, no
// podcasts) still produces a short notice so subscribers know the
// pipeline ran.
func (s *SlackSink) Emit(ctx context.Context, batch *entity.DigestBatch) error {
	requestID := uuid.New().String()

	var payload Payload
	if batch.Empty() {
		payload = Payload{
			Text: "AI Daily Digest - no new items today",
			Blocks: []Block{
				headerBlock(fmt.Sprintf("🤖 Your AI Daily Digest • %s", s.now().Format("January 2"))),
				sectionBlock("No fresh AI news or podcasts made the cut today. Back tomorrow!"),
			},
		}
	} else {
		payload = Payload{
			Text: fmt.Sprintf("AI Daily Digest - %d articles, %d podcasts",
				batch.Stats.NewsCount, batch.Stats.PodcastCount),
			Blocks: s.buildDigestBlocks(batch, s.now()),
		}
	}

	slog.Info("sending digest to slack",
		slog.String("request_id", requestID),
		slog.Int("blocks", len(payload.Blocks)),
		slog.Int("news", batch.Stats.NewsCount),
		slog.Int("podcasts", batch.Stats.PodcastCount))

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("webhook rate limit: %w", err)
	}

	return s.sendWithRetry(ctx, requestID, payload)
}

// sendWithRetry posts the payload, retrying transient failures. 429
// responses wait out the advertised cooldown; other 4xx fail immediately.
func (s *SlackSink) sendWithRetry(ctx context.Context, requestID string, payload Payload) error {
	var lastErr error

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		err := s.send(ctx, payload)
		if err == nil {
			slog.Info("digest delivered",
				slog.String("request_id", requestID),
				slog.Int("attempt", attempt))
			return nil
		}
		lastErr = err

		if rlErr, ok := asRateLimitError(err); ok {
			slog.Warn("slack rate limit hit, backing off",
				slog.String("request_id", requestID),
				slog.Duration("retry_after", rlErr.RetryAfter),
				slog.Int("attempt", attempt))
			if attempt == s.cfg.MaxAttempts {
				break
			}
			select {
			case <-time.After(rlErr.RetryAfter):
				continue
			case <-ctx.Done():
				return fmt.Errorf("canceled during rate limit backoff: %w", ctx.Err())
			}
		}

		if !isRetryableError(err) {
			slog.Error("slack delivery failed, not retryable",
				slog.String("request_id", requestID),
				slog.Any("error", err),
				slog.Int("attempt", attempt))
			return err
		}

		if attempt < s.cfg.MaxAttempts {
			delay := s.cfg.RetryBaseDelay * time.Duration(attempt)
			slog.Warn("slack delivery failed, retrying",
				slog.String("request_id", requestID),
				slog.Any("error", err),
				slog.Duration("delay", delay),
				slog.Int("attempt", attempt))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("canceled during retry backoff: %w", ctx.Err())
			}
		}
	}

	return fmt.Errorf("slack delivery failed after %d attempts: %w", s.cfg.MaxAttempts, lastErr)
}

// send performs one webhook POST and classifies the response.
func (s *SlackSink) send(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute webhook request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{
			Message:    "slack rate limit exceeded",
			RetryAfter: extractRetryAfter(resp),
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("slack webhook client error %d: %s", resp.StatusCode, string(respBody)),
		}
	case resp.StatusCode >= 500:
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("slack webhook server error %d: %s", resp.StatusCode, string(respBody)),
		}
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
}
