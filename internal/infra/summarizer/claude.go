package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"

	"github.com/NYMetsFan86/slack-ai-news-feed/internal/domain/entity"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/observability/metrics"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/resilience/retry"
)

// Claude talks directly to Anthropic's API instead of going through
// OpenRouter. Useful when only Anthropic credentials are available.
// Like OpenRouter it is a bare client; wrap it in Guarded.
type Claude struct {
	client anthropic.Client
	cfg    Config
}

// NewClaude creates a Claude client with the given API key. The Model in
// cfg must be an Anthropic model ID, not an OpenRouter-prefixed one.
func NewClaude(apiKey string, cfg Config) *Claude {
	slog.Info("initialized claude summarizer",
		slog.String("model", cfg.Model))

	return &Claude{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		cfg:    cfg,
	}
}

func (c *Claude) SummarizeArticle(ctx context.Context, title, content string) ([]string, error) {
	if content == "" {
		return nil, fmt.Errorf("summarize article %q: %w", title, entity.ErrNoContent)
	}

	out, err := c.complete(ctx, articleSystemPrompt, articleUserPrompt(title, content, c.cfg.ArticleCharLimit))
	if err != nil {
		return nil, fmt.Errorf("summarize article: %w", err)
	}

	bullets := parseBullets(out)
	if len(bullets) == 0 {
		return nil, fmt.Errorf("summarize article %q: %w", title, entity.ErrNoSummary)
	}
	return bullets, nil
}

func (c *Claude) SummarizePodcast(ctx context.Context, title, description string) ([]string, error) {
	if description == "" {
		return nil, fmt.Errorf("summarize podcast %q: %w", title, entity.ErrNoContent)
	}

	out, err := c.complete(ctx, podcastSystemPrompt, podcastUserPrompt(title, description, c.cfg.PodcastCharLimit))
	if err != nil {
		return nil, fmt.Errorf("summarize podcast: %w", err)
	}

	bullets := parseBullets(out)
	if len(bullets) == 0 {
		return nil, fmt.Errorf("summarize podcast %q: %w", title, entity.ErrNoSummary)
	}
	return bullets, nil
}

func (c *Claude) GenerateTip(ctx context.Context) (string, error) {
	topic := pickTipTopic()
	out, err := c.complete(ctx, tipSystemPrompt(topic), tipUserPrompt)
	if err != nil {
		return "", fmt.Errorf("generate tip: %w", err)
	}
	if out == "" {
		return "", fmt.Errorf("generate tip: model returned empty response")
	}
	return out, nil
}

func (c *Claude) ExtractToolMention(ctx context.Context, title, content string) (*entity.ToolSpotlight, error) {
	if content == "" {
		return nil, nil
	}

	out, err := c.complete(ctx, toolExtractSystemPrompt, toolExtractUserPrompt(title, content, c.cfg.ArticleCharLimit))
	if err != nil {
		return nil, fmt.Errorf("extract tool mention: %w", err)
	}
	return parseToolSpotlight(out)
}

func (c *Claude) GenerateToolSpotlight(ctx context.Context) (*entity.ToolSpotlight, error) {
	out, err := c.complete(ctx, toolGenerateSystemPrompt, "Recommend one AI tool for today's digest.")
	if err != nil {
		return nil, fmt.Errorf("generate tool spotlight: %w", err)
	}

	tool, err := parseToolSpotlight(out)
	if err != nil {
		return nil, err
	}
	if tool == nil {
		return nil, fmt.Errorf("generate tool spotlight: model declined to suggest a tool")
	}
	return tool, nil
}

// complete performs a single messages call.
func (c *Claude) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	requestID := uuid.New().String()

	slog.DebugContext(ctx, "llm request starting",
		slog.String("request_id", requestID),
		slog.String("model", c.cfg.Model),
		slog.Int("prompt_length", len(systemPrompt)+len(userPrompt)))

	start := time.Now()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.Model),
		MaxTokens: int64(c.cfg.MaxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(userPrompt),
			),
		},
	})

	duration := time.Since(start)
	metrics.RecordSummarizationDuration(duration)

	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode > 0 {
			err = &retry.HTTPError{StatusCode: apiErr.StatusCode, Message: apiErr.Error()}
		}
		slog.ErrorContext(ctx, "llm request failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		slog.ErrorContext(ctx, "llm request returned no content",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", fmt.Errorf("claude api returned unexpected response type")
	}

	content := strings.TrimSpace(textBlock.Text)

	slog.DebugContext(ctx, "llm request completed",
		slog.String("request_id", requestID),
		slog.Int("response_length", len(content)),
		slog.Duration("duration", duration))

	return content, nil
}
