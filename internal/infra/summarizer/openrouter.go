package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/NYMetsFan86/slack-ai-news-feed/internal/domain/entity"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/observability/metrics"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/resilience/retry"
)

// OpenRouter talks to OpenRouter's OpenAI-compatible chat completion API.
// It is a bare client: wrap it in Guarded for rate limiting, circuit
// breaking, and retries.
type OpenRouter struct {
	client *openai.Client
	cfg    Config
}

// NewOpenRouter creates an OpenRouter client with the given API key.
func NewOpenRouter(apiKey string, cfg Config) *OpenRouter {
	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = cfg.BaseURL

	slog.Info("initialized openrouter summarizer",
		slog.String("base_url", cfg.BaseURL),
		slog.String("model", cfg.Model))

	return &OpenRouter{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}
}

// SummarizeArticle produces bullet points for a news article.
func (o *OpenRouter) SummarizeArticle(ctx context.Context, title, content string) ([]string, error) {
	if content == "" {
		return nil, fmt.Errorf("summarize article %q: %w", title, entity.ErrNoContent)
	}

	out, err := o.complete(ctx, articleSystemPrompt, articleUserPrompt(title, content, o.cfg.ArticleCharLimit))
	if err != nil {
		return nil, fmt.Errorf("summarize article: %w", err)
	}

	bullets := parseBullets(out)
	if len(bullets) == 0 {
		// Clean but empty completion. A skip for the caller, not a
		// provider failure.
		return nil, fmt.Errorf("summarize article %q: %w", title, entity.ErrNoSummary)
	}
	return bullets, nil
}

// SummarizePodcast produces bullet points from a podcast episode's notes.
func (o *OpenRouter) SummarizePodcast(ctx context.Context, title, description string) ([]string, error) {
	if description == "" {
		return nil, fmt.Errorf("summarize podcast %q: %w", title, entity.ErrNoContent)
	}

	out, err := o.complete(ctx, podcastSystemPrompt, podcastUserPrompt(title, description, o.cfg.PodcastCharLimit))
	if err != nil {
		return nil, fmt.Errorf("summarize podcast: %w", err)
	}

	bullets := parseBullets(out)
	if len(bullets) == 0 {
		return nil, fmt.Errorf("summarize podcast %q: %w", title, entity.ErrNoSummary)
	}
	return bullets, nil
}

// GenerateTip produces a short practical tip on a rotating topic.
func (o *OpenRouter) GenerateTip(ctx context.Context) (string, error) {
	topic := pickTipTopic()
	out, err := o.complete(ctx, tipSystemPrompt(topic), tipUserPrompt)
	if err != nil {
		return "", fmt.Errorf("generate tip: %w", err)
	}
	if out == "" {
		return "", fmt.Errorf("generate tip: model returned empty response")
	}
	return out, nil
}

// ExtractToolMention looks for a spotlight-worthy tool in an article.
// Returns (nil, nil) when the article features no usable tool.
func (o *OpenRouter) ExtractToolMention(ctx context.Context, title, content string) (*entity.ToolSpotlight, error) {
	if content == "" {
		return nil, nil
	}

	out, err := o.complete(ctx, toolExtractSystemPrompt, toolExtractUserPrompt(title, content, o.cfg.ArticleCharLimit))
	if err != nil {
		return nil, fmt.Errorf("extract tool mention: %w", err)
	}
	return parseToolSpotlight(out)
}

// GenerateToolSpotlight asks the model to recommend a tool outright, used
// when no article yielded one.
func (o *OpenRouter) GenerateToolSpotlight(ctx context.Context) (*entity.ToolSpotlight, error) {
	out, err := o.complete(ctx, toolGenerateSystemPrompt, "Recommend one AI tool for today's digest.")
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

// classifyAPIError maps OpenAI-compatible API errors onto retry.HTTPError
// so the retry layer can tell 429/5xx responses from hard failures.
func classifyAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return &retry.HTTPError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &retry.HTTPError{StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}
	return err
}

// complete performs a single chat completion call.
func (o *OpenRouter) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	requestID := uuid.New().String()

	slog.DebugContext(ctx, "llm request starting",
		slog.String("request_id", requestID),
		slog.String("model", o.cfg.Model),
		slog.Int("prompt_length", len(systemPrompt)+len(userPrompt)))

	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.7,
		MaxTokens:   o.cfg.MaxTokens,
	})

	duration := time.Since(start)
	metrics.RecordSummarizationDuration(duration)

	if err != nil {
		slog.ErrorContext(ctx, "llm request failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return "", fmt.Errorf("openrouter api error: %w", classifyAPIError(err))
	}

	if len(resp.Choices) == 0 {
		slog.ErrorContext(ctx, "llm request returned no choices",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("openrouter api returned empty response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	slog.DebugContext(ctx, "llm request completed",
		slog.String("request_id", requestID),
		slog.Int("response_length", len(content)),
		slog.Duration("duration", duration))

	return content, nil
}
