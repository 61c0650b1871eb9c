package summarizer

import (
	"context"
	"strings"

	"github.com/NYMetsFan86/slack-ai-news-feed/internal/domain/entity"
)

// NoOp produces deterministic placeholder output without calling any API.
// Useful for development and for running the pipeline end to end without
// credentials.
type NoOp struct{}

// NewNoOp creates a NoOp summarizer.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// SummarizeArticle returns the first sentences of the content as bullets.
func (n *NoOp) SummarizeArticle(_ context.Context, _ string, content string) ([]string, error) {
	if content == "" {
		return nil, entity.ErrNoContent
	}
	return firstSentences(content, 3), nil
}

// SummarizePodcast returns the first sentences of the description as bullets.
func (n *NoOp) SummarizePodcast(_ context.Context, _ string, description string) ([]string, error) {
	if description == "" {
		return nil, entity.ErrNoContent
	}
	return firstSentences(description, 3), nil
}

// GenerateTip returns a fixed tip.
func (n *NoOp) GenerateTip(_ context.Context) (string, error) {
	return "Ask an AI assistant to draft the first version of routine emails, then edit. Starting from a draft is faster than starting from a blank page.", nil
}

// ExtractToolMention never finds a tool.
func (n *NoOp) ExtractToolMention(_ context.Context, _, _ string) (*entity.ToolSpotlight, error) {
	return nil, nil
}

// GenerateToolSpotlight returns a fixed spotlight.
func (n *NoOp) GenerateToolSpotlight(_ context.Context) (*entity.ToolSpotlight, error) {
	return &entity.ToolSpotlight{
		Name:        "NotebookLM",
		Description: "Google's research assistant that answers questions grounded in documents you upload.",
		Link:        "https://notebooklm.google.com",
	}, nil
}

// firstSentences splits on periods and returns up to max non-empty
// sentences, each truncated to a bullet-sized length.
func firstSentences(text string, max int) []string {
	const maxBulletLen = 200

	var out []string
	for _, s := range strings.Split(text, ".") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if len(s) > maxBulletLen {
			s = truncate(s, maxBulletLen)
		}
		out = append(out, s)
		if len(out) == max {
			break
		}
	}
	if len(out) == 0 {
		out = []string{truncate(strings.TrimSpace(text), maxBulletLen)}
	}
	return out
}
