package summarizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/NYMetsFan86/slack-ai-news-feed/internal/domain/entity"
)

// parseToolSpotlight decodes the model's tool response. A nil spotlight
// with a nil error means the model found no tool to feature.
func parseToolSpotlight(content string) (*entity.ToolSpotlight, error) {
	content = strings.TrimSpace(content)
	if content == "" || strings.EqualFold(content, "none") {
		return nil, nil
	}

	// Models sometimes wrap JSON in a markdown code fence despite the
	// instruction not to.
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
		content = strings.TrimSpace(content)
	}

	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Link        string `json:"link"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("parse tool spotlight: %w", err)
	}

	payload.Name = strings.TrimSpace(payload.Name)
	payload.Description = strings.TrimSpace(payload.Description)
	if payload.Name == "" || payload.Description == "" {
		return nil, nil
	}

	link := strings.TrimSpace(payload.Link)
	// "See article" is a sentinel some models emit when the article has
	// no explicit URL; leave the link empty so the caller can substitute
	// the article's own URL.
	if strings.EqualFold(link, "see article") {
		link = ""
	}

	return &entity.ToolSpotlight{
		Name:        payload.Name,
		Description: payload.Description,
		Link:        link,
	}, nil
}
