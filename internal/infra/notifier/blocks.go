package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/NYMetsFan86/slack-ai-news-feed/internal/domain/entity"
)

// Block Kit payload types. Only the subset the digest uses.

// Payload is the JSON body posted to the Slack webhook.
type Payload struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks"`
}

// Block is a Slack Block Kit block.
type Block struct {
	Type     string       `json:"type"`
	Text     *TextObject  `json:"text,omitempty"`
	Elements []TextObject `json:"elements,omitempty"`
}

// TextObject is a Block Kit text object.
type TextObject struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

const (
	// Slack rejects messages with more than 50 blocks.
	maxBlocks = 50

	// Block Kit caps mrkdwn section text at 3000 characters.
	maxSectionTextLen = 3000

	truncationSuffix = "..."
)

func sectionBlock(text string) Block {
	return Block{
		Type: "section",
		Text: &TextObject{Type: "mrkdwn", Text: truncateText(text, maxSectionTextLen)},
	}
}

func dividerBlock() Block {
	return Block{Type: "divider"}
}

func headerBlock(text string) Block {
	return Block{
		Type: "header",
		Text: &TextObject{Type: "plain_text", Text: text, Emoji: true},
	}
}

func contextBlock(text string) Block {
	return Block{
		Type:     "context",
		Elements: []TextObject{{Type: "mrkdwn", Text: text}},
	}
}

// buildDigestBlocks renders a batch into Block Kit blocks: header, tip,
// tool spotlight, podcasts, news, footer. Podcasts lead because episodes
// go stale faster than articles.
func (s *SlackSink) buildDigestBlocks(batch *entity.DigestBatch, now time.Time) []Block {
	blocks := []Block{
		headerBlock(fmt.Sprintf("🤖 Your AI Daily Digest • %s", now.Format("January 2"))),
		dividerBlock(),
	}

	if batch.Tip != "" {
		blocks = append(blocks,
			sectionBlock("💡 *AI TIP OF THE DAY* 💡"),
			sectionBlock(sanitizeMrkdwn(batch.Tip)),
			dividerBlock(),
		)
	}

	if batch.Tool != nil {
		blocks = append(blocks,
			sectionBlock("🔧 *TOOL SPOTLIGHT* 🔧"),
			sectionBlock(toolText(batch.Tool)),
			dividerBlock(),
		)
	}

	if len(batch.Podcasts) > 0 {
		blocks = append(blocks, sectionBlock("🎙️ *TODAY'S AI PODCASTS*"))
		blocks = append(blocks, s.itemBlocks(batch.Podcasts, s.cfg.MaxPodcastBlocks)...)
		blocks = append(blocks, dividerBlock())
	}

	if len(batch.News) > 0 {
		blocks = append(blocks, sectionBlock("📰 *TODAY'S AI NEWS*"))
		blocks = append(blocks, s.itemBlocks(batch.News, s.cfg.MaxNewsBlocks)...)
		blocks = append(blocks, dividerBlock())
	}

	blocks = append(blocks, contextBlock(fmt.Sprintf(
		"🤖 _AI Daily Digest • %d articles • %d podcasts_",
		batch.Stats.NewsCount, batch.Stats.PodcastCount)))

	// Keep the footer when trimming to Slack's block cap.
	if len(blocks) > maxBlocks {
		footer := blocks[len(blocks)-1]
		blocks = append(blocks[:maxBlocks-1], footer)
	}

	return blocks
}

// itemBlocks renders up to max digest items as title+bullets section pairs.
// toolText renders the spotlight body. A linkless tool gets a plain bold
// name; `*<|Name>*` is broken mrkdwn.
func toolText(tool *entity.ToolSpotlight) string {
	name := sanitizeMrkdwn(tool.Name)
	desc := sanitizeMrkdwn(tool.Description)
	if tool.Link == "" {
		return fmt.Sprintf("*%s*\n%s", name, desc)
	}
	return fmt.Sprintf("*<%s|%s>*\n%s", tool.Link, name, desc)
}

func (s *SlackSink) itemBlocks(items []entity.DigestItem, max int) []Block {
	if len(items) > max {
		items = items[:max]
	}

	var blocks []Block
	for _, di := range items {
		bullets := di.Bullets
		if len(bullets) > s.cfg.BulletsPerItem {
			bullets = bullets[:s.cfg.BulletsPerItem]
		}

		lines := make([]string, 0, len(bullets))
		for _, b := range bullets {
			lines = append(lines, "• "+sanitizeMrkdwn(b))
		}

		blocks = append(blocks,
			sectionBlock(fmt.Sprintf("*<%s|%s>*\n_%s_",
				di.Item.URL,
				sanitizeMrkdwn(di.Item.Title),
				sanitizeMrkdwn(di.Item.SourceName))),
			sectionBlock(strings.Join(lines, "\n")),
		)
	}
	return blocks
}

// sanitizeMrkdwn escapes the characters Slack requires escaping and strips
// control characters.
// https://api.slack.com/reference/surfaces/formatting#escaping
func sanitizeMrkdwn(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")

	return strings.Map(func(r rune) rune {
		if r >= 32 || r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		return -1
	}, text)
}

// truncateText cuts text to maxLen with a suffix marking the cut.
func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	cut := maxLen - len(truncationSuffix)
	if cut < 0 {
		cut = 0
	}
	return text[:cut] + truncationSuffix
}
