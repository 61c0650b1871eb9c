// Package filter implements the relevance classifier that decides whether
// a feed item is AI-related. It is a pure, ordered cascade over curated
// keyword tables: cheap decisive rules (source allowlist, hard exclusions)
// resolve first, weak signals need multiplicity, and a named-entity check
// is the last resort. No I/O, no mutation, never fails — an item with
// missing fields simply doesn't match.
package filter

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/NYMetsFan86/slack-ai-news-feed/internal/domain/entity"
)

// descriptionWindow is how much of the description the primary-keyword
// stage looks at. Primary matches deep inside a long description are
// usually passing references, not the subject of the item.
const descriptionWindow = 200

// secondaryMatchThreshold is how many weak keywords must co-occur before
// they count as a positive signal on their own.
const secondaryMatchThreshold = 2

// Verdict is a classification decision with the rule that produced it,
// for diagnostics. Derived per call, never stored.
type Verdict struct {
	Relevant bool
	Stage    string
	Rule     string
}

// Classifier decides topical relevance of content items. The zero value is
// not usable; construct with NewClassifier.
type Classifier struct {
	allowlist      map[string]struct{}
	exclusionPairs [][2]string
	legal          []string
	primary        []string
	contextPhrases []string
	secondary      []string
	contextTopics  []string
	titleEntities  []string
}

// NewClassifier returns a classifier over the built-in rule tables.
func NewClassifier() *Classifier {
	return &Classifier{
		allowlist:      allowlistSources,
		exclusionPairs: exclusionPairs,
		legal:          legalKeywords,
		primary:        primaryKeywords,
		contextPhrases: contextPhrases,
		secondary:      secondaryKeywords,
		contextTopics:  contextTopics,
		titleEntities:  titleEntities,
	}
}

// IsRelevant reports whether the item is AI-related.
func (c *Classifier) IsRelevant(item entity.ContentItem) bool {
	return c.Classify(item).Relevant
}

// Classify runs the cascade and returns the verdict with its matched rule.
// Stages are ordered and short-circuiting; the first stage that fires is
// final.
func (c *Classifier) Classify(item entity.ContentItem) Verdict {
	// Stage 1: allowlisted sources bypass everything, exclusions included.
	if _, ok := c.allowlist[item.SourceName]; ok {
		return Verdict{Relevant: true, Stage: "allowlist", Rule: item.SourceName}
	}

	title := strings.ToLower(item.Title)
	desc := strings.ToLower(item.Description)
	fullText := title + " " + desc

	// Stage 2: hard exclusions take priority over all positive signals.
	for _, pair := range c.exclusionPairs {
		if containsTerm(fullText, pair[0]) && containsTerm(fullText, pair[1]) {
			return Verdict{Relevant: false, Stage: "exclusion", Rule: pair[0] + "+" + pair[1]}
		}
	}

	// Stage 3: an AI mention confined to a title parenthetical is a minor
	// feature note, not the subject.
	if c.isMinorTitleMention(title) {
		return Verdict{Relevant: false, Stage: "minor-mention", Rule: "parenthetical-only"}
	}

	// Stage 4: legal/privacy incident coverage without an AI subject.
	if rule, ok := c.isLegalIncident(title); ok {
		return Verdict{Relevant: false, Stage: "legal-guard", Rule: rule}
	}

	// Stage 5: primary keyword in title or the leading description window.
	window := title + " " + head(desc, descriptionWindow)
	for _, kw := range c.primary {
		if containsTerm(window, kw) {
			return Verdict{Relevant: true, Stage: "primary", Rule: kw}
		}
	}

	// Stage 6: action-context phrases anywhere in the text.
	for _, phrase := range c.contextPhrases {
		if containsTerm(fullText, phrase) {
			return Verdict{Relevant: true, Stage: "context-phrase", Rule: phrase}
		}
	}

	// Stage 7: enough weak signals together.
	secondaryHits := 0
	var lastSecondary string
	for _, kw := range c.secondary {
		if containsTerm(fullText, kw) {
			secondaryHits++
			lastSecondary = kw
		}
	}
	if secondaryHits >= secondaryMatchThreshold {
		return Verdict{Relevant: true, Stage: "secondary", Rule: lastSecondary}
	}

	// Stage 8: a context topic corroborated by at least one weak signal.
	if secondaryHits >= 1 {
		for _, topic := range c.contextTopics {
			if containsTerm(fullText, topic) {
				return Verdict{Relevant: true, Stage: "context-topic", Rule: topic + "+" + lastSecondary}
			}
		}
	}

	// Stage 9: a known AI entity named in the title.
	for _, name := range c.titleEntities {
		if containsTerm(title, name) {
			return Verdict{Relevant: true, Stage: "entity", Rule: name}
		}
	}

	return Verdict{Relevant: false, Stage: "no-match", Rule: ""}
}

// FilterItems drops non-relevant items, preserving relative order.
// Idempotent: filtering an already-filtered slice is a no-op.
func (c *Classifier) FilterItems(items []entity.ContentItem) []entity.ContentItem {
	kept := make([]entity.ContentItem, 0, len(items))
	for _, item := range items {
		v := c.Classify(item)
		if v.Relevant {
			kept = append(kept, item)
			continue
		}
		slog.Debug("item filtered out",
			slog.String("title", item.Title),
			slog.String("stage", v.Stage),
			slog.String("rule", v.Rule))
	}

	if len(kept) < len(items) {
		slog.Info("relevance filter applied",
			slog.Int("dropped", len(items)-len(kept)),
			slog.Int("kept", len(kept)))
	}
	return kept
}

var parenthetical = regexp.MustCompile(`\([^)]*\)`)

// isMinorTitleMention reports whether the only AI mention in the title
// sits inside a parenthetical and nothing stronger appears outside it.
func (c *Classifier) isMinorTitleMention(title string) bool {
	mentionInParens := false
	for _, p := range parenthetical.FindAllString(title, -1) {
		if hasTopicMention(p) {
			mentionInParens = true
			break
		}
	}
	if !mentionInParens {
		return false
	}

	stripped := parenthetical.ReplaceAllString(title, " ")
	if hasTopicMention(stripped) {
		return false
	}
	for _, kw := range c.primary {
		if containsTerm(stripped, kw) {
			return false
		}
	}
	return true
}

// isLegalIncident reports whether the title is legal/privacy-incident
// coverage with no primary AI keyword to anchor it.
func (c *Classifier) isLegalIncident(title string) (string, bool) {
	matched := ""
	for _, kw := range c.legal {
		if containsTerm(title, kw) {
			matched = kw
			break
		}
	}
	if matched == "" {
		return "", false
	}
	for _, kw := range c.primary {
		if containsTerm(title, kw) {
			return "", false
		}
	}
	return matched, true
}

// hasTopicMention reports whether the text names the topic at all
// ("ai" as a word, or "artificial intelligence").
func hasTopicMention(text string) bool {
	lower := strings.ToLower(text)
	return containsTerm(lower, "ai") || containsTerm(lower, "artificial intelligence")
}

// head returns at most n bytes of s without splitting the text mid-rune.
func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func utf8RuneStart(b byte) bool { return b&0xC0 != 0x80 }

// containsTerm reports whether term occurs in text with word boundaries on
// both sides. Terms may span multiple words; a trailing '-' makes the term
// a prefix match ("gpt-" matches "gpt-5"). Boundary checks keep short
// tokens like "ai", "bot" or "agi" from matching inside "said", "robot"
// or "magic".
func containsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	prefixOnly := strings.HasSuffix(term, "-")

	for start := 0; ; {
		idx := strings.Index(text[start:], term)
		if idx < 0 {
			return false
		}
		idx += start

		beforeOK := idx == 0 || !isWordByte(text[idx-1])
		end := idx + len(term)
		afterOK := prefixOnly || atWordEnd(text, end)
		// Simple plurals count: "chatbot" should match "chatbots".
		if !afterOK && text[end] == 's' && atWordEnd(text, end+1) {
			afterOK = true
		}

		if beforeOK && afterOK {
			return true
		}
		start = idx + 1
	}
}

func atWordEnd(text string, i int) bool {
	return i >= len(text) || !isWordByte(text[i])
}

func isWordByte(b byte) bool {
	return unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b))
}
