// Package scraper collects RSS/Atom feed items with the gofeed library,
// wrapped in circuit breaker and retry logic.
package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"github.com/NYMetsFan86/slack-ai-news-feed/internal/domain/entity"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/observability/metrics"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/resilience/circuitbreaker"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/resilience/retry"
)

const collectorUserAgent = "SlackAINewsBot/1.0"

// Config bounds feed collection.
type Config struct {
	// NewsWindow is how far back news items are accepted.
	NewsWindow time.Duration
	// PodcastWindow is how far back podcast episodes are accepted.
	// Episodes drop less often than articles, so the window is wider.
	PodcastWindow time.Duration
	// MaxItemsPerFeed caps items taken from a single feed.
	MaxItemsPerFeed int
	// Parallelism caps concurrent feed fetches.
	Parallelism int
	// MaxDescriptionLen truncates cleaned descriptions.
	MaxDescriptionLen int
}

// DefaultConfig returns the production collection bounds.
func DefaultConfig() Config {
	return Config{
		NewsWindow:        24 * time.Hour,
		PodcastWindow:     72 * time.Hour,
		MaxItemsPerFeed:   20,
		Parallelism:       4,
		MaxDescriptionLen: 600,
	}
}

// FeedCollector fetches and normalizes items from configured feed sources.
// A failing source never fails the collection pass; its items are simply
// absent from the result.
type FeedCollector struct {
	client      *http.Client
	breaker     *circuitbreaker.IOBreaker
	retryConfig retry.Config
	cfg         Config
	now         func() time.Time
}

// NewFeedCollector creates a collector with circuit breaker and retry
// wired in. Zero-valued config fields fall back to the defaults.
func NewFeedCollector(client *http.Client, cfg Config) *FeedCollector {
	def := DefaultConfig()
	if cfg.NewsWindow <= 0 {
		cfg.NewsWindow = def.NewsWindow
	}
	if cfg.PodcastWindow <= 0 {
		cfg.PodcastWindow = def.PodcastWindow
	}
	if cfg.MaxItemsPerFeed <= 0 {
		cfg.MaxItemsPerFeed = def.MaxItemsPerFeed
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = def.Parallelism
	}
	if cfg.MaxDescriptionLen <= 0 {
		cfg.MaxDescriptionLen = def.MaxDescriptionLen
	}
	return &FeedCollector{
		client:      client,
		breaker:     circuitbreaker.NewIO(circuitbreaker.FeedFetchConfig()),
		retryConfig: retry.FeedFetchConfig(),
		cfg:         cfg,
		now:         time.Now,
	}
}

// Collect fetches all sources concurrently and returns their recent items.
// The only returned error is context cancellation; per-source failures are
// logged, counted, and contained.
func (c *FeedCollector) Collect(ctx context.Context, sources []entity.FeedSource) ([]entity.ContentItem, error) {
	var (
		mu    sync.Mutex
		items []entity.ContentItem
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.cfg.Parallelism)

	for _, src := range sources {
		source := src
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			start := c.now()
			collected, err := c.collectSource(egCtx, source)
			metrics.RecordFeedCollect(source.Name, c.now().Sub(start))
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				slog.Warn("feed collection failed, skipping source",
					slog.String("source", source.Name),
					slog.String("url", source.URL),
					slog.Any("error", err))
				metrics.RecordFeedCollectError(source.Name, errorType(err))
				return nil
			}

			mu.Lock()
			items = append(items, collected...)
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	slog.Info("feed collection completed",
		slog.Int("sources", len(sources)),
		slog.Int("items", len(items)))
	return items, nil
}

// collectSource fetches one feed through retry and the shared breaker.
func (c *FeedCollector) collectSource(ctx context.Context, source entity.FeedSource) ([]entity.ContentItem, error) {
	var items []entity.ContentItem

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.doCollect(ctx, source)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("circuit", c.breaker.Name()),
					slog.String("source", source.Name))
			}
			return err
		}
		items = result.([]entity.ContentItem)
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}
	return items, nil
}

// doCollect performs the actual fetch and parse without protection wrappers.
func (c *FeedCollector) doCollect(ctx context.Context, source entity.FeedSource) ([]entity.ContentItem, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = collectorUserAgent
	fp.Client = c.client

	feed, err := fp.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, err
	}

	cutoff := c.now().Add(-c.window(source.Kind))
	items := make([]entity.ContentItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if len(items) >= c.cfg.MaxItemsPerFeed {
			break
		}
		if it.Link == "" || it.Title == "" {
			continue
		}

		published := publishedTime(it)
		if published.Before(cutoff) {
			continue
		}

		items = append(items, entity.ContentItem{
			Title:       strings.TrimSpace(it.Title),
			URL:         it.Link,
			Description: c.cleanDescription(it),
			SourceName:  source.Name,
			SourceKind:  source.Kind,
			PublishedAt: published,
		})
	}
	return items, nil
}

func (c *FeedCollector) window(kind entity.SourceKind) time.Duration {
	if kind == entity.KindPodcast {
		return c.cfg.PodcastWindow
	}
	return c.cfg.NewsWindow
}

// cleanDescription strips the HTML that many feeds pack into descriptions
// and collapses the text to a bounded plain-text snippet.
func (c *FeedCollector) cleanDescription(it *gofeed.Item) string {
	raw := it.Description
	if raw == "" {
		raw = it.Content
	}
	if raw == "" {
		return ""
	}

	text := raw
	if strings.Contains(raw, "<") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
			text = doc.Text()
		}
	}
	text = strings.Join(strings.Fields(text), " ")

	if len(text) > c.cfg.MaxDescriptionLen {
		cut := c.cfg.MaxDescriptionLen
		if idx := strings.LastIndex(text[:cut], " "); idx > 0 {
			cut = idx
		}
		text = text[:cut] + "..."
	}
	return text
}

// publishedTime prefers the published timestamp, falls back to updated,
// then to now so undated items still land inside the window.
func publishedTime(it *gofeed.Item) time.Time {
	if it.PublishedParsed != nil {
		return *it.PublishedParsed
	}
	if it.UpdatedParsed != nil {
		return *it.UpdatedParsed
	}
	return time.Now()
}

func errorType(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		return "breaker_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "fetch_failed"
	}
}
