// Package digest orchestrates a single pipeline run: collect feed items,
// filter to relevant ones, deduplicate, summarize, and emit the bounded
// digest. One run produces one batch; nothing is shared across runs except
// the processed-record store.
package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/NYMetsFan86/slack-ai-news-feed/internal/domain/entity"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/observability/metrics"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/repository"
)

// Collector fetches feed items from the configured sources.
type Collector interface {
	Collect(ctx context.Context, sources []entity.FeedSource) ([]entity.ContentItem, error)
}

// Relevance filters a batch of items down to the topical ones.
type Relevance interface {
	FilterItems(items []entity.ContentItem) []entity.ContentItem
}

// ContentFetcher retrieves readable article text for a URL. An empty
// result with entity.ErrNoContent means the article is unusable, which
// the pipeline treats as a skip.
type ContentFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Summarizer is the LLM surface the pipeline needs.
type Summarizer interface {
	SummarizeArticle(ctx context.Context, title, content string) ([]string, error)
	SummarizePodcast(ctx context.Context, title, description string) ([]string, error)
	GenerateTip(ctx context.Context) (string, error)
	ExtractToolMention(ctx context.Context, title, content string) (*entity.ToolSpotlight, error)
	GenerateToolSpotlight(ctx context.Context) (*entity.ToolSpotlight, error)
}

// Sink delivers the finished digest.
type Sink interface {
	Emit(ctx context.Context, batch *entity.DigestBatch) error
}

// Clock abstracts wall-clock reads for budget checks.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Config bounds a pipeline run.
type Config struct {
	MaxNews       int           // summarized news items per digest
	MaxPodcasts   int           // summarized podcast episodes per digest
	NewsBudget    time.Duration // wall-clock deadline for the news phase, from run start
	PodcastBudget time.Duration // wall-clock deadline for the podcast phase, from run start
	ToolScanLimit int           // how many summarized articles to scan for a tool mention
	Clock         Clock
}

// DefaultConfig returns the production run bounds.
func DefaultConfig() Config {
	return Config{
		MaxNews:       5,
		MaxPodcasts:   10,
		NewsBudget:    450 * time.Second,
		PodcastBudget: 480 * time.Second,
		ToolScanLimit: 3,
		Clock:         SystemClock{},
	}
}

// RunStats summarizes a completed pipeline run.
type RunStats struct {
	News     int
	Podcasts int
	Skipped  int
	Errors   int
	Duration time.Duration
}

// Service is the digest pipeline orchestrator.
type Service struct {
	Sources    []entity.FeedSource
	Collector  Collector
	Filter     Relevance
	Repo       repository.ProcessedRepository
	Fetcher    ContentFetcher
	Summarizer Summarizer
	Sink       Sink

	cfg Config
}

// NewService wires the pipeline collaborators. Zero-valued config fields
// fall back to the defaults.
func NewService(
	sources []entity.FeedSource,
	collector Collector,
	filter Relevance,
	repo repository.ProcessedRepository,
	fetcher ContentFetcher,
	summarizer Summarizer,
	sink Sink,
	cfg Config,
) *Service {
	def := DefaultConfig()
	if cfg.MaxNews <= 0 {
		cfg.MaxNews = def.MaxNews
	}
	if cfg.MaxPodcasts <= 0 {
		cfg.MaxPodcasts = def.MaxPodcasts
	}
	if cfg.NewsBudget <= 0 {
		cfg.NewsBudget = def.NewsBudget
	}
	if cfg.PodcastBudget <= 0 {
		cfg.PodcastBudget = def.PodcastBudget
	}
	if cfg.ToolScanLimit <= 0 {
		cfg.ToolScanLimit = def.ToolScanLimit
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	return &Service{
		Sources:    sources,
		Collector:  collector,
		Filter:     filter,
		Repo:       repo,
		Fetcher:    fetcher,
		Summarizer: summarizer,
		Sink:       sink,
		cfg:        cfg,
	}
}

// Run executes one full pipeline pass and emits the digest. A partial
// digest is still emitted when the time budget runs out mid-phase. The
// returned stats are valid even when an error is returned.
func (s *Service) Run(ctx context.Context) (*RunStats, error) {
	logger := slog.Default()
	start := s.cfg.Clock.Now()
	stats := &RunStats{}
	batch := entity.NewDigestBatch()

	// Retention sweep before collecting anything new. Failure is not
	// fatal; expired rows just linger until the next run.
	if removed, err := s.Repo.CleanupExpired(ctx); err != nil {
		logger.Warn("processed-record cleanup failed", slog.Any("error", err))
	} else if removed > 0 {
		logger.Info("expired processed records removed", slog.Int64("removed", removed))
	}

	logger.Info("digest run started", slog.Int("sources", len(s.Sources)))

	items, err := s.Collector.Collect(ctx, s.Sources)
	if err != nil {
		return stats, fmt.Errorf("collect feeds: %w", err)
	}
	metrics.RecordItemsFetched(len(items))

	relevant := s.Filter.FilterItems(items)
	metrics.RecordItemsFiltered(len(items) - len(relevant))

	news, podcasts := splitByKind(relevant)
	sortNewestFirst(news)
	sortNewestFirst(podcasts)

	// Cap candidates before any fetch or summarize call. Failures and
	// dedup skips must not pull extra items into the run.
	news = capItems(news, s.cfg.MaxNews)
	podcasts = capItems(podcasts, s.cfg.MaxPodcasts)

	// Tip first so a budget overrun later never costs us the cheap call.
	if tip, err := s.Summarizer.GenerateTip(ctx); err != nil {
		logger.Warn("tip generation failed", slog.Any("error", err))
		batch.RecordError()
	} else {
		batch.SetTip(tip)
	}

	s.processNews(ctx, news, batch, start, stats)
	s.processPodcasts(ctx, podcasts, batch, start, stats)

	if batch.Tool == nil {
		if tool, err := s.Summarizer.GenerateToolSpotlight(ctx); err != nil {
			logger.Warn("tool spotlight generation failed", slog.Any("error", err))
			batch.RecordError()
		} else {
			batch.SetTool(tool)
		}
	}

	stats.News = batch.Stats.NewsCount
	stats.Podcasts = batch.Stats.PodcastCount
	stats.Errors = batch.Stats.ErrorCount
	stats.Duration = s.cfg.Clock.Now().Sub(start)

	if err := s.Sink.Emit(ctx, batch); err != nil {
		logger.Error("digest emit failed", slog.Any("error", err))
		metrics.RecordDigestEmit(false)
		return stats, fmt.Errorf("emit digest: %w", err)
	}
	metrics.RecordDigestEmit(true)
	metrics.RecordRunDuration(stats.Duration)

	logger.Info("digest run completed",
		slog.Int("news", stats.News),
		slog.Int("podcasts", stats.Podcasts),
		slog.Int("skipped", stats.Skipped),
		slog.Int("errors", stats.Errors),
		slog.Duration("duration", stats.Duration),
	)
	return stats, nil
}

func (s *Service) processNews(ctx context.Context, items []entity.ContentItem, batch *entity.DigestBatch, start time.Time, stats *RunStats) {
	logger := slog.Default()
	toolScanned := 0
	seen := s.lookupProcessed(ctx, items)

	for _, item := range items {
		if s.overBudget(start, s.cfg.NewsBudget) {
			logger.Warn("news phase budget exhausted, emitting partial digest",
				slog.Int("summarized", batch.Stats.NewsCount))
			break
		}

		if s.isProcessed(ctx, seen, item.URL) {
			stats.Skipped++
			metrics.RecordItemDeduplicated()
			continue
		}

		content, err := s.Fetcher.FetchText(ctx, item.URL)
		if err != nil || content == "" {
			logger.Info("article content unavailable, skipping",
				slog.String("url", item.URL),
				slog.Any("error", err))
			stats.Skipped++
			continue
		}

		bullets, err := s.Summarizer.SummarizeArticle(ctx, item.Title, content)
		if errors.Is(err, entity.ErrNoSummary) {
			// The model declined cleanly; leave the item unmarked for a
			// later run.
			logger.Info("no summary produced, skipping",
				slog.String("title", item.Title))
			stats.Skipped++
			continue
		}
		if err != nil {
			logger.Warn("article summarization failed",
				slog.String("title", item.Title),
				slog.Any("error", err))
			batch.RecordError()
			metrics.RecordSummary(false)
			continue
		}
		metrics.RecordSummary(true)

		batch.AddNews(item, bullets)

		// Opportunistic tool extraction from the first few articles we
		// already paid to fetch. Failures here are never failures of
		// the item.
		if batch.Tool == nil && toolScanned < s.cfg.ToolScanLimit {
			toolScanned++
			if tool, err := s.Summarizer.ExtractToolMention(ctx, item.Title, content); err != nil {
				logger.Info("tool mention extraction failed",
					slog.String("title", item.Title),
					slog.Any("error", err))
			} else if tool != nil {
				if tool.Link == "" {
					tool.Link = item.URL
				}
				batch.SetTool(tool)
			}
		}

		s.mark(ctx, item, true)
	}
}

func (s *Service) processPodcasts(ctx context.Context, items []entity.ContentItem, batch *entity.DigestBatch, start time.Time, stats *RunStats) {
	logger := slog.Default()
	seen := s.lookupProcessed(ctx, items)

	for _, item := range items {
		if s.overBudget(start, s.cfg.PodcastBudget) {
			logger.Warn("podcast phase budget exhausted, emitting partial digest",
				slog.Int("summarized", batch.Stats.PodcastCount))
			break
		}

		if s.isProcessed(ctx, seen, item.URL) {
			stats.Skipped++
			metrics.RecordItemDeduplicated()
			continue
		}

		if item.Description == "" {
			stats.Skipped++
			continue
		}

		bullets, err := s.Summarizer.SummarizePodcast(ctx, item.Title, item.Description)
		if errors.Is(err, entity.ErrNoSummary) {
			logger.Info("no summary produced, skipping",
				slog.String("title", item.Title))
			stats.Skipped++
			continue
		}
		if err != nil {
			logger.Warn("podcast summarization failed",
				slog.String("title", item.Title),
				slog.Any("error", err))
			batch.RecordError()
			metrics.RecordSummary(false)
			continue
		}
		metrics.RecordSummary(true)

		batch.AddPodcast(item, bullets)
		s.mark(ctx, item, true)
	}
}

// lookupProcessed resolves dedup state for a capped candidate list in a
// single round trip. A batch failure returns nil, which sends the loop
// down the per-item fallback path.
func (s *Service) lookupProcessed(ctx context.Context, items []entity.ContentItem) map[string]bool {
	if len(items) == 0 {
		return map[string]bool{}
	}
	urls := make([]string, 0, len(items))
	for _, item := range items {
		urls = append(urls, item.URL)
	}
	seen, err := s.Repo.BatchCheck(ctx, urls)
	if err != nil {
		slog.Warn("batch processed lookup failed, falling back to per-item checks",
			slog.Any("error", err))
		return nil
	}
	return seen
}

func (s *Service) isProcessed(ctx context.Context, seen map[string]bool, url string) bool {
	if seen != nil {
		return seen[url]
	}
	return s.alreadyProcessed(ctx, url)
}

// alreadyProcessed is fail-open: a store lookup error is logged and the
// item is treated as unseen, so a flaky database produces at worst a
// repeated summary, never a silently empty digest.
func (s *Service) alreadyProcessed(ctx context.Context, url string) bool {
	processed, err := s.Repo.IsProcessed(ctx, url)
	if err != nil {
		slog.Warn("processed lookup failed, treating as unseen",
			slog.String("url", url),
			slog.Any("error", err))
		return false
	}
	return processed
}

// mark records the item as processed. A mark failure costs one record of
// dedup state, not the item already in the batch.
func (s *Service) mark(ctx context.Context, item entity.ContentItem, summarized bool) {
	meta := repository.ProcessedMeta{
		Title:            item.Title,
		SourceName:       item.SourceName,
		SourceKind:       item.SourceKind,
		SummaryGenerated: summarized,
	}
	if err := s.Repo.MarkProcessed(ctx, item.URL, meta); err != nil {
		slog.Warn("failed to mark item processed",
			slog.String("url", item.URL),
			slog.Any("error", err))
	}
}

func (s *Service) overBudget(start time.Time, budget time.Duration) bool {
	return s.cfg.Clock.Now().Sub(start) > budget
}

func capItems(items []entity.ContentItem, max int) []entity.ContentItem {
	if len(items) > max {
		return items[:max]
	}
	return items
}

func splitByKind(items []entity.ContentItem) (news, podcasts []entity.ContentItem) {
	for _, item := range items {
		switch item.SourceKind {
		case entity.KindPodcast:
			podcasts = append(podcasts, item)
		default:
			news = append(news, item)
		}
	}
	return news, podcasts
}

func sortNewestFirst(items []entity.ContentItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
}
