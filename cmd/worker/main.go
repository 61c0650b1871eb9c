package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"

	"github.com/NYMetsFan86/slack-ai-news-feed/internal/config"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/domain/entity"
	pgRepo "github.com/NYMetsFan86/slack-ai-news-feed/internal/infra/adapter/persistence/postgres"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/infra/db"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/infra/fetcher"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/infra/notifier"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/infra/scraper"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/infra/summarizer"
	workerPkg "github.com/NYMetsFan86/slack-ai-news-feed/internal/infra/worker"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/observability/logging"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/repository"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/resilience/ratelimit"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/usecase/digest"
	"github.com/NYMetsFan86/slack-ai-news-feed/internal/usecase/filter"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	appConfig, err := config.Load()
	if err != nil {
		logger.Error("failed to load application configuration", slog.Any("error", err))
		os.Exit(1)
	}

	feeds, err := config.LoadFeeds(appConfig.FeedsPath)
	if err != nil {
		logger.Error("failed to load feed sources", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("feed sources loaded", slog.Int("count", len(feeds)))

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	// Context for graceful shutdown across servers and in-flight runs.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerConfig := workerPkg.LoadConfigFromEnv(logger)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("run_timeout", workerConfig.RunTimeout),
		slog.Bool("run_on_start", workerConfig.RunOnStart),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.Int("metrics_port", workerConfig.MetricsPort))

	workerMetrics := workerPkg.NewMetrics()
	workerMetrics.SetFeedsConfigured(len(feeds))

	startMetricsServer(ctx, logger, workerConfig.MetricsPort)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	repo := pgRepo.NewProcessedRepo(database)
	svc := buildDigestService(logger, appConfig, feeds, repo)

	runCronWorker(ctx, logger, svc, workerConfig, workerMetrics, healthServer)
	logger.Info("worker stopped")
}

// initDatabase opens the connection pool and applies pending migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database ready")
	return database
}

// buildDigestService wires the pipeline collaborators from configuration.
func buildDigestService(logger *slog.Logger, appConfig config.AppConfig, feeds []entity.FeedSource, repo repository.ProcessedRepository) *digest.Service {
	collector := scraper.NewFeedCollector(newHTTPClient(30*time.Second), scraper.DefaultConfig())
	classifier := filter.NewClassifier()
	contentFetcher := fetcher.NewReadabilityFetcher(fetcher.DefaultConfig())
	sum := buildSummarizer(logger, appConfig)
	sink := buildSink(logger, appConfig)

	return digest.NewService(feeds, collector, classifier, repo, contentFetcher, sum, sink, digest.DefaultConfig())
}

// buildSummarizer selects the LLM provider and wraps it with rate limiting,
// retries, and a circuit breaker.
func buildSummarizer(logger *slog.Logger, appConfig config.AppConfig) digest.Summarizer {
	if appConfig.Provider == config.ProviderNoop {
		logger.Info("using no-op summarizer")
		return summarizer.NewNoOp()
	}

	llmConfig, err := summarizer.LoadConfig()
	if err != nil {
		logger.Error("failed to load summarizer configuration", slog.Any("error", err))
		os.Exit(1)
	}

	var inner summarizer.Client
	switch appConfig.Provider {
	case config.ProviderOpenRouter:
		inner = summarizer.NewOpenRouter(appConfig.OpenRouterAPIKey, llmConfig)
	case config.ProviderClaude:
		inner = summarizer.NewClaude(appConfig.AnthropicAPIKey, llmConfig)
	default:
		logger.Error("unknown LLM provider", slog.String("provider", appConfig.Provider))
		os.Exit(1)
	}
	logger.Info("summarizer initialized",
		slog.String("provider", appConfig.Provider),
		slog.String("model", llmConfig.Model),
		slog.Int("calls_per_minute", appConfig.LLMCallsPerMinute))

	limiter := ratelimit.NewAdaptiveLimiter(appConfig.LLMCallsPerMinute)
	return summarizer.NewGuarded(inner, limiter, appConfig.Provider)
}

// buildSink selects the digest destination. Dry runs log the digest
// instead of posting to Slack.
func buildSink(logger *slog.Logger, appConfig config.AppConfig) digest.Sink {
	if appConfig.DryRun {
		logger.Info("dry run enabled, digest will be logged instead of posted")
		return notifier.NewNoOp()
	}
	slackConfig := notifier.DefaultSlackConfig(appConfig.SlackWebhookURL)
	if err := slackConfig.Validate(); err != nil {
		logger.Error("invalid Slack configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Slack sink initialized")
	return notifier.NewSlackSink(slackConfig)
}

// newHTTPClient builds an HTTP client with connection pooling and TLS 1.2+.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// runCronWorker schedules digest runs and blocks until shutdown.
func runCronWorker(ctx context.Context, logger *slog.Logger, svc *digest.Service, cfg workerPkg.Config, metrics *workerPkg.Metrics, healthServer *workerPkg.HealthServer) {
	c := cron.New(cron.WithLocation(cfg.Location()))

	_, err := c.AddFunc(cfg.CronSchedule, func() {
		runDigestJob(ctx, logger, svc, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))

	if cfg.RunOnStart {
		runDigestJob(ctx, logger, svc, cfg, metrics)
	}

	<-ctx.Done()
	healthServer.SetReady(false)

	// Let an in-flight scheduled run finish before exiting.
	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(cfg.RunTimeout):
		logger.Warn("timed out waiting for in-flight run to finish")
	}
}

// runDigestJob executes one pipeline run with a timeout and records metrics.
func runDigestJob(ctx context.Context, baseLogger *slog.Logger, svc *digest.Service, cfg workerPkg.Config, metrics *workerPkg.Metrics) {
	runID := uuid.New().String()
	logger := logging.WithRunID(baseLogger, runID)

	startTime := time.Now()
	logger.Info("digest run started")

	runCtx, cancel := context.WithTimeout(logging.WithLogger(ctx, logger), cfg.RunTimeout)
	defer cancel()

	stats, err := svc.Run(runCtx)
	metrics.RecordRunDuration(time.Since(startTime).Seconds())
	if err != nil {
		logger.Error("digest run failed", slog.Any("error", err))
		metrics.RecordRun("failure")
		return
	}

	metrics.RecordRun("success")
	metrics.RecordLastSuccess()
	logger.Info("digest run completed",
		slog.Int("news", stats.News),
		slog.Int("podcasts", stats.Podcasts),
		slog.Int("skipped", stats.Skipped),
		slog.Int("errors", stats.Errors),
		slog.Duration("duration", stats.Duration))
}
