package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"NewsEnricher/internal/config"
	"NewsEnricher/internal/enrichment"
	"NewsEnricher/internal/infrastructure/google"
	"NewsEnricher/internal/infrastructure/httpjson"
	"NewsEnricher/internal/infrastructure/knowledge"
	"NewsEnricher/internal/infrastructure/llm"
	"NewsEnricher/internal/infrastructure/media"
	"NewsEnricher/internal/infrastructure/parser"
	"NewsEnricher/internal/infrastructure/scheduler"
	"NewsEnricher/internal/infrastructure/storage"
	"NewsEnricher/internal/infrastructure/telegram"
	"NewsEnricher/internal/logging"
	"NewsEnricher/internal/ports"
	"NewsEnricher/internal/source"
	"NewsEnricher/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	service   *usecase.NewsService
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	closers   []func() error
}

// New builds every adapter from cfg and hands them to the use cases.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	a := &Application{cfg: cfg, logger: baseLogger}

	caps, err := a.buildCapabilities()
	if err != nil {
		return nil, err
	}
	enricher := usecase.NewEnricher(caps, baseLogger.With("component", "enricher"))

	repo, err := a.buildRepository(ctx)
	if err != nil {
		return nil, err
	}
	a.service = usecase.NewNewsService(enricher, repo, baseLogger.With("component", "news-service"))

	ingestClient := &http.Client{Timeout: cfg.Ingestion.Timeout}
	scraper := parser.NewArticleScraper(ingestClient, cfg.Ingestion.UserAgent, baseLogger.With("component", "source.url"))
	rss := parser.NewRSSSource(ingestClient, cfg.Ingestion.UserAgent, scraper, baseLogger.With("component", "source.rss"))
	registry := source.NewRegistry(scraper, rss)
	feeds := parser.NewStrategySource(registry, cfg.Feeds, baseLogger.With("component", "source"))

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.Enabled() {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram, nil)
	}

	pipeline, err := usecase.NewPipeline(usecase.PipelineDeps{
		Source:    feeds,
		Scraper:   scraper,
		Feeds:     rss,
		Processor: a.service,
		Notifier:  notifier,
		Workers:   cfg.Ingestion.Workers,
		Logger:    baseLogger.With("component", "pipeline"),
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.pipeline = pipeline
	a.closers = append(a.closers, func() error { pipeline.Release(); return nil })

	driver := scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location(), baseLogger.With("component", "scheduler"))
	a.scheduler = usecase.NewScheduler(driver, pipeline, baseLogger.With("component", "scheduler"))

	return a, nil
}

func (a *Application) buildCapabilities() (*enrichment.Capabilities, error) {
	cfg := a.cfg

	generator, err := llm.NewGenerator(cfg.LLM, nil)
	if err != nil {
		return nil, err
	}

	mediaHTTP := httpjson.New(cfg.Media.Timeout, cfg.Ingestion.UserAgent)
	contextHTTP := httpjson.New(cfg.Context.Timeout, cfg.Ingestion.UserAgent)

	providers := enrichment.Providers{
		Generator: generator,
		Images:    media.NewPexels(cfg.Media.PexelsURL, cfg.Media.PexelsAPIKey, mediaHTTP),
		Videos:    media.NewYouTube(cfg.Media.YouTubeURL, cfg.Media.YouTubeAPIKey, mediaHTTP),
		Sentiment: google.NewSentiment(cfg.Context.SentimentURL, cfg.Context.GoogleAPIKey, contextHTTP),
		Geocoder:  google.NewGeocoder(cfg.Context.GeocodeURL, cfg.Context.GoogleAPIKey, cfg.Context.Region, contextHTTP),
	}
	if cfg.Media.Dailymotion.Enabled {
		providers.BackupVideos = media.NewDailymotion(cfg.Media.Dailymotion.Endpoint, mediaHTTP)
	}
	if cfg.Context.WikipediaEnabled {
		providers.Encyclopedia = knowledge.NewWikipedia(cfg.Context.WikipediaURL, contextHTTP)
	}

	timeouts := enrichment.Timeouts{Text: cfg.LLM.Timeout, Media: cfg.Media.Timeout, Context: cfg.Context.Timeout}
	return enrichment.New(providers, timeouts, a.logger.With("component", "enrichment")), nil
}

func (a *Application) buildRepository(ctx context.Context) (ports.RecordRepository, error) {
	cfg := a.cfg.Storage
	local := storage.NewFileStore(cfg.DataDir, cfg.FileName, a.logger.With("component", "storage.local"))
	gatewayLogger := a.logger.With("component", "storage")

	if cfg.DSN == "" {
		gatewayLogger.Info("no database configured, using local store only", "path", local.Path())
		return storage.NewGateway(nil, nil, local, gatewayLogger), nil
	}

	db, err := storage.Open(cfg.DSN)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	remote := storage.NewPostgresRepository(db, cfg.ProbeTimeout)
	alive := schemaAwareProbe(remote, gatewayLogger)
	if !alive(ctx) {
		gatewayLogger.Warn("database unreachable at startup, falling back to local store until it recovers")
	}

	return storage.NewGateway(remote, alive, local, gatewayLogger), nil
}

// schemaAwareProbe reports the remote store alive only once its schema exists.
func schemaAwareProbe(remote *storage.PostgresRepository, logger *slog.Logger) storage.LivenessFunc {
	var (
		mu    sync.Mutex
		ready bool
	)
	return func(ctx context.Context) bool {
		if !remote.Alive(ctx) {
			return false
		}
		mu.Lock()
		defer mu.Unlock()
		if ready {
			return true
		}
		if err := remote.EnsureSchema(ctx); err != nil {
			logger.Warn("database schema unavailable", "error", err)
			return false
		}
		ready = true
		return true
	}
}

// Service exposes the news use cases.
func (a *Application) Service() *usecase.NewsService {
	return a.service
}

// Pipeline exposes URL and feed ingestion.
func (a *Application) Pipeline() *usecase.Pipeline {
	return a.pipeline
}

// Serve polls the configured feeds on schedule until ctx is cancelled.
func (a *Application) Serve(ctx context.Context, runNow bool) error {
	if runNow {
		now := time.Now().In(a.cfg.Scheduler.Location())
		if err := a.pipeline.RunScheduled(ctx, now); err != nil {
			a.logger.Error("initial run failed", "error", err)
		}
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return a.scheduler.Stop(stopCtx)
}

// Close releases pools and connections.
func (a *Application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
