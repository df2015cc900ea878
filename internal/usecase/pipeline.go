package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/ports"
)

// Processor enriches and stores a single raw item.
type Processor interface {
	Process(ctx context.Context, item domain.RawItem) (domain.EnrichedRecord, error)
}

var _ Processor = (*NewsService)(nil)

// ItemResult reports the outcome for one item of a batch.
type ItemResult struct {
	OK    bool   `json:"ok"`
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Error string `json:"error,omitempty"`
}

// PipelineDeps groups the collaborators of the ingestion pipeline.
type PipelineDeps struct {
	Source    ports.ArticleSource
	Scraper   ports.ArticleScraper
	Feeds     ports.FeedReader
	Processor Processor
	Notifier  ports.Notifier
	Workers   int
	Logger    *slog.Logger
}

// Pipeline drives URL, feed and scheduled ingestion through the processor.
type Pipeline struct {
	source    ports.ArticleSource
	scraper   ports.ArticleScraper
	feeds     ports.FeedReader
	processor Processor
	notifier  ports.Notifier
	pool      *ants.Pool
	logger    *slog.Logger
}

// NewPipeline wires dependencies and the bounded worker pool.
func NewPipeline(deps PipelineDeps) (*Pipeline, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := deps.Workers
	if workers < 1 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	return &Pipeline{
		source:    deps.Source,
		scraper:   deps.Scraper,
		feeds:     deps.Feeds,
		processor: deps.Processor,
		notifier:  deps.Notifier,
		pool:      pool,
		logger:    logger,
	}, nil
}

// Release frees the worker pool.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// IngestURL scrapes a page and processes it.
func (p *Pipeline) IngestURL(ctx context.Context, pageURL string) (domain.EnrichedRecord, error) {
	if p.scraper == nil {
		return domain.EnrichedRecord{}, errors.New("url ingestion is not configured")
	}

	item, err := p.scraper.Scrape(ctx, pageURL)
	if err != nil {
		return domain.EnrichedRecord{}, fmt.Errorf("ingest from url: %w", err)
	}
	return p.processor.Process(ctx, item)
}

// IngestFeed reads up to limit items from feedURL and processes each one
// independently.
func (p *Pipeline) IngestFeed(ctx context.Context, feedURL string, limit int) ([]ItemResult, error) {
	if p.feeds == nil {
		return nil, errors.New("feed ingestion is not configured")
	}

	items, err := p.feeds.ReadFeed(ctx, feedURL, limit)
	if err != nil {
		return nil, fmt.Errorf("ingest from rss: %w", err)
	}
	return p.ProcessBatch(ctx, items), nil
}

// ProcessBatch runs items through the worker pool. Results keep input order.
func (p *Pipeline) ProcessBatch(ctx context.Context, items []domain.RawItem) []ItemResult {
	results := make([]ItemResult, len(items))
	var wg sync.WaitGroup

	for i, item := range items {
		i, item := i, item
		wg.Add(1)
		task := func() {
			defer wg.Done()
			results[i] = p.processOne(ctx, item)
		}
		if err := p.pool.Submit(task); err != nil {
			p.logger.Warn("worker pool rejected item, processing inline", "title", item.Title, "error", err)
			task()
		}
	}

	wg.Wait()
	return results
}

func (p *Pipeline) processOne(ctx context.Context, item domain.RawItem) ItemResult {
	record, err := p.processor.Process(ctx, item)
	if err != nil {
		p.logger.Warn("batch item failed", "title", item.Title, "error", err)
		return ItemResult{OK: false, Title: item.Title, Error: err.Error()}
	}
	return ItemResult{OK: true, ID: record.ID, Title: record.Title}
}

// RunScheduled pulls every configured feed, processes the items and posts a
// digest of the successful ones.
func (p *Pipeline) RunScheduled(ctx context.Context, trigger time.Time) error {
	if p.source == nil {
		return errors.New("article source is not configured")
	}

	p.logger.Info("scheduled run started", "trigger", trigger.Format(time.RFC3339))

	items, fetchErr := p.source.FetchAll(ctx)
	if fetchErr != nil {
		p.logger.Error("some feeds failed", "error", fetchErr)
	}
	if len(items) == 0 {
		p.logger.Info("scheduled run found nothing to process")
		return fetchErr
	}

	results := p.ProcessBatch(ctx, items)

	ok := 0
	for _, r := range results {
		if r.OK {
			ok++
		}
	}
	p.logger.Info("scheduled run finished", "items", len(results), "succeeded", ok)

	if p.notifier != nil && ok > 0 {
		if err := p.notifier.PublishDigest(ctx, BuildDigest(trigger, results)); err != nil {
			p.logger.Error("publish digest", "error", err)
			return errors.Join(fetchErr, fmt.Errorf("publish digest: %w", err))
		}
	}

	return fetchErr
}

// BuildDigest renders successful results as a plain-text list.
func BuildDigest(trigger time.Time, results []ItemResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "News digest %s\n", trigger.Format("2006-01-02 15:04"))
	for _, r := range results {
		if !r.OK {
			continue
		}
		fmt.Fprintf(&b, "• %s (%s)\n", r.Title, r.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}
