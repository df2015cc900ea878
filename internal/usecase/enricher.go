package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/enrichment"
)

const justificationSubject = "image and video"

// Enrichment resolves each enrichment dimension; implementations never fail.
type Enrichment interface {
	Summary(ctx context.Context, title, body string) string
	Tags(ctx context.Context, title, body string) []string
	Relevance(ctx context.Context, title, body string) float64
	MediaJustification(ctx context.Context, title, body, mediaType string) string
	Snippet(ctx context.Context, topic string) string
	FeaturedImage(ctx context.Context, title string, tags []string) string
	RelatedVideo(ctx context.Context, title string, tags []string) string
	SocialSentiment(ctx context.Context, title string, tags []string) string
	SearchTrend(ctx context.Context, title string, tags []string) string
	GeoContext(ctx context.Context, title, body string) domain.Geo
}

var _ Enrichment = (*enrichment.Capabilities)(nil)

// Enricher turns one raw item into one enriched record.
type Enricher struct {
	caps   Enrichment
	newID  func() string
	now    func() time.Time
	logger *slog.Logger
}

// NewEnricher wires the capability set.
func NewEnricher(caps Enrichment, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{
		caps:   caps,
		newID:  uuid.NewString,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// Enrich fans out to the capability chains in three dependent groups and
// merges the results. Provider failures are absorbed by the chains; any other
// failure aborts the record and is reported as domain.ErrProcessingFailed.
func (e *Enricher) Enrich(ctx context.Context, item domain.RawItem) (domain.EnrichedRecord, error) {
	if !item.Ready() {
		return domain.EnrichedRecord{}, fmt.Errorf("%w: title and body are required", domain.ErrInvalidItem)
	}

	var (
		summary       string
		tags          []string
		relevance     float64
		imageURL      string
		videoURL      string
		justification string
		snippet       string
		sentiment     string
		trend         string
		geo           domain.Geo
	)

	err := group(ctx,
		func(ctx context.Context) { summary = e.caps.Summary(ctx, item.Title, item.Body) },
		func(ctx context.Context) { tags = e.caps.Tags(ctx, item.Title, item.Body) },
		func(ctx context.Context) { relevance = e.caps.Relevance(ctx, item.Title, item.Body) },
	)
	if err != nil {
		return e.fail(item, "content", err)
	}
	if len(tags) == 0 {
		tags = append([]string(nil), domain.DefaultTags...)
	}

	err = group(ctx,
		func(ctx context.Context) { imageURL = e.caps.FeaturedImage(ctx, item.Title, tags) },
		func(ctx context.Context) { videoURL = e.caps.RelatedVideo(ctx, item.Title, tags) },
	)
	if err != nil {
		return e.fail(item, "media", err)
	}

	err = group(ctx, func(ctx context.Context) {
		justification = e.caps.MediaJustification(ctx, item.Title, item.Body, justificationSubject)
	})
	if err != nil {
		return e.fail(item, "justification", err)
	}

	topic := enrichment.MainTopic(item.Title, item.Body)
	err = group(ctx,
		func(ctx context.Context) { snippet = e.caps.Snippet(ctx, topic) },
		func(ctx context.Context) { sentiment = e.caps.SocialSentiment(ctx, item.Title, tags) },
		func(ctx context.Context) { trend = e.caps.SearchTrend(ctx, item.Title, tags) },
		func(ctx context.Context) { geo = e.caps.GeoContext(ctx, item.Title, item.Body) },
	)
	if err != nil {
		return e.fail(item, "context", err)
	}

	record := domain.EnrichedRecord{
		ID:             e.newID(),
		Title:          item.Title,
		Body:           item.Body,
		Summary:        summary,
		Tags:           tags,
		RelevanceScore: relevance,
		SourceURL:      item.SourceURL,
		Publisher:      item.Publisher,
		PublishedAt:    item.PublishedAt,
		IngestedAt:     e.now(),
		Media: domain.Media{
			FeaturedImageURL:   optional(imageURL),
			RelatedVideoURL:    optional(videoURL),
			MediaJustification: justification,
		},
		Context: domain.Context{
			WikipediaSnippet: snippet,
			SocialSentiment:  sentiment,
			SearchTrend:      trend,
			Geo:              &geo,
		},
	}

	e.logger.Debug("article enriched", "id", record.ID, "title", record.Title, "tags", len(record.Tags))
	return record, nil
}

func (e *Enricher) fail(item domain.RawItem, stage string, cause error) (domain.EnrichedRecord, error) {
	e.logger.Error("enrichment aborted", "stage", stage, "title", item.Title, "error", cause)
	return domain.EnrichedRecord{}, domain.ErrProcessingFailed
}

// group runs every task concurrently and waits for all of them. A panicking
// task is reported as an error instead of crashing the process.
func group(ctx context.Context, tasks ...func(context.Context)) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("enrichment task panicked: %v\n%s", r, debug.Stack())
				}
			}()
			task(gctx)
			return nil
		})
	}
	return g.Wait()
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
