package ports

import (
	"context"
	"time"

	"NewsEnricher/internal/domain"
)

// TextGenerator produces free text for a prompt (LLM backed).
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// ImageSearcher returns a single image URI for a query.
type ImageSearcher interface {
	SearchImage(ctx context.Context, query string) (string, error)
}

// VideoSearcher returns a single video URI for a query.
type VideoSearcher interface {
	SearchVideo(ctx context.Context, query string) (string, error)
}

// Encyclopedia looks up a short encyclopedic extract for a topic.
type Encyclopedia interface {
	Snippet(ctx context.Context, topic string) (string, error)
}

// SentimentAnalyzer describes the sentiment of a text.
type SentimentAnalyzer interface {
	AnalyzeSentiment(ctx context.Context, text string) (string, error)
}

// Geocoder resolves a free-text location.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (domain.Geo, error)
}

// RecordRepository stores enriched records by id.
type RecordRepository interface {
	Upsert(ctx context.Context, record domain.EnrichedRecord) error
	GetByID(ctx context.Context, id string) (domain.EnrichedRecord, error)
	List(ctx context.Context) ([]domain.EnrichedRecord, error)
}

// ArticleSource pulls raw items from every configured upstream source.
type ArticleSource interface {
	FetchAll(ctx context.Context) ([]domain.RawItem, error)
}

// ArticleScraper turns a web page into a raw item.
type ArticleScraper interface {
	Scrape(ctx context.Context, pageURL string) (domain.RawItem, error)
}

// FeedReader pulls the latest raw items from a syndication feed.
type FeedReader interface {
	ReadFeed(ctx context.Context, feedURL string, limit int) ([]domain.RawItem, error)
}

// Notifier streams digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
