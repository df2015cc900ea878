// Package enrichment wires every enrichment dimension into its own fallback
// chain: configured remote providers first, the offline writer last.
package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/fallback"
	"NewsEnricher/internal/offline"
	"NewsEnricher/internal/ports"
)

// Providers lists the optional remote integrations. Nil entries are skipped.
type Providers struct {
	Generator    ports.TextGenerator
	Images       ports.ImageSearcher
	Videos       ports.VideoSearcher
	BackupVideos ports.VideoSearcher
	Encyclopedia ports.Encyclopedia
	Sentiment    ports.SentimentAnalyzer
	Geocoder     ports.Geocoder
}

// Timeouts bounds each remote call per provider family.
type Timeouts struct {
	Text    time.Duration
	Media   time.Duration
	Context time.Duration
}

// DefaultTimeouts mirrors the provider client defaults.
func DefaultTimeouts() Timeouts {
	return Timeouts{Text: 20 * time.Second, Media: 10 * time.Second, Context: 10 * time.Second}
}

type textRequest struct {
	task      offline.Task
	title     string
	body      string
	prompt    string
	maxTokens int
}

type subjectRequest struct {
	title string
	tags  []string
}

type articleRequest struct {
	title string
	body  string
}

// Capabilities resolves every enrichment dimension. All methods are safe for
// concurrent use and never fail.
type Capabilities struct {
	text      *fallback.Chain[textRequest, string]
	snippet   *fallback.Chain[string, string]
	image     *fallback.Chain[subjectRequest, string]
	video     *fallback.Chain[subjectRequest, string]
	sentiment *fallback.Chain[subjectRequest, string]
	trend     *fallback.Chain[subjectRequest, string]
	geo       *fallback.Chain[articleRequest, domain.Geo]
}

// New builds the chains for the given providers.
func New(p Providers, timeouts Timeouts, logger *slog.Logger) *Capabilities {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Capabilities{}

	var llm fallback.Strategy[textRequest, string]
	if p.Generator != nil {
		llm = fallback.WithTimeout(fallback.Func("llm", func(ctx context.Context, req textRequest) (string, error) {
			return generate(ctx, p.Generator, req.prompt, req.maxTokens)
		}), timeouts.Text)
	}
	c.text = fallback.NewChain("text", logger, llm,
		fallback.Offline("offline", func(req textRequest) string {
			return offline.Text(req.task, req.title, req.body)
		}),
	)

	var wiki, llmSnippet fallback.Strategy[string, string]
	if p.Encyclopedia != nil {
		wiki = fallback.WithTimeout(fallback.Func("encyclopedia", func(ctx context.Context, topic string) (string, error) {
			return nonEmpty(p.Encyclopedia.Snippet(ctx, topic))
		}), timeouts.Context)
	}
	if p.Generator != nil {
		llmSnippet = fallback.WithTimeout(fallback.Func("llm", func(ctx context.Context, topic string) (string, error) {
			return generate(ctx, p.Generator, snippetPrompt(topic), 150)
		}), timeouts.Text)
	}
	c.snippet = fallback.NewChain("encyclopedic-snippet", logger, wiki, llmSnippet,
		fallback.Offline("offline", offline.Snippet),
	)

	var images fallback.Strategy[subjectRequest, string]
	if p.Images != nil {
		images = fallback.WithTimeout(fallback.Func("image-search", func(ctx context.Context, req subjectRequest) (string, error) {
			return nonEmpty(p.Images.SearchImage(ctx, SearchTerms(req.title, req.tags)))
		}), timeouts.Media)
	}
	c.image = fallback.NewChain("featured-image", logger, images,
		fallback.Offline("offline", func(req subjectRequest) string { return offline.Image(req.title, req.tags) }),
	)

	c.video = fallback.NewChain("related-video", logger,
		videoStrategy("video-search:primary", p.Videos, timeouts.Media),
		videoStrategy("video-search:secondary", p.BackupVideos, timeouts.Media),
		fallback.Offline("offline", func(req subjectRequest) string { return offline.Video(req.title, req.tags) }),
	)

	var sentiment fallback.Strategy[subjectRequest, string]
	if p.Sentiment != nil {
		sentiment = fallback.WithTimeout(fallback.Func("sentiment", func(ctx context.Context, req subjectRequest) (string, error) {
			return nonEmpty(p.Sentiment.AnalyzeSentiment(ctx, req.title+" "+strings.Join(req.tags, " ")))
		}), timeouts.Context)
	}
	c.sentiment = fallback.NewChain("social-sentiment", logger, sentiment,
		fallback.Offline("offline", func(req subjectRequest) string { return offline.Sentiment(req.title, req.tags) }),
	).WithDefault("neutral sentiment")

	c.trend = fallback.NewChain("search-trend", logger,
		fallback.Offline("offline", func(req subjectRequest) string { return offline.Trend(req.title, req.tags) }),
	).WithDefault("no trend data")

	var geocoder fallback.Strategy[articleRequest, domain.Geo]
	if p.Geocoder != nil {
		geocoder = fallback.WithTimeout(fallback.Func("geocoder", func(ctx context.Context, req articleRequest) (domain.Geo, error) {
			candidates := Locations(req.title + " " + req.body)
			if len(candidates) == 0 {
				return domain.Geo{}, fmt.Errorf("no location candidates: %w", fallback.ErrNoResult)
			}
			geo, err := p.Geocoder.Geocode(ctx, candidates[0])
			if err != nil {
				return domain.Geo{}, err
			}
			return domain.NewGeo(geo.Lat, geo.Lng, geo.FormattedAddress), nil
		}), timeouts.Context)
	}
	c.geo = fallback.NewChain("geo", logger, geocoder,
		fallback.Offline("offline", func(req articleRequest) domain.Geo { return offline.Geo(req.title, req.body) }),
	)

	return c
}

func videoStrategy(name string, searcher ports.VideoSearcher, timeout time.Duration) fallback.Strategy[subjectRequest, string] {
	if searcher == nil {
		return nil
	}
	return fallback.WithTimeout(fallback.Func(name, func(ctx context.Context, req subjectRequest) (string, error) {
		return nonEmpty(searcher.SearchVideo(ctx, SearchTerms(req.title, req.tags)))
	}), timeout)
}

// Summary writes a 1-2 sentence summary.
func (c *Capabilities) Summary(ctx context.Context, title, body string) string {
	return strings.TrimSpace(c.text.Resolve(ctx, textRequest{
		task: offline.TaskSummary, title: title, body: body,
		prompt: summaryPrompt(title, body), maxTokens: 200,
	}))
}

// Tags generates hashtag labels; the result is never empty.
func (c *Capabilities) Tags(ctx context.Context, title, body string) []string {
	return ParseTags(c.text.Resolve(ctx, textRequest{
		task: offline.TaskTags, title: title, body: body,
		prompt: tagsPrompt(title, body), maxTokens: 150,
	}))
}

// Relevance scores the article for African audiences within [0,1].
func (c *Capabilities) Relevance(ctx context.Context, title, body string) float64 {
	return ParseRelevance(c.text.Resolve(ctx, textRequest{
		task: offline.TaskRelevance, title: title, body: body,
		prompt: relevancePrompt(title, body), maxTokens: 50,
	}))
}

// MediaJustification explains why the selected media fits the article.
func (c *Capabilities) MediaJustification(ctx context.Context, title, body, mediaType string) string {
	return strings.TrimSpace(c.text.Resolve(ctx, textRequest{
		task: offline.TaskJustification, title: title, body: body,
		prompt: justificationPrompt(title, body, mediaType), maxTokens: 200,
	}))
}

// Snippet returns an encyclopedic blurb about topic.
func (c *Capabilities) Snippet(ctx context.Context, topic string) string {
	return c.snippet.Resolve(ctx, topic)
}

// FeaturedImage returns an image URI or "" when none could be found.
func (c *Capabilities) FeaturedImage(ctx context.Context, title string, tags []string) string {
	return c.image.Resolve(ctx, subjectRequest{title: title, tags: tags})
}

// RelatedVideo returns a video URI or "" when none could be found.
func (c *Capabilities) RelatedVideo(ctx context.Context, title string, tags []string) string {
	return c.video.Resolve(ctx, subjectRequest{title: title, tags: tags})
}

// SocialSentiment describes how the subject is discussed on social media.
func (c *Capabilities) SocialSentiment(ctx context.Context, title string, tags []string) string {
	return c.sentiment.Resolve(ctx, subjectRequest{title: title, tags: tags})
}

// SearchTrend describes search interest around the subject.
func (c *Capabilities) SearchTrend(ctx context.Context, title string, tags []string) string {
	return c.trend.Resolve(ctx, subjectRequest{title: title, tags: tags})
}

// GeoContext resolves where the article takes place.
func (c *Capabilities) GeoContext(ctx context.Context, title, body string) domain.Geo {
	return c.geo.Resolve(ctx, articleRequest{title: title, body: body})
}

func generate(ctx context.Context, gen ports.TextGenerator, prompt string, maxTokens int) (string, error) {
	out, err := gen.Generate(ctx, prompt, maxTokens)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("empty completion: %w", fallback.ErrNoResult)
	}
	return out, nil
}

func nonEmpty(v string, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(v) == "" {
		return "", fallback.ErrNoResult
	}
	return v, nil
}
