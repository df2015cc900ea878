package parser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/ports"
	"NewsEnricher/internal/source"
)

const (
	defaultFeedLimit = 3
	maxFeedLimit     = 10
)

// RSSSource reads the latest items of an RSS or Atom feed.
type RSSSource struct {
	client    *http.Client
	userAgent string
	scraper   ports.ArticleScraper
	now       func() time.Time
	logger    *slog.Logger
}

var (
	_ ports.FeedReader = (*RSSSource)(nil)
	_ source.Adapter   = (*RSSSource)(nil)
)

// NewRSSSource wires the feed client; scraper, when set, fills in short bodies.
func NewRSSSource(client *http.Client, userAgent string, scraper ports.ArticleScraper, logger *slog.Logger) *RSSSource {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RSSSource{
		client:    client,
		userAgent: userAgent,
		scraper:   scraper,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

// Kind identifies the adapter inside the source registry.
func (r *RSSSource) Kind() string {
	return "rss"
}

// Fetch reads req.Target with req.Limit.
func (r *RSSSource) Fetch(ctx context.Context, req source.Request) ([]domain.RawItem, error) {
	items, err := r.ReadFeed(ctx, req.Target, req.Limit)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		r.logger.Debug("feed produced items", "feed", req.Name, "count", len(items))
	}
	return items, nil
}

// ClampLimit applies the default of 3 and bounds the limit to [1,10].
func ClampLimit(limit int) int {
	switch {
	case limit == 0:
		return defaultFeedLimit
	case limit < 1:
		return 1
	case limit > maxFeedLimit:
		return maxFeedLimit
	default:
		return limit
	}
}

// ReadFeed parses feedURL and converts its first items into raw items.
func (r *RSSSource) ReadFeed(ctx context.Context, feedURL string, limit int) ([]domain.RawItem, error) {
	raw, err := fetch(ctx, r.client, feedURL, r.userAgent)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	entries := feed.Items
	if n := ClampLimit(limit); len(entries) > n {
		entries = entries[:n]
	}

	publisher := strings.TrimSpace(feed.Title)
	if publisher == "" {
		publisher = hostPublisher(feedURL)
	}

	items := make([]domain.RawItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, r.toRawItem(ctx, feed, entry, publisher))
	}
	return items, nil
}

func (r *RSSSource) toRawItem(ctx context.Context, feed *gofeed.Feed, entry *gofeed.Item, publisher string) domain.RawItem {
	link := entry.Link
	if link == "" {
		link = entry.GUID
	}

	body := longest(plainText(entry.Description), plainText(entry.Content))
	if len(body) < minBodyLength && r.scraper != nil && link != "" {
		page, err := r.scraper.Scrape(ctx, link)
		if err != nil {
			r.logger.Debug("keep feed snippet", "link", link, "error", err)
		} else if page.Body != "" {
			body = page.Body
		}
	}

	title := strings.TrimSpace(entry.Title)
	if title == "" {
		title = strings.TrimSpace(feed.Title)
	}

	publishedAt := r.now()
	switch {
	case entry.PublishedParsed != nil:
		publishedAt = entry.PublishedParsed.UTC()
	case entry.UpdatedParsed != nil:
		publishedAt = entry.UpdatedParsed.UTC()
	default:
		if t, ok := parseTime(entry.Published, entry.Updated); ok {
			publishedAt = t
		}
	}

	return domain.RawItem{
		Title:       title,
		Body:        body,
		SourceURL:   link,
		Publisher:   publisher,
		PublishedAt: publishedAt,
	}
}

func plainText(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" || !strings.Contains(fragment, "<") {
		return fragment
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func longest(values ...string) string {
	var out string
	for _, v := range values {
		if len(v) > len(out) {
			out = v
		}
	}
	return out
}
