package parser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/ports"
	"NewsEnricher/internal/source"
)

const (
	minBodyLength      = 300
	minParagraphLength = 50
	maxParagraphs      = 30
)

var (
	strippedTags     = []string{"script", "style", "noscript", "svg", "nav", "header", "footer", "aside"}
	articleSelectors = []string{
		"article",
		".article-body", ".article__body", ".ArticleBody", ".story-body",
		".post-content", ".entry-content", ".content__article-body", ".c-article__body",
	}
	titleMeta = []string{
		`meta[property="og:title"]`,
		`meta[name="twitter:title"]`,
	}
	publisherMeta = []string{
		`meta[property="og:site_name"]`,
		`meta[name="application-name"]`,
	}
	publishedMeta = []string{
		`meta[property="article:published_time"]`,
		`meta[name="pubdate"]`,
		`meta[name="publish-date"]`,
		`meta[name="date"]`,
		`meta[name="DC.date.issued"]`,
		`meta[property="og:updated_time"]`,
	}
)

// ArticleScraper turns an article page into a raw item using HTML heuristics.
type ArticleScraper struct {
	client    *http.Client
	userAgent string
	now       func() time.Time
	logger    *slog.Logger
}

var (
	_ ports.ArticleScraper = (*ArticleScraper)(nil)
	_ source.Adapter       = (*ArticleScraper)(nil)
)

// NewArticleScraper wires an HTTP client; a nil client gets a 20s timeout.
func NewArticleScraper(client *http.Client, userAgent string, logger *slog.Logger) *ArticleScraper {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ArticleScraper{
		client:    client,
		userAgent: userAgent,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

// Kind identifies the adapter inside the source registry.
func (s *ArticleScraper) Kind() string {
	return "url"
}

// Fetch scrapes the single page named by req.Target.
func (s *ArticleScraper) Fetch(ctx context.Context, req source.Request) ([]domain.RawItem, error) {
	item, err := s.Scrape(ctx, req.Target)
	if err != nil {
		return nil, err
	}
	return []domain.RawItem{item}, nil
}

// Scrape downloads pageURL and extracts title, body, publisher and publish time.
func (s *ArticleScraper) Scrape(ctx context.Context, pageURL string) (domain.RawItem, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || !parsed.IsAbs() {
		return domain.RawItem{}, fmt.Errorf("%w: invalid url %q", domain.ErrInvalidItem, pageURL)
	}

	page, err := fetch(ctx, s.client, pageURL, s.userAgent)
	if err != nil {
		return domain.RawItem{}, err
	}

	item, err := s.extract(page, parsed)
	if err != nil {
		s.logger.Error("ingest from url", "url", pageURL, "error", err)
		return domain.RawItem{}, err
	}
	return item, nil
}

func (s *ArticleScraper) extract(page []byte, pageURL *url.URL) (domain.RawItem, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return domain.RawItem{}, fmt.Errorf("parse document: %w", err)
	}
	for _, tag := range strippedTags {
		doc.Find(tag).Remove()
	}

	title := firstMeta(doc, titleMeta)
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	publisher := firstMeta(doc, publisherMeta)
	if publisher == "" {
		publisher = hostPublisher(pageURL.String())
	}

	datetime, _ := doc.Find("time[datetime]").First().Attr("datetime")
	candidates := append(metaValues(doc, publishedMeta[:4]), datetime)
	candidates = append(candidates, metaValues(doc, publishedMeta[4:])...)
	publishedAt, ok := parseTime(candidates...)
	if !ok {
		publishedAt = s.now()
	}

	body := articleBody(doc)
	if len(body) < minBodyLength {
		if text := readableText(page, pageURL); len(text) > len(body) {
			body = text
		}
	}

	if title == "" || body == "" {
		return domain.RawItem{}, fmt.Errorf("failed to extract content from url %s", pageURL)
	}

	return domain.RawItem{
		Title:       title,
		Body:        body,
		SourceURL:   pageURL.String(),
		Publisher:   publisher,
		PublishedAt: publishedAt,
	}, nil
}

func articleBody(doc *goquery.Document) string {
	var body string
	for _, sel := range articleSelectors {
		container := doc.Find(sel)
		if container.Length() == 0 {
			continue
		}
		body = joinParagraphs(container.Find("p"), 0, 0)
		if len(body) > minBodyLength {
			return body
		}
	}

	if len(body) < minBodyLength {
		body = joinParagraphs(doc.Find("p"), minParagraphLength, maxParagraphs)
	}
	return body
}

func joinParagraphs(sel *goquery.Selection, minLen, limit int) string {
	var paras []string
	sel.EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if text == "" || (minLen > 0 && len(text) <= minLen) {
			return true
		}
		paras = append(paras, text)
		return limit == 0 || len(paras) < limit
	})
	return strings.Join(paras, "\n\n")
}

func readableText(page []byte, pageURL *url.URL) string {
	article, err := readability.FromReader(bytes.NewReader(page), pageURL)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}

func firstMeta(doc *goquery.Document, selectors []string) string {
	for _, v := range metaValues(doc, selectors) {
		if v != "" {
			return v
		}
	}
	return ""
}

func metaValues(doc *goquery.Document, selectors []string) []string {
	values := make([]string, 0, len(selectors))
	for _, sel := range selectors {
		content, _ := doc.Find(sel).First().Attr("content")
		values = append(values, strings.TrimSpace(content))
	}
	return values
}
