package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"NewsEnricher/internal/config"
	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/source"
)

var longParagraph = strings.Repeat("Solar farms in the Northern Cape are expanding quickly. ", 4)

func articlePage() string {
	return `<html><head>
	<title>Fallback Title</title>
	<meta property="og:title" content="  Solar Push in South Africa ">
	<meta property="og:site_name" content="African Energy News">
	<meta property="article:published_time" content="2024-12-27T10:00:00Z">
	<script>var ignored = "` + longParagraph + `";</script>
	</head><body>
	<nav><p>` + longParagraph + `navigation</p></nav>
	<article><p>` + longParagraph + `</p><p>` + longParagraph + `</p></article>
	</body></html>`
}

func TestScrapeUsesMetaAndArticleBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write([]byte(articlePage()))
	}))
	defer server.Close()

	scraper := NewArticleScraper(server.Client(), "test-agent", nil)
	item, err := scraper.Scrape(context.Background(), server.URL+"/story")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}

	if item.Title != "Solar Push in South Africa" {
		t.Fatalf("unexpected title %q", item.Title)
	}
	if item.Publisher != "African Energy News" {
		t.Fatalf("unexpected publisher %q", item.Publisher)
	}
	want := time.Date(2024, time.December, 27, 10, 0, 0, 0, time.UTC)
	if !item.PublishedAt.Equal(want) {
		t.Fatalf("unexpected published time %v", item.PublishedAt)
	}
	if item.Body != strings.TrimSpace(longParagraph)+"\n\n"+strings.TrimSpace(longParagraph) {
		t.Fatalf("unexpected body %q", item.Body)
	}
	if strings.Contains(item.Body, "navigation") {
		t.Fatalf("navigation text leaked into body")
	}
	if item.SourceURL != server.URL+"/story" {
		t.Fatalf("unexpected source url %q", item.SourceURL)
	}
}

func TestScrapeFallsBackToTitleTagAndHost(t *testing.T) {
	t.Parallel()

	page := `<html><head><title>Plain Title</title></head><body>
	<div><p>short</p><p>` + longParagraph + `</p><p>` + longParagraph + `</p></div></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	scraper := NewArticleScraper(server.Client(), "", nil)
	fixed := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)
	scraper.now = func() time.Time { return fixed }

	item, err := scraper.Scrape(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if item.Title != "Plain Title" {
		t.Fatalf("unexpected title %q", item.Title)
	}
	if item.Publisher != "127.0.0.1" {
		t.Fatalf("unexpected publisher %q", item.Publisher)
	}
	if !item.PublishedAt.Equal(fixed) {
		t.Fatalf("expected fallback publish time, got %v", item.PublishedAt)
	}
	if strings.Contains(item.Body, "short") {
		t.Fatalf("short paragraphs must be skipped: %q", item.Body)
	}
}

func TestScrapeEmptyPageFails(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body></body></html>`))
	}))
	defer server.Close()

	if _, err := NewArticleScraper(server.Client(), "", nil).Scrape(context.Background(), server.URL); err == nil {
		t.Fatalf("expected extraction error")
	}
}

func TestScrapeRejectsRelativeURL(t *testing.T) {
	t.Parallel()

	_, err := NewArticleScraper(nil, "", nil).Scrape(context.Background(), "/relative")
	if !errors.Is(err, domain.ErrInvalidItem) {
		t.Fatalf("expected ErrInvalidItem, got %v", err)
	}
}

func TestClampLimit(t *testing.T) {
	t.Parallel()

	cases := map[int]int{0: 3, -4: 1, 1: 1, 7: 7, 10: 10, 50: 10}
	for in, want := range cases {
		if got := ClampLimit(in); got != want {
			t.Fatalf("ClampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

type stubScraper struct {
	calls []string
}

func (s *stubScraper) Scrape(_ context.Context, url string) (domain.RawItem, error) {
	s.calls = append(s.calls, url)
	return domain.RawItem{Body: "full body from " + url}, nil
}

func feedXML(base string) string {
	return `<?xml version="1.0"?>
<rss version="2.0"><channel>
<title>Africa Wire</title>
<link>` + base + `</link>
<item><title>First</title><link>` + base + `/1</link><description>` + longParagraph + longParagraph + `</description><pubDate>Fri, 27 Dec 2024 10:00:00 GMT</pubDate></item>
<item><title>Second</title><link>` + base + `/2</link><description>&lt;p&gt;Short teaser&lt;/p&gt;</description></item>
<item><title>Third</title><link>` + base + `/3</link><description>ignored</description></item>
</channel></rss>`
}

func TestReadFeedLimitsAndScrapesShortBodies(t *testing.T) {
	t.Parallel()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedXML(server.URL)))
	}))
	defer server.Close()

	scraper := &stubScraper{}
	rss := NewRSSSource(server.Client(), "", scraper, nil)

	items, err := rss.ReadFeed(context.Background(), server.URL+"/feed", 2)
	if err != nil {
		t.Fatalf("read feed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.Title != "First" || first.Publisher != "Africa Wire" {
		t.Fatalf("unexpected first item %+v", first)
	}
	if !first.PublishedAt.Equal(time.Date(2024, time.December, 27, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected publish time %v", first.PublishedAt)
	}
	if first.Body != strings.TrimSpace(longParagraph+longParagraph) {
		t.Fatalf("long description must be kept, got %q", first.Body)
	}

	if len(scraper.calls) != 1 || scraper.calls[0] != server.URL+"/2" {
		t.Fatalf("expected one scrape of the short item, got %v", scraper.calls)
	}
	if items[1].Body != "full body from "+server.URL+"/2" {
		t.Fatalf("short body should be replaced, got %q", items[1].Body)
	}
}

func TestStrategySourceCollectsAcrossFeeds(t *testing.T) {
	t.Parallel()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feedXML(server.URL)))
	}))
	defer server.Close()

	reg := source.NewRegistry(NewRSSSource(server.Client(), "", nil, nil))
	feeds := []config.FeedConfig{
		{Name: "wire", Kind: "rss", URL: server.URL, Limit: 1},
		{Name: "broken", Kind: "atom", URL: server.URL},
	}

	items, err := NewStrategySource(reg, feeds, nil).FetchAll(context.Background())
	if len(items) != 1 || items[0].Title != "First" {
		t.Fatalf("unexpected items %+v", items)
	}
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("expected error naming the broken feed, got %v", err)
	}
}
