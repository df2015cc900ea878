package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	// ErrNotFound is returned when no record matches the requested id.
	ErrNotFound = errors.New("news article not found")
	// ErrProcessingFailed hides the cause of an aborted enrichment from callers.
	ErrProcessingFailed = errors.New("failed to process article")
	// ErrInvalidItem marks a raw item rejected before enrichment.
	ErrInvalidItem = errors.New("invalid news item")
	// ErrPersistence wraps storage backend failures.
	ErrPersistence = errors.New("persistence failure")
)

// DefaultTags replaces tag generation output that cannot be parsed.
var DefaultTags = []string{"#News", "#Africa"}

// DefaultRelevance is used when the relevance output is not a number.
const DefaultRelevance = 0.7

// RawItem is the article handed over by an ingestion adapter.
type RawItem struct {
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	SourceURL   string    `json:"source_url"`
	Publisher   string    `json:"publisher"`
	PublishedAt time.Time `json:"published_at"`
}

// EnrichedRecord is the persisted, fully enriched article.
type EnrichedRecord struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Summary        string    `json:"summary"`
	Tags           []string  `json:"tags"`
	RelevanceScore float64   `json:"relevance_score"`
	SourceURL      string    `json:"source_url"`
	Publisher      string    `json:"publisher"`
	PublishedAt    time.Time `json:"published_at"`
	IngestedAt     time.Time `json:"ingested_at"`
	Media          Media     `json:"media"`
	Context        Context   `json:"context"`
}

// Media holds the selected imagery and the reasoning behind it.
type Media struct {
	FeaturedImageURL   *string `json:"featured_image_url"`
	RelatedVideoURL    *string `json:"related_video_url"`
	MediaJustification string  `json:"media_justification"`
}

// Context carries the contextual signals gathered around an article.
type Context struct {
	WikipediaSnippet string `json:"wikipedia_snippet"`
	SocialSentiment  string `json:"social_sentiment"`
	SearchTrend      string `json:"search_trend"`
	Geo              *Geo   `json:"geo"`
}

// Geo is a resolved location.
type Geo struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	MapURL           string  `json:"map_url"`
	FormattedAddress string  `json:"formatted_address"`
}

// MapURL builds the OpenStreetMap link used for every resolved location.
func MapURL(lat, lng float64) string {
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%v&mlon=%v&zoom=10", lat, lng)
}

// NewGeo returns a Geo with its map link filled in.
func NewGeo(lat, lng float64, address string) Geo {
	return Geo{Lat: lat, Lng: lng, MapURL: MapURL(lat, lng), FormattedAddress: address}
}

// Ready reports whether the item satisfies the orchestrator precondition.
func (r RawItem) Ready() bool {
	return strings.TrimSpace(r.Title) != "" && strings.TrimSpace(r.Body) != ""
}

// Validate applies the rules used for directly submitted articles.
func (r RawItem) Validate() error {
	var problems []string

	if n := utf8.RuneCountInString(strings.TrimSpace(r.Title)); n < 5 || n > 200 {
		problems = append(problems, "title must be 5-200 characters")
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(r.Body)); n < 200 || n > 10000 {
		problems = append(problems, "body must be 200-10000 characters")
	}
	if u, err := url.Parse(r.SourceURL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, "source_url must be an absolute URI")
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(r.Publisher)); n < 2 || n > 100 {
		problems = append(problems, "publisher must be 2-100 characters")
	}
	if r.PublishedAt.IsZero() {
		problems = append(problems, "published_at is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidItem, strings.Join(problems, "; "))
	}
	return nil
}
