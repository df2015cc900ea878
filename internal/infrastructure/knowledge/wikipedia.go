package knowledge

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"NewsEnricher/internal/fallback"
	"NewsEnricher/internal/infrastructure/httpjson"
	"NewsEnricher/internal/ports"
)

const snippetLimit = 200

// Wikipedia reads page summaries from the Wikipedia REST API.
type Wikipedia struct {
	baseURL string
	client  *httpjson.Client
}

var _ ports.Encyclopedia = (*Wikipedia)(nil)

// NewWikipedia builds a client for baseURL, e.g. https://en.wikipedia.org/api/rest_v1.
func NewWikipedia(baseURL string, client *httpjson.Client) *Wikipedia {
	return &Wikipedia{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Snippet returns the first 200 characters of the summary extract followed by "...".
func (w *Wikipedia) Snippet(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if w.baseURL == "" || topic == "" {
		return "", fallback.Unavailable("wikipedia")
	}

	endpoint := fmt.Sprintf("%s/page/summary/%s", w.baseURL, url.PathEscape(topic))

	var resp struct {
		Extract string `json:"extract"`
	}
	if err := w.client.Get(ctx, endpoint, nil, nil, &resp); err != nil {
		if httpjson.IsStatus(err, http.StatusNotFound) {
			return "", fallback.ErrNoResult
		}
		return "", fmt.Errorf("wikipedia summary: %w", err)
	}
	if strings.TrimSpace(resp.Extract) == "" {
		return "", fallback.ErrNoResult
	}

	return truncate(resp.Extract, snippetLimit) + "...", nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
