package media

import (
	"context"
	"fmt"
	"net/url"

	"NewsEnricher/internal/fallback"
	"NewsEnricher/internal/infrastructure/httpjson"
	"NewsEnricher/internal/ports"
)

// Pexels searches the Pexels photo API for a landscape image.
type Pexels struct {
	endpoint string
	apiKey   string
	client   *httpjson.Client
}

var _ ports.ImageSearcher = (*Pexels)(nil)

// NewPexels builds an image searcher; an unusable key makes it unavailable.
func NewPexels(endpoint, apiKey string, client *httpjson.Client) *Pexels {
	return &Pexels{endpoint: endpoint, apiKey: apiKey, client: client}
}

type pexelsResponse struct {
	Photos []struct {
		Src struct {
			Large string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

// SearchImage returns the large rendition of the best matching photo.
func (p *Pexels) SearchImage(ctx context.Context, query string) (string, error) {
	if !fallback.Usable(p.apiKey) {
		return "", fallback.Unavailable("pexels api key")
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")

	var resp pexelsResponse
	if err := p.client.Get(ctx, p.endpoint, params, map[string]string{"Authorization": p.apiKey}, &resp); err != nil {
		return "", fmt.Errorf("pexels search: %w", err)
	}
	if len(resp.Photos) == 0 || resp.Photos[0].Src.Large == "" {
		return "", fallback.ErrNoResult
	}
	return resp.Photos[0].Src.Large, nil
}
