package media

import (
	"context"
	"fmt"
	"net/url"

	"NewsEnricher/internal/fallback"
	"NewsEnricher/internal/infrastructure/httpjson"
	"NewsEnricher/internal/ports"
)

const youtubeWatchURL = "https://www.youtube.com/watch?v="

// YouTube searches the YouTube Data API, biased to South African results.
type YouTube struct {
	endpoint string
	apiKey   string
	client   *httpjson.Client
}

var _ ports.VideoSearcher = (*YouTube)(nil)

// NewYouTube builds the primary video searcher.
func NewYouTube(endpoint, apiKey string, client *httpjson.Client) *YouTube {
	return &YouTube{endpoint: endpoint, apiKey: apiKey, client: client}
}

type youtubeResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

// SearchVideo returns the watch URL of the most relevant video.
func (y *YouTube) SearchVideo(ctx context.Context, query string) (string, error) {
	if !fallback.Usable(y.apiKey) {
		return "", fallback.Unavailable("youtube api key")
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", "1")
	params.Set("key", y.apiKey)
	params.Set("safeSearch", "moderate")
	params.Set("order", "relevance")
	params.Set("regionCode", "ZA")
	params.Set("relevanceLanguage", "en")

	var resp youtubeResponse
	if err := y.client.Get(ctx, y.endpoint, params, nil, &resp); err != nil {
		return "", fmt.Errorf("youtube search: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].ID.VideoID == "" {
		return "", fallback.ErrNoResult
	}
	return youtubeWatchURL + resp.Items[0].ID.VideoID, nil
}
