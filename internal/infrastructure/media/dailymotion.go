package media

import (
	"context"
	"fmt"
	"net/url"

	"NewsEnricher/internal/fallback"
	"NewsEnricher/internal/infrastructure/httpjson"
	"NewsEnricher/internal/ports"
)

// Dailymotion queries the public, keyless Dailymotion video search.
type Dailymotion struct {
	endpoint string
	client   *httpjson.Client
}

var _ ports.VideoSearcher = (*Dailymotion)(nil)

// NewDailymotion builds the secondary video searcher.
func NewDailymotion(endpoint string, client *httpjson.Client) *Dailymotion {
	return &Dailymotion{endpoint: endpoint, client: client}
}

type dailymotionResponse struct {
	List []struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	} `json:"list"`
}

// SearchVideo returns the page URL of the first matching video.
func (d *Dailymotion) SearchVideo(ctx context.Context, query string) (string, error) {
	if d.endpoint == "" {
		return "", fallback.Unavailable("dailymotion endpoint")
	}

	params := url.Values{}
	params.Set("search", query)
	params.Set("fields", "id,url")
	params.Set("limit", "1")

	var resp dailymotionResponse
	if err := d.client.Get(ctx, d.endpoint, params, nil, &resp); err != nil {
		return "", fmt.Errorf("dailymotion search: %w", err)
	}
	if len(resp.List) == 0 {
		return "", fallback.ErrNoResult
	}

	item := resp.List[0]
	if item.URL != "" {
		return item.URL, nil
	}
	if item.ID != "" {
		return "https://www.dailymotion.com/video/" + item.ID, nil
	}
	return "", fallback.ErrNoResult
}
