package google

import (
	"context"
	"fmt"
	"net/url"

	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/fallback"
	"NewsEnricher/internal/infrastructure/httpjson"
	"NewsEnricher/internal/ports"
)

// Geocoder resolves place names with the Google Geocoding API.
type Geocoder struct {
	endpoint string
	apiKey   string
	region   string
	client   *httpjson.Client
}

var _ ports.Geocoder = (*Geocoder)(nil)

// NewGeocoder builds a geocoder biased towards region (e.g. "za").
func NewGeocoder(endpoint, apiKey, region string, client *httpjson.Client) *Geocoder {
	return &Geocoder{endpoint: endpoint, apiKey: apiKey, region: region, client: client}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode returns the first match for location.
func (g *Geocoder) Geocode(ctx context.Context, location string) (domain.Geo, error) {
	if !fallback.Usable(g.apiKey) {
		return domain.Geo{}, fallback.Unavailable("google api key")
	}

	params := url.Values{}
	params.Set("address", location)
	params.Set("key", g.apiKey)
	if g.region != "" {
		params.Set("region", g.region)
	}

	var resp geocodeResponse
	if err := g.client.Get(ctx, g.endpoint, params, nil, &resp); err != nil {
		return domain.Geo{}, fmt.Errorf("geocode %q: %w", location, err)
	}
	if len(resp.Results) == 0 {
		return domain.Geo{}, fallback.ErrNoResult
	}

	first := resp.Results[0]
	return domain.NewGeo(first.Geometry.Location.Lat, first.Geometry.Location.Lng, first.FormattedAddress), nil
}
