package google

import (
	"context"
	"fmt"
	"math"
	"net/url"

	"NewsEnricher/internal/fallback"
	"NewsEnricher/internal/infrastructure/httpjson"
	"NewsEnricher/internal/ports"
)

const sentimentThreshold = 0.1

// Sentiment calls the Cloud Natural Language analyzeSentiment endpoint.
type Sentiment struct {
	endpoint string
	apiKey   string
	client   *httpjson.Client
}

var _ ports.SentimentAnalyzer = (*Sentiment)(nil)

// NewSentiment builds a sentiment analyzer.
func NewSentiment(endpoint, apiKey string, client *httpjson.Client) *Sentiment {
	return &Sentiment{endpoint: endpoint, apiKey: apiKey, client: client}
}

type sentimentRequest struct {
	Document struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	} `json:"document"`
	EncodingType string `json:"encodingType"`
}

type sentimentResponse struct {
	DocumentSentiment *struct {
		Score     float64 `json:"score"`
		Magnitude float64 `json:"magnitude"`
	} `json:"documentSentiment"`
}

// AnalyzeSentiment returns a phrase such as "80% positive sentiment (confidence: 90%)".
func (s *Sentiment) AnalyzeSentiment(ctx context.Context, text string) (string, error) {
	if !fallback.Usable(s.apiKey) {
		return "", fallback.Unavailable("google api key")
	}

	var req sentimentRequest
	req.Document.Type = "PLAIN_TEXT"
	req.Document.Content = text
	req.EncodingType = "UTF8"

	endpoint := s.endpoint + "?" + url.Values{"key": {s.apiKey}}.Encode()

	var resp sentimentResponse
	if err := s.client.Post(ctx, endpoint, req, nil, &resp); err != nil {
		return "", fmt.Errorf("analyze sentiment: %w", err)
	}
	if resp.DocumentSentiment == nil {
		return "", fallback.ErrNoResult
	}

	return FormatSentiment(resp.DocumentSentiment.Score, resp.DocumentSentiment.Magnitude), nil
}

// FormatSentiment renders a document score in [-1,1] and its magnitude.
func FormatSentiment(score, magnitude float64) string {
	label := "neutral"
	switch {
	case score > sentimentThreshold:
		label = "positive"
	case score < -sentimentThreshold:
		label = "negative"
	}
	return fmt.Sprintf("%d%% %s sentiment (confidence: %d%%)",
		int(math.Round((score+1)*50)), label, int(math.Round(magnitude*100)))
}
