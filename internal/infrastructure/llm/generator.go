package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"NewsEnricher/internal/config"
	"NewsEnricher/internal/fallback"
	"NewsEnricher/internal/ports"
)

const systemPrompt = "You are a concise news editor. Answer with the requested content only."

// Generator implements ports.TextGenerator against an OpenAI-compatible
// chat completion API such as OpenRouter.
type Generator struct {
	client      llms.Model
	temperature float64
	topP        float64
}

var _ ports.TextGenerator = (*Generator)(nil)

// NewGenerator builds a generator from configuration. Without a usable API key
// the generator is returned anyway and reports fallback.ErrUnavailable.
func NewGenerator(cfg config.LLMConfig, httpClient *http.Client) (*Generator, error) {
	g := &Generator{temperature: cfg.Temperature, topP: cfg.TopP}
	if !fallback.Usable(cfg.APIKey) {
		return g, nil
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, openai.WithBaseURL(cfg.Endpoint))
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	opts = append(opts, openai.WithHTTPClient(httpClient))

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}
	g.client = client
	return g, nil
}

// Generate sends the prompt as a single user turn and returns the trimmed reply.
func (g *Generator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if g == nil || g.client == nil {
		return "", fallback.Unavailable("llm api key")
	}

	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}

	opts := []llms.CallOption{llms.WithMaxTokens(maxTokens)}
	if g.temperature > 0 {
		opts = append(opts, llms.WithTemperature(g.temperature))
	}
	if g.topP > 0 {
		opts = append(opts, llms.WithTopP(g.topP))
	}

	resp, err := g.client.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fallback.ErrNoResult
	}

	text := strings.TrimSpace(resp.Choices[0].Content)
	if text == "" {
		return "", fallback.ErrNoResult
	}
	return text, nil
}
