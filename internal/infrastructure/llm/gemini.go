package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-flash-latest"

// GeminiProvider calls generateContent on the Gemini API with an API key.
// The key travels in a request header, never in the URL.
type GeminiProvider struct {
	model  string
	client *genai.Client
}

// NewGeminiProvider builds the client. baseURL and client may be empty to use
// the public endpoint and the default transport.
func NewGeminiProvider(ctx context.Context, apiKey, model, baseURL string, client *http.Client) (*GeminiProvider, error) {
	if model == "" {
		model = defaultGeminiModel
	}
	model = strings.TrimPrefix(model, "models/")

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: client,
	}
	if baseURL = strings.TrimRight(baseURL, "/"); baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL + "/"}
	}

	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiProvider{model: model, client: c}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
