package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"skillstack/internal/config"
)

var ErrEmptyResponse = errors.New("empty response from provider")

// Provider generates text for a single prompt.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewProvider builds the configured provider wrapped in a circuit breaker.
// It returns nil when no credential is configured.
func NewProvider(cfg config.SummarizerConfig, logger *log.Logger) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}

	client := &http.Client{Timeout: cfg.Timeout + 5*time.Second}

	var p Provider
	switch cfg.Provider {
	case config.ProviderGemini:
		g, err := NewGeminiProvider(context.Background(), cfg.APIKey, cfg.Model, cfg.BaseURL, client)
		if err != nil {
			return nil, err
		}
		p = g
	case config.ProviderOpenAI:
		p = NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL, client)
	case config.ProviderAnthropic:
		p = NewAnthropicProvider(cfg.APIKey, cfg.Model, cfg.BaseURL, client)
	default:
		return nil, fmt.Errorf("unknown summarizer provider %q", cfg.Provider)
	}

	return NewBreaker(p, BreakerConfig{
		MaxFailures: cfg.BreakerMaxFailures,
		Timeout:     cfg.BreakerOpenTimeout,
	}, logger), nil
}
