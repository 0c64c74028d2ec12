package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"skillstack/internal/metrics"
)

const (
	EmptyNotesSummary = "No notes to summarize."
	summaryPrompt     = "Summarize the following learning notes in one concise sentence: %s"

	defaultSummaryTimeout = 30 * time.Second
	keyPrefixLen          = 4
)

// SummaryProvider is the external text-generation service. Generate is called
// at most once per Summarize.
type SummaryProvider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

type SummarizeUsecase interface {
	Summarize(ctx context.Context, notes string) (string, error)
}

type SummarizerOptions struct {
	// Credential gates the provider; empty means not configured.
	Credential string
	Timeout    time.Duration
	Cache      Cache
	CacheTTL   time.Duration
	Logger     *log.Logger
}

type Summarizer struct {
	provider   SummaryProvider
	credential string
	timeout    time.Duration
	cache      Cache
	cacheTTL   time.Duration
	log        *log.Logger
}

func NewSummarizer(provider SummaryProvider, opts SummarizerOptions) *Summarizer {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultSummaryTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Summarizer{
		provider:   provider,
		credential: opts.Credential,
		timeout:    timeout,
		cache:      opts.Cache,
		cacheTTL:   opts.CacheTTL,
		log:        logger,
	}
}

func (s *Summarizer) Configured() bool {
	return s != nil && s.provider != nil && strings.TrimSpace(s.credential) != ""
}

func (s *Summarizer) Summarize(ctx context.Context, notes string) (string, error) {
	if !s.Configured() {
		metrics.SummarizeRequests.WithLabelValues("not_configured").Inc()
		return "", ErrNotConfigured
	}

	if strings.TrimSpace(notes) == "" {
		metrics.SummarizeRequests.WithLabelValues("empty").Inc()
		return EmptyNotesSummary, nil
	}

	key := SummaryCacheKey(s.provider.Name(), notes)
	if s.cache != nil {
		var cached string
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.log.Printf("summarize step=cache_get status=error err=%v", err)
		}
		if hit && cached != "" {
			metrics.CacheLookups.WithLabelValues("summary", "hit").Inc()
			metrics.SummarizeRequests.WithLabelValues("cached").Inc()
			return cached, nil
		}
		metrics.CacheLookups.WithLabelValues("summary", "miss").Inc()
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	summary, err := s.provider.Generate(callCtx, fmt.Sprintf(summaryPrompt, notes))
	metrics.SummarizeLatency.Observe(time.Since(start).Seconds())
	if err == nil && strings.TrimSpace(summary) == "" {
		err = errors.New("provider returned an empty summary")
	}
	if err != nil {
		metrics.SummarizeRequests.WithLabelValues("provider_error").Inc()
		s.log.Printf("summarize status=error provider=%s key_prefix=%s err=%v", s.provider.Name(), redactKey(s.credential), err)
		return "", fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}

	metrics.SummarizeRequests.WithLabelValues("ok").Inc()
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, summary, s.cacheTTL); err != nil {
			s.log.Printf("summarize step=cache_set status=error err=%v", err)
		}
	}
	return summary, nil
}

// redactKey keeps only the first few characters of a credential.
func redactKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "None"
	}
	if len(key) <= keyPrefixLen {
		return strings.Repeat("*", len(key))
	}
	return key[:keyPrefixLen] + "..."
}
