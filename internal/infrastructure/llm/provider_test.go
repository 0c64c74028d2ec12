package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skillstack/internal/config"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = log.New(io.Discard, "", 0)

func newTestGemini(t *testing.T, key, model, baseURL string, client *http.Client) *GeminiProvider {
	t.Helper()
	p, err := NewGeminiProvider(context.Background(), key, model, baseURL, client)
	require.NoError(t, err)
	return p
}

func TestGeminiGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-flash-latest:generateContent"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"))

		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Contents, 1)
		assert.Equal(t, "prompt text", body.Contents[0].Parts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Learned "},{"text":"Flask APIs."}]}}]}`)
	}))
	defer server.Close()

	p := newTestGemini(t, "test-key", "models/gemini-flash-latest", server.URL, server.Client())
	got, err := p.Generate(context.Background(), "prompt text")
	require.NoError(t, err)
	assert.Equal(t, "Learned Flask APIs.", got)
}

func TestGeminiGenerateErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`)
	}))
	defer server.Close()

	p := newTestGemini(t, "secret-key", "", server.URL, server.Client())
	_, err := p.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestGeminiGenerateNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	}))
	defer server.Close()

	p := newTestGemini(t, "k", "", server.URL, server.Client())
	_, err := p.Generate(context.Background(), "x")
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGeminiTransportErrorHidesKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL
	server.Close()

	p := newTestGemini(t, "secret-key", "", baseURL, &http.Client{Timeout: time.Second})
	_, err := p.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestOpenAIGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body.Model)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Practiced SQL joins."},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	p := NewOpenAIProvider("test-key", "", server.URL+"/v1", server.Client())
	got, err := p.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Practiced SQL joins.", got)
}

func TestOpenAIGenerateError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"rate limited","type":"rate_limit"}}`)
	}))
	defer server.Close()

	p := NewOpenAIProvider("test-key", "", server.URL+"/v1", server.Client())
	_, err := p.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai")
}

func TestAnthropicGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"))
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-haiku-latest","content":[{"type":"text","text":"Read two chapters on Rust ownership."}],"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":8}}`)
	}))
	defer server.Close()

	p := NewAnthropicProvider("test-key", "", server.URL, server.Client())
	got, err := p.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Read two chapters on Rust ownership.", got)
}

type fakeProvider struct {
	calls int
	err   error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(context.Context, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "ok", nil
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	inner := &fakeProvider{err: errors.New("upstream 500")}
	b := NewBreaker(inner, BreakerConfig{MaxFailures: 3, Timeout: time.Minute}, quietLogger)

	for range 3 {
		_, err := b.Generate(context.Background(), "x")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.Generate(context.Background(), "x")
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, inner.calls)
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	inner := &fakeProvider{err: context.Canceled}
	b := NewBreaker(inner, BreakerConfig{MaxFailures: 1}, quietLogger)

	for range 3 {
		_, err := b.Generate(context.Background(), "x")
		require.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(config.SummarizerConfig{Provider: config.ProviderGemini}, quietLogger)
	require.NoError(t, err)
	assert.Nil(t, p)

	for _, name := range []string{config.ProviderGemini, config.ProviderOpenAI, config.ProviderAnthropic} {
		p, err := NewProvider(config.SummarizerConfig{Provider: name, APIKey: "k", Timeout: time.Second}, quietLogger)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, name, p.Name())
	}

	_, err = NewProvider(config.SummarizerConfig{Provider: "cohere", APIKey: "k"}, quietLogger)
	require.Error(t, err)
}
