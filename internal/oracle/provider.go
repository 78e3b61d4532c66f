// Package oracle implements the natural-language capabilities the aligner
// consults: reference translation, span extraction and equivalence judgment.
// LLM-backed oracles talk to an OpenAI-compatible chat endpoint (OpenAI or
// Ollama) or to Gemini; a scripted oracle replays answers from a YAML file.
package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/itsmostafa/versealign/internal/align"
)

// Provider defines the interface for LLM interactions.
type Provider interface {
	// Complete sends a prompt and returns the response text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Model returns the model identifier being used.
	Model() string
}

// Oracle is everything the aligner needs from one backend.
type Oracle interface {
	align.Translator
	align.Matcher
}

// Provider names accepted in model identifiers.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderScript = "script"
)

// DefaultModel is the model identifier used when none is configured.
const DefaultModel = "ollama:ministral-3:14b"

// Settings selects and tunes an oracle backend.
type Settings struct {
	// Model is "provider:model", e.g. "ollama:ministral-3:14b" or
	// "script:testdata/inferno01.yaml".
	Model       string
	Temperature float64
	Think       bool

	OllamaHost    string
	OpenAIBaseURL string
	OpenAIKey     string
	GeminiKey     string

	Timeout    time.Duration
	MaxRetries int
	// ParseRetries bounds how often a response that is not valid JSON is
	// asked for again.
	ParseRetries int

	Logger *zap.Logger
}

// ParseModel splits a "provider:model" identifier at its first colon.
func ParseModel(id string) (string, string, error) {
	provider, model, ok := strings.Cut(strings.TrimSpace(id), ":")
	if !ok || provider == "" || model == "" {
		return "", "", fmt.Errorf("model %q must have the form provider:model", id)
	}
	provider = strings.ToLower(provider)
	switch provider {
	case ProviderOllama, ProviderOpenAI, ProviderGemini, ProviderScript:
		return provider, model, nil
	}
	return "", "", fmt.Errorf("unknown provider %q in model %q", provider, id)
}

// NewProvider creates the LLM provider named by s.Model.
func NewProvider(ctx context.Context, s Settings) (Provider, error) {
	provider, model, err := ParseModel(s.Model)
	if err != nil {
		return nil, err
	}
	switch provider {
	case ProviderOllama:
		return NewChatProvider(ChatConfig{
			BaseURL:     ollamaURL(s.OllamaHost),
			Model:       model,
			Temperature: s.Temperature,
			Think:       s.Think,
			Timeout:     s.Timeout,
			MaxRetries:  s.MaxRetries,
			Logger:      s.Logger,
		})
	case ProviderOpenAI:
		if s.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		base := s.OpenAIBaseURL
		if base == "" {
			base = "https://api.openai.com/v1"
		}
		return NewChatProvider(ChatConfig{
			BaseURL:     base,
			APIKey:      s.OpenAIKey,
			Model:       model,
			Temperature: s.Temperature,
			Think:       s.Think,
			Timeout:     s.Timeout,
			MaxRetries:  s.MaxRetries,
			Logger:      s.Logger,
		})
	case ProviderGemini:
		return NewGeminiProvider(ctx, GeminiConfig{
			APIKey:      s.GeminiKey,
			Model:       model,
			Temperature: s.Temperature,
			Think:       s.Think,
			Logger:      s.Logger,
		})
	}
	return nil, fmt.Errorf("provider %q has no LLM backend", provider)
}

// New returns the oracle named by s.Model: a scripted oracle for
// "script:<file>", otherwise an LLM oracle over NewProvider.
func New(ctx context.Context, s Settings) (Oracle, error) {
	provider, model, err := ParseModel(s.Model)
	if err != nil {
		return nil, err
	}
	if provider == ProviderScript {
		return LoadScript(model)
	}
	p, err := NewProvider(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", provider, err)
	}
	return NewLLM(p, WithLLMLogger(s.Logger), WithParseRetries(s.ParseRetries)), nil
}

// ollamaURL returns the OpenAI-compatible base URL of an Ollama host.
func ollamaURL(host string) string {
	if host == "" {
		host = "http://localhost:11434"
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	return strings.TrimRight(host, "/") + "/v1"
}
