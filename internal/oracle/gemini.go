package oracle

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiConfig configures a GeminiProvider.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	Think       bool
	Logger      *zap.Logger
}

// GeminiProvider implements Provider using Google's Gemini API.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	temperature float32
	think       bool
	logger      *zap.Logger
}

// NewGeminiProvider creates a Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiProvider{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		think:       cfg.Think,
		logger:      logger,
	}, nil
}

// Model returns the model identifier.
func (p *GeminiProvider) Model() string {
	return p.model
}

// Complete sends prompt and returns the non-thought text of the first
// candidate.
func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(p.temperature),
	}
	if p.think {
		cfg.ThinkingConfig = &genai.ThinkingConfig{IncludeThoughts: true}
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates in response")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.Thought {
			p.logger.Debug("model reasoning", zap.String("model", p.model), zap.String("text", part.Text))
			continue
		}
		text.WriteString(part.Text)
	}
	return text.String(), nil
}
