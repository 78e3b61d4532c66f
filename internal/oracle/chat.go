package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/itsmostafa/versealign/internal/version"
)

// ChatConfig configures a ChatProvider.
type ChatConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Think       bool
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
	Logger      *zap.Logger
}

// ChatProvider implements Provider over an OpenAI-compatible chat
// completions API.
type ChatProvider struct {
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	think       bool
	httpClient  *http.Client
	maxRetries  int
	retryDelay  time.Duration
	logger      *zap.Logger
}

// ChatRequest represents the request body for the chat completions API.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// ChatMessage represents a message in the OpenAI format. Reasoning is
// filled by servers that expose model thinking.
type ChatMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Reasoning string `json:"reasoning,omitempty"`
}

// ChatResponse represents the response from the chat completions API.
type ChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *ChatError `json:"error,omitempty"`
}

// ChatError represents an error response from the API.
type ChatError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// errPermanent marks failures that retrying cannot fix.
var errPermanent = errors.New("permanent API error")

// NewChatProvider creates a chat provider for cfg.
func NewChatProvider(cfg ChatConfig) (*ChatProvider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("chat provider needs a base URL")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("chat provider needs a model")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &ChatProvider{
		endpoint:    strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		think:       cfg.Think,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
		logger:      cfg.Logger,
	}, nil
}

// Model returns the model identifier.
func (p *ChatProvider) Model() string {
	return p.model
}

// Complete sends prompt as a fresh single-message conversation.
func (p *ChatProvider) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ChatRequest{
		Model:       p.model,
		Messages:    []ChatMessage{{Role: "user", Content: prompt}},
		Temperature: p.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(p.retryDelay):
			}
		}

		content, err := p.send(ctx, body)
		if err == nil {
			return content, nil
		}
		if errors.Is(err, errPermanent) || ctx.Err() != nil {
			return "", err
		}
		lastErr = err
		p.logger.Debug("chat completion failed, retrying",
			zap.String("model", p.model), zap.Int("attempt", attempt+1), zap.Error(err))
	}

	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (p *ChatProvider) send(ctx context.Context, body []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %w", errPermanent, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", version.UserAgent())
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 200))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %w", errPermanent, err)
		}
		return "", err
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	msg := chatResp.Choices[0].Message
	if p.think && msg.Reasoning != "" {
		p.logger.Debug("model reasoning", zap.String("model", p.model), zap.String("text", msg.Reasoning))
	}
	return msg.Content, nil
}
