package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/itsmostafa/versealign/internal/align"
	"github.com/itsmostafa/versealign/internal/verse"
)

// LLM answers oracle requests by prompting a Provider. Every request is a
// fresh conversation.
type LLM struct {
	provider     Provider
	logger       *zap.Logger
	parseRetries int
}

// LLMOption configures an LLM.
type LLMOption func(*LLM)

// WithLLMLogger sets the logger for prompts and raw responses.
func WithLLMLogger(l *zap.Logger) LLMOption {
	return func(o *LLM) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithParseRetries sets how many extra times a response that fails to
// parse as JSON is asked for.
func WithParseRetries(n int) LLMOption {
	return func(o *LLM) {
		if n >= 0 {
			o.parseRetries = n
		}
	}
}

// NewLLM wraps p.
func NewLLM(p Provider, opts ...LLMOption) *LLM {
	l := &LLM{provider: p, logger: zap.NewNop(), parseRetries: 2}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type extraction struct {
	ExtractedText string `json:"extracted_text"`
}

type validation struct {
	Reason string `json:"reason"`
	Answer string `json:"answer"`
	Issue  string `json:"issue"`
}

// Translate returns a literal modern rendering of lines.
func (l *LLM) Translate(ctx context.Context, lines []verse.Line) (string, error) {
	out, err := l.provider.Complete(ctx, fmt.Sprintf(TranslatePrompt, verse.Text(lines)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", align.ErrOracleUnavailable, err)
	}
	return strings.TrimSpace(out), nil
}

// Extract returns the raw span chosen by the model.
func (l *LLM) Extract(ctx context.Context, req align.ExtractRequest) (string, error) {
	hint := lengthHint(len(req.Lines))
	prompt := fmt.Sprintf(ExtractPrompt, req.Reference, req.Text, hint)
	if req.Shorten {
		prompt = fmt.Sprintf(ExtractShorterPrompt, req.Reference, req.Text, len(req.Lines), hint)
	}
	r, err := completeJSON[extraction](ctx, l, prompt)
	if err != nil {
		return "", err
	}
	return r.ExtractedText, nil
}

// Judge maps the model's YES/NO answer onto a verdict. A NO without a
// recognized issue is treated as a too-short span.
func (l *LLM) Judge(ctx context.Context, req align.JudgeRequest) (align.Judgement, error) {
	prompt := fmt.Sprintf(JudgePrompt,
		req.Reference, req.Candidate, len(req.Lines), verse.Text(req.Lines), lengthHint(len(req.Lines)))
	r, err := completeJSON[validation](ctx, l, prompt)
	if err != nil {
		return align.Judgement{}, err
	}
	j := align.Judgement{Reason: strings.TrimSpace(r.Reason)}
	switch {
	case strings.EqualFold(strings.TrimSpace(r.Answer), "YES"):
		j.Verdict = align.VerdictCorrect
	case strings.EqualFold(strings.TrimSpace(r.Issue), "LONGER"):
		j.Verdict = align.VerdictExtraInEnglish
	default:
		j.Verdict = align.VerdictExtraInItalian
	}
	return j, nil
}

func lengthHint(lines int) string {
	if lines == 1 {
		return "SHORT (likely one phrase or clause)"
	}
	return fmt.Sprintf("matching %d Italian lines", lines)
}

// completeJSON prompts until the response parses as T.
func completeJSON[T any](ctx context.Context, l *LLM, prompt string) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt <= l.parseRetries; attempt++ {
		out, err := l.provider.Complete(ctx, prompt)
		if err != nil {
			return zero, fmt.Errorf("%w: %w", align.ErrOracleUnavailable, err)
		}
		v, err := ExtractJSON[T](out)
		if err == nil {
			return v, nil
		}
		lastErr = err
		l.logger.Debug("unparseable oracle response",
			zap.String("model", l.provider.Model()),
			zap.Int("attempt", attempt+1),
			zap.String("response", truncate(out, 200)))
	}
	return zero, fmt.Errorf("%w: no valid JSON after %d attempts: %w",
		align.ErrOracleUnavailable, l.parseRetries+1, lastErr)
}

// ExtractJSON extracts and parses JSON from an LLM response.
// It handles responses wrapped in ```json ... ``` blocks and prose around
// a single object.
func ExtractJSON[T any](content string) (T, error) {
	var result T

	content = strings.TrimSpace(content)
	if startIdx := strings.Index(content, "```json"); startIdx != -1 {
		startIdx += 7
		if endIdx := strings.LastIndex(content, "```"); endIdx > startIdx {
			content = content[startIdx:endIdx]
		}
	} else if startIdx := strings.Index(content, "```"); startIdx != -1 {
		startIdx += 3
		if endIdx := strings.LastIndex(content[startIdx:], "```"); endIdx != -1 {
			content = content[startIdx : startIdx+endIdx]
		}
	}
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, "{") {
		if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start != -1 && end > start {
			content = content[start : end+1]
		}
	}

	if err := json.Unmarshal([]byte(content), &result); err != nil {
		// Try fixing trailing commas
		fixed := strings.ReplaceAll(content, ",]", "]")
		fixed = strings.ReplaceAll(fixed, ",}", "}")
		fixed = strings.ReplaceAll(fixed, ",\n}", "\n}")
		if err := json.Unmarshal([]byte(fixed), &result); err != nil {
			return result, fmt.Errorf("failed to parse JSON: %w (content: %s)", err, truncate(content, 200))
		}
	}

	return result, nil
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
