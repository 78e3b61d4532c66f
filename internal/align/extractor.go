package align

import (
	"context"
	"strings"

	"github.com/itsmostafa/versealign/internal/verse"
)

// Extractor turns raw oracle extractions into candidates anchored in the
// source text.
type Extractor struct {
	matcher Matcher
	window  int
}

// NewExtractor returns an Extractor sending at most window runes of text
// to the oracle.
func NewExtractor(m Matcher, window int) *Extractor {
	return &Extractor{matcher: m, window: window}
}

// Extract asks for the span of text[from:limit] matching reference. The
// returned candidate's Start and End are offsets into text. A candidate
// with Found false and empty Text is the no-match signal; Found false with
// Text set is a span the oracle made up.
func (e *Extractor) Extract(ctx context.Context, reference, text string, from, limit int, lines []verse.Line, attempt int, shorten bool) (Candidate, error) {
	remaining := text[from:limit]
	raw, err := e.matcher.Extract(ctx, ExtractRequest{
		Reference: reference,
		Text:      window(remaining, e.window),
		Lines:     lines,
		Attempt:   attempt,
		Shorten:   shorten,
	})
	if err != nil {
		return Candidate{}, oracleError("extract lines "+verse.Range(lines), err)
	}

	c := Candidate{Reference: reference, Raw: raw, Attempt: attempt}
	cleaned := StripQuotes(raw)
	if cleaned == "" || strings.EqualFold(cleaned, "NONE") {
		return c, nil
	}
	c.Text = cleaned

	start, end, ok := Locate(remaining, cleaned)
	if !ok {
		return c, nil
	}
	end = RestorePunctuation(remaining, end)
	c.Text = remaining[start:end]
	c.Start = from + start
	c.End = from + end
	c.Found = true
	return c, nil
}

// None reports whether the oracle found no span at all.
func (c Candidate) None() bool {
	return !c.Found && c.Text == ""
}
