// Package align discovers where to cut a prose translation so that each
// cut matches a group of contiguous verse lines.
//
// For every verse line the Aligner asks an oracle for a plain reference
// sentence, has the oracle pick the prose span expressing the same meaning
// from the unconsumed text of the current paragraph, validates the span,
// and checks with island detection that no unmatched prose is stranded in
// front of it. A span that cannot be found, or that leaves an island,
// grows the block by the next verse line (enjambment). Validation failures
// are retried a bounded number of times before the block is abandoned.
package align

import (
	"context"

	"github.com/itsmostafa/versealign/internal/verse"
)

// Verdict classifies a candidate span against its verse-line group.
type Verdict string

const (
	// VerdictCorrect means the span expresses exactly the group's meaning.
	VerdictCorrect Verdict = "CORRECT"
	// VerdictExtraInEnglish means the span is too long.
	VerdictExtraInEnglish Verdict = "EXTRA_IN_ENGLISH"
	// VerdictExtraInItalian means the span is too short.
	VerdictExtraInItalian Verdict = "EXTRA_IN_ITALIAN"
	// VerdictMalformed means the span does not occur in the remaining text.
	VerdictMalformed Verdict = "MALFORMED"
)

// Judgement is a verdict with the oracle's (or the guard's) justification.
type Judgement struct {
	Verdict Verdict `json:"verdict"`
	Reason  string  `json:"reason,omitempty"`
}

// ExtractRequest asks the oracle for the span of Text matching Reference.
type ExtractRequest struct {
	Reference string
	Text      string
	Lines     []verse.Line
	Attempt   int
	// Shorten is set when the previous attempt was judged too long.
	Shorten bool
}

// JudgeRequest asks the oracle whether Candidate means the same as Reference.
type JudgeRequest struct {
	Reference string
	Candidate string
	Lines     []verse.Line
	Attempt   int
}

// Translator produces a literal reference sentence for verse lines.
type Translator interface {
	Translate(ctx context.Context, lines []verse.Line) (string, error)
}

// Matcher extracts and judges prose spans. Extract returns the raw oracle
// output; an empty string means no plausible span exists.
type Matcher interface {
	Extract(ctx context.Context, req ExtractRequest) (string, error)
	Judge(ctx context.Context, req JudgeRequest) (Judgement, error)
}

// Candidate is the span proposed by one extraction attempt. Offsets are
// document offsets and are valid only when Found is true.
type Candidate struct {
	Reference string `json:"reference"`
	Raw       string `json:"raw"`
	Text      string `json:"text"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Found     bool   `json:"found"`
	Attempt   int    `json:"attempt"`
}

// Attempt records one validation pass over a block.
type Attempt struct {
	Lines     string  `json:"lines"`
	Attempt   int     `json:"attempt"`
	Reference string  `json:"reference"`
	Raw       string  `json:"raw"`
	Candidate string  `json:"candidate"`
	Ratio     float64 `json:"ratio"`
	Verdict   Verdict `json:"verdict"`
	Reason    string  `json:"reason,omitempty"`
	// Ambiguous marks a span the length guard rejected although the
	// semantic judgment accepted it.
	Ambiguous bool `json:"ambiguous,omitempty"`
}

// Status is the final state of a block.
type Status string

const (
	StatusComplete  Status = "complete"
	StatusAbandoned Status = "abandoned"
)

// Provenance records what a block cost to finalize.
type Provenance struct {
	Lines    int `json:"lines"`
	Retries  int `json:"retries"`
	Attempts int `json:"attempts"`
	Growths  int `json:"growths"`
}

// Block maps contiguous verse lines to one contiguous prose span.
type Block struct {
	Lines        []verse.Line `json:"lines"`
	Text         string       `json:"text"`
	Start        int          `json:"start"`
	End          int          `json:"end"`
	Paragraph    int          `json:"paragraph"`
	EndParagraph int          `json:"end_paragraph"`
	Status       Status       `json:"status"`
	Provenance   Provenance   `json:"provenance"`
	Ambiguous    bool         `json:"ambiguous,omitempty"`
	Diagnostics  []Attempt    `json:"diagnostics,omitempty"`
}

// Complete reports whether the block was finalized.
func (b Block) Complete() bool {
	return b.Status == StatusComplete
}

// Range renders the block's verse line numbers.
func (b Block) Range() string {
	return verse.Range(b.Lines)
}

// Position is where alignment resumes: the index of the next verse line in
// the input slice and the document cursor.
type Position struct {
	Line   int `json:"line"`
	Offset int `json:"offset"`
}

// Result is everything produced by one alignment run. It is returned even
// when the run stops on an error so partial work stays usable.
type Result struct {
	Blocks []Block  `json:"blocks"`
	Next   Position `json:"next"`
	// Done is true when every verse line or every paragraph was consumed.
	Done bool `json:"done"`
}

// Completed returns the finalized blocks.
func (r *Result) Completed() []Block {
	var out []Block
	for _, b := range r.Blocks {
		if b.Complete() {
			out = append(out, b)
		}
	}
	return out
}

// Ambiguous returns blocks that carry a guard/judgment conflict.
func (r *Result) Ambiguous() []Block {
	var out []Block
	for _, b := range r.Blocks {
		if b.Ambiguous {
			out = append(out, b)
		}
	}
	return out
}
