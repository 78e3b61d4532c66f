package align

import (
	"context"
	"fmt"

	"github.com/itsmostafa/versealign/internal/verse"
)

// Validation is the outcome of validating one candidate.
type Validation struct {
	Judgement
	Ratio     float64
	Ambiguous bool
}

// Validator combines the local length-ratio guard with the oracle's
// semantic-equivalence judgment.
type Validator struct {
	matcher  Matcher
	maxRatio float64
	probe    bool
}

// NewValidator returns a Validator rejecting spans whose word ratio exceeds
// maxRatio. With probe set the oracle is consulted even then.
func NewValidator(m Matcher, maxRatio float64, probe bool) *Validator {
	return &Validator{matcher: m, maxRatio: maxRatio, probe: probe}
}

// WordRatio divides the candidate's word count by the verse token count.
// It is zero when the lines carry no tokens.
func WordRatio(candidate string, lines []verse.Line) float64 {
	tokens := verse.WordCount(lines)
	if tokens == 0 {
		return 0
	}
	return float64(wordCount(candidate)) / float64(tokens)
}

// Validate classifies c against the reference it was extracted for.
func (v *Validator) Validate(ctx context.Context, c Candidate, lines []verse.Line) (Validation, error) {
	ratio := WordRatio(c.Text, lines)

	if ratio > v.maxRatio {
		out := Validation{
			Judgement: Judgement{
				Verdict: VerdictExtraInEnglish,
				Reason: fmt.Sprintf("length ratio %.2f exceeds %.2f (%d words for %d verse tokens)",
					ratio, v.maxRatio, wordCount(c.Text), verse.WordCount(lines)),
			},
			Ratio: ratio,
		}
		if !v.probe {
			return out, nil
		}
		j, err := v.judge(ctx, c, lines)
		if err != nil {
			return Validation{}, err
		}
		if j.Verdict == VerdictCorrect {
			out.Ambiguous = true
			out.Reason += "; oracle accepted: " + j.Reason
		}
		return out, nil
	}

	j, err := v.judge(ctx, c, lines)
	if err != nil {
		return Validation{}, err
	}
	return Validation{Judgement: j, Ratio: ratio}, nil
}

func (v *Validator) judge(ctx context.Context, c Candidate, lines []verse.Line) (Judgement, error) {
	j, err := v.matcher.Judge(ctx, JudgeRequest{
		Reference: c.Reference,
		Candidate: c.Text,
		Lines:     lines,
		Attempt:   c.Attempt,
	})
	if err != nil {
		return Judgement{}, oracleError("judge lines "+verse.Range(lines), err)
	}
	switch j.Verdict {
	case VerdictCorrect, VerdictExtraInEnglish, VerdictExtraInItalian:
	default:
		j = Judgement{Verdict: VerdictExtraInItalian, Reason: fmt.Sprintf("unrecognized verdict %q: %s", j.Verdict, j.Reason)}
	}
	return j, nil
}
