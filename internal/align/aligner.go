package align

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/itsmostafa/versealign/internal/prose"
	"github.com/itsmostafa/versealign/internal/verse"
)

// Aligner drives the block-boundary search over one canto.
type Aligner struct {
	translator Translator
	extractor  *Extractor
	validator  *Validator
	cfg        Config
	logger     *zap.Logger
	observer   func(Block)
}

// Option configures an Aligner.
type Option func(*Aligner)

// WithLogger sets the logger used for per-attempt diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(a *Aligner) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithObserver registers fn to be called with every block as soon as it is
// finalized or abandoned.
func WithObserver(fn func(Block)) Option {
	return func(a *Aligner) {
		a.observer = fn
	}
}

// New returns an Aligner asking tr for reference sentences and m for spans
// and verdicts.
func New(tr Translator, m Matcher, cfg Config, opts ...Option) (*Aligner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Aligner{
		translator: tr,
		extractor:  NewExtractor(m, cfg.ExtractWindow),
		validator:  NewValidator(m, cfg.MaxRatio, cfg.ProbeRatioConflicts),
		cfg:        cfg,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Align partitions lines against paras from the beginning of both.
func (a *Aligner) Align(ctx context.Context, lines []verse.Line, paras []prose.Paragraph) (*Result, error) {
	return a.AlignFrom(ctx, lines, paras, Position{})
}

// AlignFrom continues a run at pos. The returned Result is never nil and
// holds every block produced before an error.
func (a *Aligner) AlignFrom(ctx context.Context, lines []verse.Line, paras []prose.Paragraph, pos Position) (*Result, error) {
	doc := prose.NewDocument(paras)
	res := &Result{Next: pos}
	if pos.Line < 0 || pos.Line > len(lines) || pos.Offset < 0 || pos.Offset > doc.Len() {
		return res, fmt.Errorf("%w: line %d of %d, offset %d of %d",
			ErrInvalidPosition, pos.Line, len(lines), pos.Offset, doc.Len())
	}

	line, cursor := pos.Line, pos.Offset
	for line < len(lines) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		para, next, ok := nextParagraph(doc, cursor)
		if !ok {
			break
		}
		if next != cursor {
			a.logger.Debug("paragraph finished", zap.Int("paragraph", doc.ParagraphAt(cursor)), zap.Int("next", para))
		}
		cursor = next
		res.Next = Position{Line: line, Offset: cursor}

		block, err := a.alignBlock(ctx, doc, lines, line, cursor, para)
		if block != nil {
			res.Blocks = append(res.Blocks, *block)
			if a.observer != nil {
				a.observer(*block)
			}
		}
		if err != nil {
			return res, err
		}

		line += len(block.Lines)
		cursor = skipSeparators(doc.Text, block.End)
		res.Next = Position{Line: line, Offset: cursor}
	}

	res.Done = true
	a.logger.Info("alignment finished",
		zap.Int("blocks", len(res.Blocks)),
		zap.Int("lines_left", len(lines)-line),
		zap.Bool("prose_left", hasLetter(doc.Text[cursor:])))
	return res, nil
}

// nextParagraph returns the paragraph holding unconsumed text at or after
// cursor, and the cursor moved to it.
func nextParagraph(doc *prose.Document, cursor int) (int, int, bool) {
	p := doc.ParagraphAt(cursor)
	if p < 0 {
		return 0, cursor, false
	}
	for {
		start, end := doc.Bounds(p)
		cursor = max(cursor, start)
		if cursor < end && hasLetter(doc.Text[cursor:end]) {
			return p, cursor, true
		}
		p++
		if p >= len(doc.Paragraphs) {
			return 0, cursor, false
		}
	}
}

// limit returns the end offset of text available to a block starting in
// paragraph p.
func (a *Aligner) limit(doc *prose.Document, p int) int {
	if a.cfg.AllowParagraphSpan && p+1 < len(doc.Paragraphs) {
		_, end := doc.Bounds(p + 1)
		return end
	}
	_, end := doc.Bounds(p)
	return end
}

// alignBlock searches the boundary of the block starting at verse line
// index first and document offset cursor. It returns a nil block only for
// oracle failures.
func (a *Aligner) alignBlock(ctx context.Context, doc *prose.Document, lines []verse.Line, first, cursor, para int) (*Block, error) {
	limit := a.limit(doc, para)
	remaining := doc.Text[cursor:limit]

	var (
		prov        Provenance
		diagnostics []Attempt
		ambiguous   bool
	)
	for size := 1; ; size++ {
		group := lines[first : first+size]
		log := a.logger.With(zap.String("lines", verse.Range(group)), zap.Int("paragraph", para))

		reference, err := a.translator.Translate(ctx, group)
		if err != nil {
			return nil, oracleError("translate lines "+verse.Range(group), err)
		}
		reference = strings.TrimSpace(reference)
		if reference == "" {
			return nil, fmt.Errorf("translate lines %s: %w: empty reference sentence", verse.Range(group), ErrOracleUnavailable)
		}
		log.Debug("reference", zap.String("text", reference))

		grow := false
		shorten := false
		for retries := 0; !grow; {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			prov.Attempts++
			c, err := a.extractor.Extract(ctx, reference, doc.Text, cursor, limit, group, retries+1, shorten)
			if err != nil {
				return nil, err
			}
			if c.None() {
				log.Debug("no span found, growing block", zap.String("raw", c.Raw))
				grow = true
				break
			}

			v := Validation{Judgement: Judgement{
				Verdict: VerdictMalformed,
				Reason:  "span does not occur in the remaining text",
			}}
			if c.Found {
				v, err = a.validator.Validate(ctx, c, group)
				if err != nil {
					return nil, err
				}
			}
			rec := Attempt{
				Lines:     verse.Range(group),
				Attempt:   c.Attempt,
				Reference: reference,
				Raw:       c.Raw,
				Candidate: c.Text,
				Ratio:     v.Ratio,
				Verdict:   v.Verdict,
				Reason:    v.Reason,
				Ambiguous: v.Ambiguous,
			}
			ambiguous = ambiguous || v.Ambiguous
			log.Debug("attempt",
				zap.Int("attempt", rec.Attempt),
				zap.String("candidate", rec.Candidate),
				zap.Float64("ratio", rec.Ratio),
				zap.String("verdict", string(rec.Verdict)),
				zap.String("reason", rec.Reason))

			switch v.Verdict {
			case VerdictCorrect:
				if IsBlockComplete(remaining, strings.Fields(c.Text)) {
					prov.Lines = size
					prov.Retries = retries
					block := Block{
						Lines:        slices.Clone(group),
						Text:         c.Text,
						Start:        c.Start,
						End:          c.End,
						Paragraph:    para,
						EndParagraph: doc.ParagraphAt(c.End - 1),
						Status:       StatusComplete,
						Provenance:   prov,
						Ambiguous:    ambiguous,
						Diagnostics:  diagnostics,
					}
					log.Info("block complete",
						zap.String("text", block.Text),
						zap.Int("attempts", prov.Attempts),
						zap.Int("growths", prov.Growths))
					return &block, nil
				}
				rec.Reason = "island: unmatched text before span"
				diagnostics = append(diagnostics, rec)
				log.Debug("island before span, growing block")
				grow = true
				continue
			case VerdictExtraInEnglish:
				shorten = true
			default:
				shorten = false
			}
			diagnostics = append(diagnostics, rec)
			retries++

			if retries >= a.cfg.MaxRetries {
				prov.Lines = size
				prov.Retries = retries
				return a.abandon(group, cursor, para, prov, ambiguous, diagnostics, first, ErrRetryBudgetExhausted)
			}
		}

		if first+size >= len(lines) {
			prov.Lines = size
			return a.abandon(group, cursor, para, prov, ambiguous, diagnostics, first, ErrVerseExhausted)
		}
		prov.Growths++
	}
}

func (a *Aligner) abandon(group []verse.Line, cursor, para int, prov Provenance, ambiguous bool, diagnostics []Attempt, first int, cause error) (*Block, error) {
	block := Block{
		Lines:        slices.Clone(group),
		Start:        cursor,
		End:          cursor,
		Paragraph:    para,
		EndParagraph: para,
		Status:       StatusAbandoned,
		Provenance:   prov,
		Ambiguous:    ambiguous,
		Diagnostics:  diagnostics,
	}
	a.logger.Warn("block abandoned",
		zap.String("lines", block.Range()),
		zap.Int("paragraph", para),
		zap.Int("attempts", prov.Attempts),
		zap.Error(cause))
	return &block, &AbandonedError{
		Block:    block,
		Position: Position{Line: first, Offset: cursor},
		Cause:    cause,
	}
}
