package oracle

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/itsmostafa/versealign/internal/align"
	"github.com/itsmostafa/versealign/internal/verse"
)

// Script is a deterministic oracle that replays answers keyed by verse line
// range ("1", "4-5"). Successive Extract and Judge calls for a range walk
// its lists and repeat the last entry. A range with no extracts answers
// NONE; a range with no verdicts is judged CORRECT.
//
//	blocks:
//	  "1":
//	    reference: In the middle of the journey of our life
//	    extracts: ["Midway upon the road of our life"]
//	  "2":
//	    extracts: ["I found myself", "I found myself within a dark wood"]
//	    verdicts: ["EXTRA_IN_ITALIAN: the wood is missing", CORRECT]
type Script struct {
	Blocks map[string]ScriptBlock `yaml:"blocks"`

	mu       sync.Mutex
	extractN map[string]int
	judgeN   map[string]int
}

// ScriptBlock holds the scripted answers for one line range.
type ScriptBlock struct {
	Reference string   `yaml:"reference,omitempty"`
	Extracts  []string `yaml:"extracts,omitempty"`
	Verdicts  []string `yaml:"verdicts,omitempty"`
}

// LoadScript reads a Script from a YAML file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes and checks a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for key, b := range s.Blocks {
		for _, v := range b.Verdicts {
			if _, err := parseVerdict(v); err != nil {
				return nil, fmt.Errorf("block %q: %w", key, err)
			}
		}
	}
	return &s, nil
}

func parseVerdict(s string) (align.Judgement, error) {
	name, reason, _ := strings.Cut(s, ":")
	j := align.Judgement{
		Verdict: align.Verdict(strings.ToUpper(strings.TrimSpace(name))),
		Reason:  strings.TrimSpace(reason),
	}
	switch j.Verdict {
	case align.VerdictCorrect, align.VerdictExtraInEnglish, align.VerdictExtraInItalian:
		return j, nil
	}
	return align.Judgement{}, fmt.Errorf("unknown verdict %q", name)
}

// Translate returns the scripted reference, or the verse text itself.
func (s *Script) Translate(_ context.Context, lines []verse.Line) (string, error) {
	if b, ok := s.Blocks[verse.Range(lines)]; ok && b.Reference != "" {
		return b.Reference, nil
	}
	return verse.Text(lines), nil
}

// Extract returns the next scripted span for the request's lines.
func (s *Script) Extract(_ context.Context, req align.ExtractRequest) (string, error) {
	key := verse.Range(req.Lines)
	answers := s.Blocks[key].Extracts
	n := s.next(&s.extractN, key)
	if len(answers) == 0 {
		return "", nil
	}
	return answers[min(n, len(answers)-1)], nil
}

// Judge returns the next scripted verdict for the request's lines.
func (s *Script) Judge(_ context.Context, req align.JudgeRequest) (align.Judgement, error) {
	key := verse.Range(req.Lines)
	answers := s.Blocks[key].Verdicts
	n := s.next(&s.judgeN, key)
	if len(answers) == 0 {
		return align.Judgement{Verdict: align.VerdictCorrect, Reason: "scripted"}, nil
	}
	return parseVerdict(answers[min(n, len(answers)-1)])
}

func (s *Script) next(counts *map[string]int, key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if *counts == nil {
		*counts = map[string]int{}
	}
	n := (*counts)[key]
	(*counts)[key]++
	return n
}
