package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/itsmostafa/versealign/internal/align"
	"github.com/itsmostafa/versealign/internal/verse"
)

func sampleBlocks() []align.Block {
	return []align.Block{
		{
			Lines:  []verse.Line{{Number: 1, Text: "Nel mezzo del cammin di nostra vita"}},
			Text:   "Midway upon the road of our life",
			Status: align.StatusComplete,
		},
		{
			Lines: []verse.Line{
				{Number: 2, Text: "mi ritrovai per una selva oscura,"},
				{Number: 3, Text: "ché la diritta via era smarrita."},
			},
			Text:      "I found myself within a dark wood, for the right way had been missed.",
			Status:    align.StatusComplete,
			Ambiguous: true,
			Diagnostics: []align.Attempt{
				{Candidate: "I found myself", Verdict: align.VerdictExtraInEnglish, Reason: "too long", Ambiguous: true},
			},
		},
		{
			Lines:      []verse.Line{{Number: 4, Text: "Ahi quanto a dir qual era è cosa dura"}},
			Status:     align.StatusAbandoned,
			Provenance: align.Provenance{Attempts: 3},
		},
	}
}

func TestAligned(t *testing.T) {
	want := `Nel mezzo del cammin di nostra vita
Midway upon the road of our life

mi ritrovai per una selva oscura,
ché la diritta via era smarrita.
I found myself within a dark wood, for the right way had been missed.
`
	if diff := cmp.Diff(want, Aligned(sampleBlocks())); diff != "" {
		t.Errorf("Aligned mismatch (-want +got):\n%s", diff)
	}
}

func TestDetailed(t *testing.T) {
	want := `=== Block 1 ===

[Italian]
Nel mezzo del cammin di nostra vita

[English (Norton)]
Midway upon the road of our life


=== Block 2 ===

[Italian]
mi ritrovai per una selva oscura,
ché la diritta via era smarrita.

[English (Norton)]
I found myself within a dark wood, for the right way had been missed.

[Review]
ambiguous: "I found myself" (too long)


=== Block 3 ===

[Italian]
Ahi quanto a dir qual era è cosa dura

[English (Norton)]
(abandoned after 3 attempts)


`
	if diff := cmp.Diff(want, Detailed(sampleBlocks())); diff != "" {
		t.Errorf("Detailed mismatch (-want +got):\n%s", diff)
	}
}

func TestProse(t *testing.T) {
	want := "Midway upon the road of our life\n\nI found myself within a dark wood, for the right way had been missed.\n"
	if got := Prose(sampleBlocks()); got != want {
		t.Errorf("Prose = %q, want %q", got, want)
	}
	if got := Prose(nil); got != "" {
		t.Errorf("Prose(nil) = %q", got)
	}
}

func TestFormatHeader(t *testing.T) {
	var buf bytes.Buffer
	FormatHeader(&buf, Header{Cantica: "inferno", Canto: 3, Model: "ollama:ministral-3:14b", Lines: 20, Paragraphs: 9})
	out := buf.String()
	for _, want := range []string{"Inferno III", "ollama:ministral-3:14b", "20 verse lines, 9 paragraphs", "new"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
}

func TestFormatBlock(t *testing.T) {
	blocks := sampleBlocks()
	tests := []struct {
		n    int
		want []string
	}{
		{1, []string{"✓", "#1", "lines 1", "Midway upon the road"}},
		{2, []string{"?", "lines 2-3"}},
		{3, []string{"✗", "abandoned after 3 attempts"}},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		FormatBlock(&buf, tt.n, blocks[tt.n-1])
		for _, want := range tt.want {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("block %d output missing %q: %s", tt.n, want, buf.String())
			}
		}
	}
}

func TestFormatSummary(t *testing.T) {
	var buf bytes.Buffer
	res := &align.Result{Blocks: sampleBlocks(), Next: align.Position{Line: 3, Offset: 102}}
	FormatSummary(&buf, Summary{Result: res, Files: []string{"alignment/output/canto_01.txt"}, Err: errors.New("retry budget exhausted")})
	out := buf.String()
	for _, want := range []string{"STOPPED", "Blocks: 2", "Abandoned: 1", "Ambiguous: 1", "line index 3, offset 102", "retry budget exhausted", "canto_01.txt"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("perché", 10); got != "perché" {
		t.Errorf("got %q", got)
	}
	if got := truncateRunes("perché più", 8); got != "perch..." {
		t.Errorf("got %q", got)
	}
}
