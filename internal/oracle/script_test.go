package oracle

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsmostafa/versealign/internal/align"
	"github.com/itsmostafa/versealign/internal/prose"
	"github.com/itsmostafa/versealign/internal/verse"
)

func lines(texts ...string) []verse.Line {
	out := make([]verse.Line, len(texts))
	for i, t := range texts {
		out[i] = verse.Line{Number: i + 1, Text: t, Tokens: strings.Fields(t)}
	}
	return out
}

func TestScriptReplaysAnswers(t *testing.T) {
	s, err := LoadScript("testdata/incipit.yaml")
	require.NoError(t, err)
	ctx := context.Background()
	second := []verse.Line{{Number: 2, Text: "mi ritrovai per una selva oscura,"}}

	ref, err := s.Translate(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "I found myself in a dark forest", ref)

	for _, want := range []string{"I found myself", "I found myself within a dark wood", "I found myself within a dark wood"} {
		got, err := s.Extract(ctx, align.ExtractRequest{Lines: second})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	j, err := s.Judge(ctx, align.JudgeRequest{Lines: second})
	require.NoError(t, err)
	assert.Equal(t, align.Judgement{Verdict: align.VerdictExtraInItalian, Reason: "the dark wood is missing"}, j)
	j, err = s.Judge(ctx, align.JudgeRequest{Lines: second})
	require.NoError(t, err)
	assert.Equal(t, align.VerdictCorrect, j.Verdict)
}

func TestScriptDefaults(t *testing.T) {
	s, err := ParseScript([]byte("blocks: {}\n"))
	require.NoError(t, err)
	ctx := context.Background()
	ls := lines("Nel mezzo del cammin di nostra vita")

	ref, err := s.Translate(ctx, ls)
	require.NoError(t, err)
	assert.Equal(t, "Nel mezzo del cammin di nostra vita", ref)

	got, err := s.Extract(ctx, align.ExtractRequest{Lines: ls})
	require.NoError(t, err)
	assert.Empty(t, got)

	j, err := s.Judge(ctx, align.JudgeRequest{Lines: ls})
	require.NoError(t, err)
	assert.Equal(t, align.VerdictCorrect, j.Verdict)
}

func TestParseScriptRejectsUnknownVerdict(t *testing.T) {
	_, err := ParseScript([]byte(`blocks: {"1": {verdicts: [MAYBE]}}`))
	assert.ErrorContains(t, err, `unknown verdict "MAYBE"`)

	_, err = ParseScript([]byte("blocks: [1, 2"))
	assert.Error(t, err)
}

func TestScriptDrivesAligner(t *testing.T) {
	s, err := LoadScript("testdata/incipit.yaml")
	require.NoError(t, err)
	a, err := align.New(s, s, align.DefaultConfig())
	require.NoError(t, err)

	paras := []prose.Paragraph{{Text: "Midway upon the road of our life I found myself within a dark wood, for the right way had been missed."}}
	res, err := a.Align(context.Background(), lines(
		"Nel mezzo del cammin di nostra vita",
		"mi ritrovai per una selva oscura,",
		"ché la diritta via era smarrita.",
	), paras)
	require.NoError(t, err)
	require.Len(t, res.Blocks, 3)

	assert.Equal(t, "Midway upon the road of our life", res.Blocks[0].Text)
	assert.Equal(t, "I found myself within a dark wood,", res.Blocks[1].Text)
	assert.Equal(t, "for the right way had been missed.", res.Blocks[2].Text)
	assert.Equal(t, 1, res.Blocks[1].Provenance.Retries)
	require.Len(t, res.Blocks[1].Diagnostics, 1)
	assert.Equal(t, align.VerdictExtraInItalian, res.Blocks[1].Diagnostics[0].Verdict)
}
