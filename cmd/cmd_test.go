package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsmostafa/versealign/internal/config"
	"github.com/itsmostafa/versealign/internal/prose"
)

func TestRunFlagsOverrideOnlyWhenSet(t *testing.T) {
	var f runFlags
	fs := pflag.NewFlagSet("align", pflag.ContinueOnError)
	f.bind(fs)
	require.NoError(t, fs.Parse([]string{"--model", "gemini:gemini-2.5-flash", "--max-lines", "0", "--allow-paragraph-span"}))

	cfg := config.Default()
	cfg.Oracle.Temperature = 0.7
	f.apply(fs, cfg)

	assert.Equal(t, "gemini:gemini-2.5-flash", cfg.Oracle.Model)
	assert.Equal(t, 0, cfg.Alignment.MaxLines)
	assert.True(t, cfg.Alignment.AllowParagraphSpan)
	assert.Equal(t, 0.7, cfg.Oracle.Temperature, "unset flags keep the configured value")
	assert.Equal(t, "inferno", cfg.Corpus.Cantica)
}

func TestParagraphsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "01.txt")
	text := "Summary of the canto.\n\nMidway upon the road of our life[1] I found myself.\n\n[1] The journey.\n"
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"paragraphs", path})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute())

	var paras []prose.Paragraph
	require.NoError(t, json.Unmarshal(buf.Bytes(), &paras))
	require.Len(t, paras, 1)
	assert.Equal(t, "Midway upon the road of our life I found myself.", paras[0].Text)
	assert.Equal(t, 1, paras[0].Entry)
}

func TestAlignRejectsBadCanto(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"align", "XL", "--config", filepath.Join(t.TempDir(), "none.yaml")})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	assert.ErrorContains(t, rootCmd.Execute(), "neither a number nor a roman numeral")
}
