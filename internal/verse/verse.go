// Package verse loads the pre-tokenized verse side of a canto.
//
// Each record of a tokenized canto file holds the raw line followed by its
// word tokens, separated by '|':
//
//	Nel mezzo del cammin di nostra vita|Nel|mezzo|del|cammin|di|nostra|vita
//
// Tokenization itself (apostrophe and quote disambiguation) happens
// upstream; this package only reads the result.
package verse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// Line is one verse line of a canto. Lines are immutable once loaded.
type Line struct {
	Number int      `json:"number"` // 1-based, canto-scoped
	Text   string   `json:"text"`
	Tokens []string `json:"tokens,omitempty"`
}

// WordCount returns the number of word tokens on the line.
func (l Line) WordCount() int {
	return len(l.Tokens)
}

// Parse reads tokenized records from r. Blank records are skipped and
// numbering counts only the records that remain.
func Parse(r io.Reader) ([]Line, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var lines []Line
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		parts := strings.Split(raw, "|")
		line := Line{
			Number: len(lines) + 1,
			Text:   strings.TrimSpace(parts[0]),
		}
		for _, tok := range parts[1:] {
			if tok = strings.TrimSpace(tok); tok != "" {
				line.Tokens = append(line.Tokens, tok)
			}
		}
		if len(line.Tokens) == 0 {
			line.Tokens = fallbackTokens(line.Text)
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read verse lines: %w", err)
	}
	return lines, nil
}

// Load parses the tokenized canto file at path.
func Load(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open verse file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// fallbackTokens splits untokenized text on whitespace, keeping only words
// that contain a letter.
func fallbackTokens(text string) []string {
	var tokens []string
	for _, w := range strings.Fields(text) {
		if strings.IndexFunc(w, unicode.IsLetter) >= 0 {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// Text joins the raw text of lines with newlines.
func Text(lines []Line) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}

// WordCount sums the token counts of lines.
func WordCount(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.WordCount()
	}
	return n
}

// Range renders the line numbers covered by lines, e.g. "4" or "4-5".
func Range(lines []Line) string {
	switch len(lines) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%d", lines[0].Number)
	default:
		return fmt.Sprintf("%d-%d", lines[0].Number, lines[len(lines)-1].Number)
	}
}
