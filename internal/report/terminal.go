package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/itsmostafa/versealign/internal/align"
	"github.com/itsmostafa/versealign/internal/config"
)

var (
	// titleStyle for bold red headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// warnStyle marks blocks waiting for manual review
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	// boxStyle for summary box with rounded border
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)

	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)
)

// Header describes a run for FormatHeader.
type Header struct {
	Cantica    string
	Canto      int
	Model      string
	Lines      int
	Paragraphs int
	Resumed    bool
}

// FormatHeader renders the run header.
func FormatHeader(w io.Writer, h Header) {
	mode := "new"
	if h.Resumed {
		mode = "resumed"
	}
	content := fmt.Sprintf("%s %s  %s %s\n%s %s\n%s %d verse lines, %d paragraphs",
		dimStyle.Render("Canto:"), titleStyle.Render(fmt.Sprintf("%s %s", titleCase(h.Cantica), config.Roman(h.Canto))),
		dimStyle.Render("Run:"), mode,
		dimStyle.Render("Model:"), successStyle.Render(h.Model),
		dimStyle.Render("Input:"), h.Lines, h.Paragraphs,
	)
	fmt.Fprintln(w, headerBoxStyle.Render(content))
}

// FormatBlock writes a one-line progress indicator for block number n.
func FormatBlock(w io.Writer, n int, b align.Block) {
	var indicator string
	switch {
	case !b.Complete():
		indicator = errorStyle.Render("✗")
	case b.Ambiguous:
		indicator = warnStyle.Render("?")
	default:
		indicator = successStyle.Render("✓")
	}

	text := b.Text
	if !b.Complete() {
		text = fmt.Sprintf("abandoned after %d attempts", b.Provenance.Attempts)
	}
	fmt.Fprintf(w, "%s %s %s %s\n",
		indicator,
		dimStyle.Render(fmt.Sprintf("#%d", n)),
		titleStyle.Render("lines "+b.Range()),
		truncateRunes(text, 72))
}

// Summary describes the outcome of a run for FormatSummary.
type Summary struct {
	Result *align.Result
	Files  []string
	Err    error
}

// FormatSummary renders the summary box.
func FormatSummary(w io.Writer, s Summary) {
	var complete, abandoned int
	for _, b := range s.Result.Blocks {
		if b.Complete() {
			complete++
		} else {
			abandoned++
		}
	}

	status := successStyle.Render("DONE")
	if s.Err != nil {
		status = errorStyle.Render("STOPPED")
	} else if !s.Result.Done {
		status = warnStyle.Render("PARTIAL")
	}

	lines := []string{
		titleStyle.Render("Alignment Complete") + "  " + status,
		fmt.Sprintf("%s %d  %s %d  %s %d",
			dimStyle.Render("Blocks:"), complete,
			dimStyle.Render("Abandoned:"), abandoned,
			dimStyle.Render("Ambiguous:"), len(s.Result.Ambiguous())),
		fmt.Sprintf("%s line index %d, offset %d",
			dimStyle.Render("Next:"), s.Result.Next.Line, s.Result.Next.Offset),
	}
	if s.Err != nil {
		lines = append(lines, errorStyle.Render(s.Err.Error()))
	}
	for _, f := range s.Files {
		lines = append(lines, dimStyle.Render("Wrote:")+" "+f)
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
