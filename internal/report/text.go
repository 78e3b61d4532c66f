// Package report renders alignment results as text files and as styled
// terminal output.
package report

import (
	"fmt"
	"strings"

	"github.com/itsmostafa/versealign/internal/align"
)

// Aligned renders complete blocks as verse lines followed by their prose
// span, with a blank line between blocks.
func Aligned(blocks []align.Block) string {
	var b strings.Builder
	first := true
	for _, block := range blocks {
		if !block.Complete() {
			continue
		}
		if !first {
			b.WriteString("\n")
		}
		first = false
		for _, l := range block.Lines {
			b.WriteString(l.Text)
			b.WriteString("\n")
		}
		b.WriteString(block.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// Detailed renders every block, abandoned ones included, with its Italian
// and English sections.
func Detailed(blocks []align.Block) string {
	var b strings.Builder
	for i, block := range blocks {
		fmt.Fprintf(&b, "=== Block %d ===\n\n", i+1)

		b.WriteString("[Italian]\n")
		for _, l := range block.Lines {
			b.WriteString(l.Text)
			b.WriteString("\n")
		}
		b.WriteString("\n")

		b.WriteString("[English (Norton)]\n")
		if block.Complete() {
			b.WriteString(block.Text)
		} else {
			fmt.Fprintf(&b, "(abandoned after %d attempts)", block.Provenance.Attempts)
		}
		b.WriteString("\n\n")

		if block.Ambiguous {
			b.WriteString("[Review]\n")
			for _, a := range block.Diagnostics {
				if a.Ambiguous {
					fmt.Fprintf(&b, "ambiguous: %q (%s)\n", a.Candidate, a.Reason)
				}
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Prose renders the spans of complete blocks separated by blank lines, so
// the prose carries a break at every block boundary.
func Prose(blocks []align.Block) string {
	spans := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if block.Complete() {
			spans = append(spans, block.Text)
		}
	}
	if len(spans) == 0 {
		return ""
	}
	return strings.Join(spans, "\n\n") + "\n"
}
