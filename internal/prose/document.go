package prose

import (
	"sort"
	"strings"
)

// ParagraphSeparator joins paragraphs inside a Document.
const ParagraphSeparator = "\n\n"

// Paragraph is one semantic unit of the translation, already stripped of
// reference markers.
type Paragraph struct {
	Index int    `json:"index"` // position among aligned paragraphs
	Entry int    `json:"entry"` // position in Canto.Entries
	Text  string `json:"text"`
}

// Document lays paragraphs end to end so that a single byte offset can
// address any position in the canto. Offsets never point into a separator
// except at a paragraph end.
type Document struct {
	Text       string
	Paragraphs []Paragraph
	starts     []int
}

// NewDocument builds the joined view of paras.
func NewDocument(paras []Paragraph) *Document {
	var b strings.Builder
	starts := make([]int, len(paras))
	for i, p := range paras {
		if i > 0 {
			b.WriteString(ParagraphSeparator)
		}
		starts[i] = b.Len()
		b.WriteString(p.Text)
	}
	return &Document{Text: b.String(), Paragraphs: paras, starts: starts}
}

// Len returns the byte length of the joined text.
func (d *Document) Len() int {
	return len(d.Text)
}

// Bounds returns the byte range [start, end) of paragraph i.
func (d *Document) Bounds(i int) (int, int) {
	start := d.starts[i]
	return start, start + len(d.Paragraphs[i].Text)
}

// ParagraphAt returns the index of the paragraph containing offset. An
// offset inside a separator belongs to the paragraph before it.
func (d *Document) ParagraphAt(offset int) int {
	if len(d.starts) == 0 {
		return -1
	}
	i := sort.Search(len(d.starts), func(i int) bool { return d.starts[i] > offset })
	if i == 0 {
		return 0
	}
	return i - 1
}
