// Package prose parses a canto of the prose translation into ordered
// entries and the paragraphs the aligner consumes.
//
// The source format is plain text: sections are separated by blank lines,
// lines inside a section are joined with single spaces, and a section that
// starts with "[n]" is an annotation explaining marker [n] of the text
// section before it.
package prose

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	markerPattern     = regexp.MustCompile(`\[(\d+)\]`)
	annotationPattern = regexp.MustCompile(`^\[(\d+)\]`)
)

// Entry is one text section of the translation with the annotations that
// explain its reference markers.
type Entry struct {
	Text        string   `json:"text"`
	Annotations []string `json:"annotations"`
}

// Canto is a parsed prose canto.
type Canto struct {
	Entries []Entry `json:"entries"`
}

// Parse splits text into entries and attaches annotation sections to the
// entry whose markers they explain.
func Parse(text string) *Canto {
	c := &Canto{}
	sections := splitSections(text)

	for i := 0; i < len(sections); {
		if !isAnnotation(sections[i]) {
			c.Entries = append(c.Entries, Entry{Text: strings.Join(sections[i], " "), Annotations: []string{}})
			i++
			continue
		}

		local := make(map[int]string)
		for i < len(sections) && isAnnotation(sections[i]) {
			body := strings.Join(sections[i], " ")
			if m := annotationPattern.FindStringSubmatch(body); m != nil {
				n, _ := strconv.Atoi(m[1])
				local[n] = body
			}
			i++
		}
		if len(local) == 0 || len(c.Entries) == 0 {
			continue
		}

		last := &c.Entries[len(c.Entries)-1]
		for _, m := range markerPattern.FindAllStringSubmatch(last.Text, -1) {
			n, _ := strconv.Atoi(m[1])
			if body, ok := local[n]; ok && !slices.Contains(last.Annotations, body) {
				last.Annotations = append(last.Annotations, body)
			}
		}
	}
	return c
}

// StripMarkers removes inline reference markers such as "[3]".
func StripMarkers(s string) string {
	return markerPattern.ReplaceAllString(s, "")
}

// Paragraphs returns the marker-free, non-empty entries as paragraphs,
// dropping the first skip entries. The Norton translation opens every
// canto with a summary paragraph that has no verse counterpart.
func (c *Canto) Paragraphs(skip int) []Paragraph {
	var paras []Paragraph
	for i, e := range c.Entries {
		if i < skip || strings.TrimSpace(e.Text) == "" {
			continue
		}
		paras = append(paras, Paragraph{
			Index: len(paras),
			Entry: i,
			Text:  strings.TrimSpace(StripMarkers(e.Text)),
		})
	}
	return paras
}

func splitSections(text string) [][]string {
	var sections [][]string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			if len(current) > 0 {
				sections = append(sections, current)
				current = nil
			}
			continue
		}
		current = append(current, stripped)
	}
	if len(current) > 0 {
		sections = append(sections, current)
	}
	return sections
}

func isAnnotation(section []string) bool {
	return len(section) > 0 && annotationPattern.MatchString(section[0])
}
