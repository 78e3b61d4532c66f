package align

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// trailingPunctuation may follow a span in the source and is restored onto it.
const trailingPunctuation = ",.;:!?"

// quotePairs maps an opening quotation mark to the closing mark that must
// end the output for the pair to be stripped.
var quotePairs = map[rune]rune{
	'"':  '"',
	'\'': '\'',
	'“':  '”',
	'‘':  '’',
	'”':  '”',
	'’':  '’',
	'«':  '»',
}

// StripQuotes removes one pair of quotation marks wrapping all of s.
// Apostrophes inside words are kept, and output such as `"a" and "b"` is
// left alone because the marks do not form a single pair.
func StripQuotes(s string) string {
	s = strings.TrimSpace(s)
	first, fn := utf8.DecodeRuneInString(s)
	closing, ok := quotePairs[first]
	if !ok {
		return s
	}
	last, ln := utf8.DecodeLastRuneInString(s)
	if last != closing || len(s) < fn+ln {
		return s
	}
	inner := s[fn : len(s)-ln]
	if hasBareQuote(inner, first, closing) {
		return s
	}
	return strings.TrimSpace(inner)
}

// hasBareQuote reports whether inner contains open or closing other than as
// an apostrophe between two letters.
func hasBareQuote(inner string, open, closing rune) bool {
	runes := []rune(inner)
	for i, r := range runes {
		if r != open && r != closing {
			continue
		}
		between := i > 0 && i < len(runes)-1 &&
			unicode.IsLetter(runes[i-1]) && unicode.IsLetter(runes[i+1])
		if !between || (r != '\'' && r != '’') {
			return true
		}
	}
	return false
}

// Locate finds candidate in text ignoring case, treating any whitespace run
// as equal to any other and typographic quotes as equal to straight ones.
// When the exact candidate is absent, the search is repeated without its
// trailing punctuation. It returns the byte range of the match in text.
func Locate(text, candidate string) (int, int, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return 0, 0, false
	}
	if start, end, ok := locate(text, candidate); ok {
		return start, end, true
	}
	trimmed := strings.TrimRight(candidate, trailingPunctuation+" \"'”’")
	if trimmed == "" || trimmed == candidate {
		return 0, 0, false
	}
	return locate(text, trimmed)
}

func locate(text, candidate string) (int, int, bool) {
	for i := range text {
		if n, ok := matchPrefix(text[i:], candidate); ok {
			return i, i + n, true
		}
	}
	return 0, 0, false
}

// matchPrefix reports whether s starts with p under Locate's equivalence
// and returns the number of bytes of s consumed.
func matchPrefix(s, p string) (int, bool) {
	i, j := 0, 0
	for j < len(p) {
		if i >= len(s) {
			return 0, false
		}
		pr, pn := utf8.DecodeRuneInString(p[j:])
		sr, sn := utf8.DecodeRuneInString(s[i:])
		if unicode.IsSpace(pr) {
			if !unicode.IsSpace(sr) {
				return 0, false
			}
			j = skipSpace(p, j)
			i = skipSpace(s, i)
			continue
		}
		if !sameRune(pr, sr) {
			return 0, false
		}
		i += sn
		j += pn
	}
	return i, true
}

func skipSpace(s string, i int) int {
	for i < len(s) {
		r, n := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += n
	}
	return i
}

func sameRune(a, b rune) bool {
	if a == b {
		return true
	}
	a, b = foldQuote(a), foldQuote(b)
	return a == b || unicode.ToLower(a) == unicode.ToLower(b)
}

func foldQuote(r rune) rune {
	switch r {
	case '‘', '’':
		return '\''
	case '“', '”':
		return '"'
	}
	return r
}

// RestorePunctuation extends the span ending at end by one punctuation
// mark when the source continues with one the span does not already end with.
func RestorePunctuation(text string, end int) int {
	if end >= len(text) {
		return end
	}
	next := text[end]
	if strings.IndexByte(trailingPunctuation, next) < 0 {
		return end
	}
	if end > 0 && text[end-1] == next {
		return end
	}
	return end + 1
}

// skipSeparators advances offset past whitespace and trailing punctuation.
func skipSeparators(text string, offset int) int {
	for offset < len(text) {
		r, n := utf8.DecodeRuneInString(text[offset:])
		if !unicode.IsSpace(r) && !strings.ContainsRune(trailingPunctuation, r) {
			break
		}
		offset += n
	}
	return offset
}

// hasLetter reports whether s contains an alphabetic character.
func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

// window cuts text to at most limit runes, backing off to the last
// whitespace so no word is split. A limit of zero returns text unchanged.
func window(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	cut := 0
	for i := range text {
		if limit == 0 {
			cut = i
			break
		}
		limit--
	}
	head := text[:cut]
	if ws := strings.LastIndexFunc(head, unicode.IsSpace); ws > 0 {
		head = head[:ws]
	}
	return head
}

// wordCount counts whitespace-separated words.
func wordCount(s string) int {
	return len(strings.Fields(s))
}
