package align

import "unicode"

// Placeholder replaces the runes of matched words during island detection.
const Placeholder = '#'

// MaskWords replaces, for each word in order, its first unconsumed
// occurrence in text with a run of Placeholder of the same rune length.
// Whole-word occurrences win over occurrences inside longer words.
func MaskWords(text string, words []string) string {
	masked := []rune(text)
	for _, w := range words {
		needle := []rune(w)
		if len(needle) == 0 {
			continue
		}
		idx := indexRunes(masked, needle, true)
		if idx < 0 {
			idx = indexRunes(masked, needle, false)
		}
		if idx < 0 {
			continue
		}
		for k := range needle {
			masked[idx+k] = Placeholder
		}
	}
	return string(masked)
}

// IsBlockComplete reports whether matching words against text leaves no
// island: every alphabetic character up to the last masked position has
// been accounted for. The check depends only on its inputs.
func IsBlockComplete(text string, words []string) bool {
	masked := []rune(MaskWords(text, words))
	last := -1
	for i, r := range masked {
		if r == Placeholder {
			last = i
		}
	}
	for _, r := range masked[:last+1] {
		if unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func indexRunes(hay, needle []rune, wholeWord bool) int {
	for i := 0; i+len(needle) <= len(hay); i++ {
		if !equalRunes(hay[i:i+len(needle)], needle) {
			continue
		}
		if wholeWord && (isWordRune(hay, i-1) || isWordRune(hay, i+len(needle))) {
			continue
		}
		return i
	}
	return -1
}

func equalRunes(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isWordRune(runes []rune, i int) bool {
	if i < 0 || i >= len(runes) {
		return false
	}
	return unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i])
}
