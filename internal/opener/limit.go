package opener

import "strings"

// EnforceCharLimit trims an opener to the character limit. Model output
// sometimes arrives wrapped in quotes or runs past the cap, so the text is
// unquoted first, then cut at the latest sentence boundary, falling back to
// the last word break and finally a hard cut. Boundaries are only honored
// past a third of the limit so the result never collapses to a fragment.
// Limits count runes, not bytes.
func EnforceCharLimit(text string, limit int) string {
	text = strings.TrimSpace(text)
	text = strings.Trim(text, `"`)
	text = strings.Trim(text, "'")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	truncated := runes[:limit]

	for _, sep := range []string{". ", "! ", "? "} {
		if idx := lastIndexRunes(truncated, []rune(sep)); idx > limit/3 {
			return string(truncated[:idx+1])
		}
	}
	if idx := lastIndexRunes(truncated, []rune{' '}); idx > limit/3 {
		return string(truncated[:idx]) + "..."
	}
	return string(truncated) + "..."
}

func lastIndexRunes(haystack, needle []rune) int {
	for i := len(haystack) - len(needle); i >= 0; i-- {
		match := true
		for j, r := range needle {
			if haystack[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
