package encoder

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText applies NFKC Unicode normalization, trims surrounding
// whitespace and strips control characters. Descriptors and queries go
// through this before encoding so cosmetically different inputs map to
// the same vector.
func NormalizeText(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.TrimSpace(normed)
	normed = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)

	return normed
}

// NormalizeTexts normalizes every string into a new slice.
func NormalizeTexts(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = NormalizeText(t)
	}

	return out
}
