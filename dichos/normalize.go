package dichos

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText performs Unicode NFKC normalization and trims whitespace.
// WhatsApp exports carry narrow no-break spaces (U+202F) around timestamps;
// NFKC folds those into plain spaces.
func NormalizeText(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.TrimSpace(normed)
	// Collapse internal control characters except newlines.
	normed = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return normed
}

// NormalizeKeyword canonicalizes a single keyword for set operations.
func NormalizeKeyword(kw string) string {
	return strings.ToLower(strings.TrimSpace(NormalizeText(kw)))
}

// NormalizeKeywords canonicalizes and deduplicates a keyword list, keeping
// first-seen order.
func NormalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		normed := NormalizeKeyword(kw)
		if normed == "" {
			continue
		}
		if _, ok := seen[normed]; ok {
			continue
		}
		seen[normed] = struct{}{}
		out = append(out, normed)
	}
	return out
}
