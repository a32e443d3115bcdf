package ingest

import (
	"regexp"
	"strings"

	"yashubustudio/dichos/dichos"
)

// similarityFloor is the cleaned-text ratio above which two dichos are
// treated as variants of the same saying.
const similarityFloor = 0.85

var (
	nonTextRunes   = regexp.MustCompile(`[^\p{L}\p{N}\s.,!?;:\-()]`)
	multiSpace     = regexp.MustCompile(`\s+`)
	spaceBeforePun = regexp.MustCompile(`\s+([.,!?;:])`)
)

// canonicalForms fixes recurring transcription quirks before comparison.
var canonicalForms = [][2]string{
	{"que que", "que"},
	{"mas vale", "más vale"},
	{"...", ","},
	{"!!", "!"},
	{"??", "?"},
}

// CleanText strips emoji and stray symbols, collapses whitespace and applies
// canonical-form substitutions.
func CleanText(text string) string {
	cleaned := dichos.NormalizeText(text)
	cleaned = nonTextRunes.ReplaceAllString(cleaned, "")
	cleaned = multiSpace.ReplaceAllString(cleaned, " ")
	cleaned = spaceBeforePun.ReplaceAllString(cleaned, "$1")
	for _, pair := range canonicalForms {
		cleaned = strings.ReplaceAll(cleaned, pair[0], pair[1])
	}
	return strings.TrimSpace(cleaned)
}

// dichoMarkers screens for proverb-like messages: sayings in this corpus
// overwhelmingly open with or contain one of these fragments.
var dichoMarkers = []string{
	"más vale", "mas vale", "el que", "la que", "no hay", "por un",
	"a dios", "en boca", "feliz como", "agua que", "quien", "se le",
	"los lunes", "a ojo de", "no tiene", "come santos", "nunca falta",
	"arrieros", "luz de la calle", "sapo verde", "llovieron",
}

// IsLikelyDicho reports whether a cleaned message looks like a saying rather
// than chatter. Very short messages never qualify.
func IsLikelyDicho(text string) bool {
	cleaned := strings.ToLower(CleanText(text))
	if len([]rune(cleaned)) < 10 {
		return false
	}
	for _, marker := range dichoMarkers {
		if strings.Contains(cleaned, marker) {
			return true
		}
	}
	return false
}

// IsVariant reports whether two dichos are the same saying: equal after
// cleaning, or similar above the ratio floor.
func IsVariant(a, b string) bool {
	ca := strings.ToLower(CleanText(a))
	cb := strings.ToLower(CleanText(b))
	if ca == cb {
		return true
	}
	return similarityRatio(ca, cb) > similarityFloor
}

// Dedupe drops messages whose text is a variant of an already-kept message
// or of any existing text. Order is preserved; the first occurrence wins.
func Dedupe(messages []Message, existing []string) (unique, duplicates []Message) {
	kept := make([]string, 0, len(messages))
	for _, m := range messages {
		dup := false
		for _, prev := range existing {
			if IsVariant(m.Text, prev) {
				dup = true
				break
			}
		}
		if !dup {
			for _, prev := range kept {
				if IsVariant(m.Text, prev) {
					dup = true
					break
				}
			}
		}
		if dup {
			duplicates = append(duplicates, m)
			continue
		}
		kept = append(kept, m.Text)
		unique = append(unique, m)
	}
	return unique, duplicates
}

// similarityRatio is the classic sequence-matcher ratio: twice the length of
// the longest common subsequence over the total length.
func similarityRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	lcs := lcsLength(ra, rb)
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}

func lcsLength(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
