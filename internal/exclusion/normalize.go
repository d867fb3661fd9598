// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package exclusion

import (
	"strings"
	"unicode"
)

// minTokenLength is the exclusive lower bound for tokens used in the
// token-set similarity comparison. Shorter tokens ("of", "the", "and")
// carry no discriminating signal.
const minTokenLength = 3

// NormalizeTitle returns a canonical form of a title for comparison:
// lower-cased, punctuation stripped, whitespace collapsed to single
// spaces, trimmed. The function is idempotent.
func NormalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// TokenSet returns the set of space-separated tokens longer than
// minTokenLength characters.
func TokenSet(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		if len(tok) > minTokenLength {
			tokens[tok] = struct{}{}
		}
	}
	return tokens
}

// jaccard returns the Jaccard index of two token sets and the size of
// their intersection.
func jaccard(a, b map[string]struct{}) (index float64, shared int) {
	for tok := range a {
		if _, ok := b[tok]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	if union == 0 {
		return 0, 0
	}
	return float64(shared) / float64(union), shared
}
