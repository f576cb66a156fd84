// Package drill implements the pronunciation-scoring core: text
// normalization, Levenshtein-based similarity scoring, and feedback banding
// for spoken drill attempts.
//
// Scoring operates purely on recognized transcripts, not on audio features.
// Both the reference phrase and the spoken transcript pass through the same
// normalization, so comparisons are case-, punctuation-, and
// whitespace-insensitive.
package drill

import "strings"

// Normalize canonicalizes a phrase for comparison. It lower-cases the input,
// unifies the Unicode right single quote (U+2019) to an ASCII apostrophe,
// replaces every character outside [a-z0-9' ] with a space, collapses runs of
// whitespace to single spaces, and trims.
//
// Normalize is total and idempotent; empty input yields empty output.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "’", "'")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '\'':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
