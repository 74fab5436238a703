package validate

import "strings"

// FuzzyMatchThreshold is the minimum sliding-window similarity for a quote to
// count as present in a turn. A policy constant, tolerant of minor
// transcription and paraphrase drift.
const FuzzyMatchThreshold = 0.8

// QuoteSimilarity returns the best match score of quote against text in [0,1].
// Exact substring containment (after normalization) is 1.0. Otherwise a window
// the length of the normalized quote slides across the normalized text and the
// maximum character-level similarity ratio wins. Matching a quote against the
// exact text it was drawn from therefore always yields 1.0.
func QuoteSimilarity(quote, text string) float64 {
	q := normalizeForMatch(quote)
	t := normalizeForMatch(text)

	if q == "" || t == "" {
		return 0
	}
	if strings.Contains(t, q) {
		return 1
	}

	qr := []rune(q)
	tr := []rune(t)
	if len(qr) > len(tr) {
		// Quote longer than the whole turn: single comparison
		return charRatio(qr, tr)
	}

	best := 0.0
	for i := 0; i+len(qr) <= len(tr); i++ {
		if sim := charRatio(qr, tr[i:i+len(qr)]); sim > best {
			best = sim
		}
	}
	return best
}

// charRatio is the character-frequency similarity of two rune slices:
// 2 x shared character count / total length. Order-insensitive within the
// window; the sliding window supplies the positional constraint.
func charRatio(a, b []rune) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}

	counts := make(map[rune]int, len(a))
	for _, r := range a {
		counts[r]++
	}

	shared := 0
	for _, r := range b {
		if counts[r] > 0 {
			counts[r]--
			shared++
		}
	}

	return 2 * float64(shared) / float64(len(a)+len(b))
}

// normalizeForMatch lowercases and collapses all whitespace runs to single
// spaces so matching survives transcription formatting differences
func normalizeForMatch(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
