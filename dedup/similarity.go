package dedup

import (
	"strings"
	"unicode/utf8"
)

// Similarity scores two already-normalized strings in [0, 1]. Strings whose
// rune lengths differ by at most 3 are compared position-by-position, which
// is cheap and catches small punctuation or typo edits; longer gaps fall back
// to a word-overlap score so rephrasings still register.
//
// The positional branch is intentionally fragile against insertions near the
// front of a string: a single early insertion shifts every later rune and the
// score collapses. Downstream consumers rely on that behavior staying put.
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	ra := []rune(a)
	rb := []rune(b)
	diff := len(ra) - len(rb)
	if diff < 0 {
		diff = -diff
	}
	if diff <= 3 {
		return positionalSimilarity(ra, rb)
	}
	return wordOverlapSimilarity(a, b)
}

func positionalSimilarity(a, b []rune) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0.0
	}
	matches := 0
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(maxLen)
}

// wordOverlapSimilarity is a Dice-style coefficient over words longer than
// two runes. Repeated words are counted once per occurrence in the first
// string, so duplicated words can inflate the score slightly; in practice
// quotes rarely repeat long words enough to matter.
func wordOverlapSimilarity(a, b string) float64 {
	wordsA := strings.Split(a, " ")
	wordsB := strings.Split(b, " ")
	total := len(wordsA) + len(wordsB)
	if total == 0 {
		return 0.0
	}
	common := 0
	for _, w := range wordsA {
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		for _, other := range wordsB {
			if w == other {
				common++
				break
			}
		}
	}
	return 2.0 * float64(common) / float64(total)
}
