package dedup

import "fmt"

// Similarity thresholds for the duplicate rules. Tuned against the existing
// corpus; changing them silently changes what the admin UI blocks.
const (
	// SimilarQuoteThreshold flags near-identical quote text when the author
	// matches exactly.
	SimilarQuoteThreshold = 0.90

	// SimilarAuthorThreshold flags author spelling variants when the quote
	// text matches exactly.
	SimilarAuthorThreshold = 0.85

	// BothQuoteThreshold and BothAuthorThreshold together flag pairs where
	// neither field matches exactly but both are very close.
	BothQuoteThreshold  = 0.95
	BothAuthorThreshold = 0.90
)

// ReasonExactMatch is the reason string for rule 1; the other rules annotate
// their reason with the scores that triggered them.
const ReasonExactMatch = "exact_match"

// Classify decides whether a candidate quote/author pair duplicates an
// existing one. Rules are checked in priority order and the first hit wins,
// so a pair that is an exact match never reports a similarity reason. The
// returned reason embeds the triggering scores rounded to two decimals, e.g.
// "similar_quote_same_author_0.93" or "both_similar_q0.96_a0.91".
func Classify(candQuote, candAuthor, existingQuote, existingAuthor string) (bool, string) {
	q1 := Normalize(candQuote)
	q2 := Normalize(existingQuote)
	a1 := Normalize(candAuthor)
	a2 := Normalize(existingAuthor)

	if q1 == q2 && a1 == a2 {
		return true, ReasonExactMatch
	}

	quoteSim := Similarity(q1, q2)
	if quoteSim >= SimilarQuoteThreshold && a1 == a2 {
		return true, fmt.Sprintf("similar_quote_same_author_%.2f", quoteSim)
	}

	authorSim := Similarity(a1, a2)
	if q1 == q2 && authorSim >= SimilarAuthorThreshold {
		return true, fmt.Sprintf("same_quote_similar_author_%.2f", authorSim)
	}

	if quoteSim >= BothQuoteThreshold && authorSim >= BothAuthorThreshold {
		return true, fmt.Sprintf("both_similar_q%.2f_a%.2f", quoteSim, authorSim)
	}

	return false, ""
}
