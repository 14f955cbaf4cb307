package dedup

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSimilarityEmptyRules(t *testing.T) {
	if got := Similarity("", ""); !almostEqual(got, 1.0) {
		t.Fatalf("both empty: got %v, want 1.0", got)
	}
	if got := Similarity("", "something"); !almostEqual(got, 0.0) {
		t.Fatalf("one empty: got %v, want 0.0", got)
	}
	if got := Similarity("something", ""); !almostEqual(got, 0.0) {
		t.Fatalf("one empty: got %v, want 0.0", got)
	}
}

func TestSimilarityIdentical(t *testing.T) {
	if got := Similarity("be yourself", "be yourself"); !almostEqual(got, 1.0) {
		t.Fatalf("identical strings: got %v, want 1.0", got)
	}
}

func TestSimilarityPositionalBranch(t *testing.T) {
	// Lengths 52 and 54: the first 52 runes line up, so 52/54.
	a := "the only way to do great work is to love what you do"
	b := "the only way to do great work is to love what you do!!"
	want := 52.0 / 54.0

	if got := Similarity(a, b); !almostEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := Similarity(b, a); !almostEqual(got, want) {
		t.Fatalf("positional score not symmetric: got %v, want %v", got, want)
	}
}

func TestSimilarityPositionalFragileToEarlyInsertion(t *testing.T) {
	// A single insertion near the front shifts every later rune out of
	// alignment; the score collapses even though the strings read alike.
	a := "stay hungry stay foolish"
	b := "so stay hungry stay fool"

	if got := Similarity(a, b); got > 0.20 {
		t.Fatalf("expected collapsed score for shifted strings, got %v", got)
	}
}

func TestSimilarityWordOverlapBranch(t *testing.T) {
	// Length gap of 8 runes forces the word-overlap branch. Words longer
	// than two runes shared by both sides: life, what, happens, you're,
	// busy, making, other, plans = 8. Score = 2*8/(12+10).
	a := "life is what happens to you while you're busy making other plans"
	b := "what happens in life when you're busy making other plans"
	want := 16.0 / 22.0

	if got := Similarity(a, b); !almostEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSimilarityWordOverlapIgnoresShortWords(t *testing.T) {
	// Every shared word is two runes or shorter, so nothing counts.
	a := "it is so very far up in my"
	b := "is it an old tale"

	if got := Similarity(a, b); !almostEqual(got, 0.0) {
		t.Fatalf("got %v, want 0.0", got)
	}
}

func TestSimilarityBranchSelection(t *testing.T) {
	// Rune-length difference of exactly 3 still uses the positional branch.
	a := "abcdef"
	b := "abcdefghi"
	want := 6.0 / 9.0
	if got := Similarity(a, b); !almostEqual(got, want) {
		t.Fatalf("diff of 3: got %v, want %v (positional)", got, want)
	}

	// A larger gap switches to word overlap.
	c := "alpha beta"
	d := "alpha beta gamma"
	// Shared >2-rune words: alpha, beta. Score = 2*2/(2+3).
	wantWords := 4.0 / 5.0
	if got := Similarity(c, d); !almostEqual(got, wantWords) {
		t.Fatalf("diff over 3: got %v, want %v (word overlap)", got, wantWords)
	}
}
