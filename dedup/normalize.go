package dedup

import "strings"

// punctReplacer maps the smart-punctuation variants that show up in pasted
// quotes to their plain ASCII equivalents.
var punctReplacer = strings.NewReplacer(
	"\n", " ",
	"\t", " ",
	"“", `"`, // left curly double quote
	"”", `"`, // right curly double quote
	"‘", "'", // left curly single quote
	"’", "'", // right curly single quote
	"—", "-", // em dash
	"–", "-", // en dash
	"…", "...", // horizontal ellipsis
)

// Normalize prepares quote or author text for fuzzy comparison: trims,
// lower-cases, canonicalizes smart punctuation, collapses all whitespace runs
// to single spaces and strips the trailing run of periods and spaces.
// Stripping all trailing periods absorbs attribution variants like "Twain."
// or "Twain..", at the cost of also truncating quotes that legitimately end
// in several periods. That loss is accepted.
//
// Normalize is pure and idempotent: the result never ends in a period or a
// space, so a second pass finds nothing left to strip. The trim runs after
// the whitespace collapse so space-separated trailing periods ("a. .") fall
// away in a single pass.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	s := strings.ToLower(strings.TrimSpace(text))
	s = punctReplacer.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimRight(s, ". ")
}
