package dataset

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripFormat NFC-normalizes and removes format runes (zero-width spaces and
// friends, common in Thai spreadsheet exports). Combining marks are kept:
// Thai vowels and tone marks live in the Mn category.
var stripFormat = transform.Chain(norm.NFC, runes.Remove(runes.In(unicode.Cf)))

// NormalizeText canonicalizes a header or province cell before matching:
// Unicode NFC, format runes removed, all whitespace runs (including embedded
// newlines) collapsed to single spaces, ends trimmed.
func NormalizeText(s string) string {
	out, _, err := transform.String(stripFormat, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(out), " ")
}
