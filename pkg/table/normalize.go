package table

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeLabel canonicalizes an arbitrary header or label into the
// restricted identifier alphabet [0-9a-z_]: accents stripped, lowercased,
// every run of other characters collapsed to a single underscore, leading
// and trailing underscores removed.
//
// Total and idempotent: it never fails, and applying it twice equals
// applying it once.
func NormalizeLabel(s string) string {
	folded, _, _ := transform.String(stripMarks, strings.TrimSpace(s))
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	underscore := false
	for _, r := range folded {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') {
			b.WriteRune(r)
			underscore = false
		} else if !underscore {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}
