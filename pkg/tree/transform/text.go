package transform

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer decomposes text and strips combining marks, so accented
// and unaccented spellings of the same word compare equal.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeText produces the canonical form used solely for duplicate
// comparison: trim, case-fold, collapse internal whitespace, strip
// diacritics for scripts that carry them. It is never written back into
// a node.
func NormalizeText(s string) string {
	s = CollapseWhitespace(s)
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		s = folded
	}
	return s
}

// CollapseWhitespace trims s and replaces every internal whitespace run
// with a single space.
func CollapseWhitespace(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
