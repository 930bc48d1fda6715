// Package textutil holds Turkish-aware string helpers for lookup keys and URL slugs.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var asciiFold = strings.NewReplacer(
	"ç", "c", "ğ", "g", "ı", "i", "ö", "o", "ş", "s", "ü", "u",
)

// turkishLower lower-cases with Turkish dotted/dotless i rules. A Caser
// keeps state, so each call gets its own.
func turkishLower(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

// Key lower-cases s with Turkish rules and collapses inner whitespace, so
// "İSTANBUL " and "istanbul" compare equal.
func Key(s string) string {
	return strings.Join(strings.Fields(turkishLower(s)), " ")
}

// Slugify turns a title into a lowercase ASCII, dash separated URL segment.
func Slugify(s string) string {
	folded := asciiFold.Replace(turkishLower(s))

	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(stripMarks, folded); err == nil {
		folded = out
	}

	var b strings.Builder
	dash := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
