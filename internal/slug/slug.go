// Package slug implements the identifier used for posts and projects in
// URLs. Slugs may contain letters and digits from any script, so titles in
// Chinese, Japanese or Cyrillic keep a readable address.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Pattern matches a route token: one or more word characters (letters and
// marks of any script, digits, underscore) or hyphens.
// Combining marks are accepted so that slugs produced by Generate from
// decomposed or Indic-script titles always route; this is wider than a
// Python-style \w. The token is only ever an exact-match lookup key.
var Pattern = regexp.MustCompile(`^[\p{L}\p{M}\p{N}_-]+$`)

// Generate creates a slug from a free-text title.
// Example: "Hello, 世界 2026!" → "hello-世界-2026"
func Generate(s string) string {
	// cases.Caser keeps state between calls and is not safe to share.
	s = cases.Lower(language.Und).String(norm.NFKC.String(s))

	var b strings.Builder
	b.Grow(len(s))
	separate := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsMark(r), unicode.IsNumber(r):
			if separate && b.Len() > 0 {
				b.WriteByte('-')
			}
			separate = false
			b.WriteRune(r)
		case r == '-', unicode.IsSpace(r):
			separate = true
		}
	}
	return b.String()
}

// Valid reports whether s can appear as a slug path segment. Values are
// looked up verbatim; Valid does not require s to be a Generate output.
func Valid(s string) bool {
	return Pattern.MatchString(s)
}
