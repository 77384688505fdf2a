package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeCell prepares raw cell text for numeric and year matching.
// OCR output from scanned publications carries full-width digits,
// combining marks and stray control characters; NFKC folds the
// compatibility forms and the rest is trimmed away, with inner runs of
// whitespace collapsed to a single space.
func NormalizeCell(s string) string {
	s = norm.NFKC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsControl(r) || r == '�':
			// drop
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}
