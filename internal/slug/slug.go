// Package slug normalizes titles into URL-safe identifiers.
package slug

import "strings"

// polish maps Polish diacritics onto their ASCII base letters.
var polish = map[rune]rune{
	'ą': 'a', 'ć': 'c', 'ę': 'e', 'ł': 'l', 'ń': 'n',
	'ó': 'o', 'ś': 's', 'ź': 'z', 'ż': 'z',
	'Ą': 'a', 'Ć': 'c', 'Ę': 'e', 'Ł': 'l', 'Ń': 'n',
	'Ó': 'o', 'Ś': 's', 'Ź': 'z', 'Ż': 'z',
}

// Make lowercases s, folds Polish diacritics and collapses every run of
// non-alphanumeric characters into a single hyphen.
func Make(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	hyphen := false
	for _, r := range strings.ToLower(s) {
		if mapped, ok := polish[r]; ok {
			r = mapped
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(r)
		default:
			hyphen = true
		}
	}
	return b.String()
}
