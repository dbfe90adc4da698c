package model

import (
	"strings"
	"unicode/utf8"
)

// MaxAcronymLength is the maximum number of characters of a Secretariat acronym
const MaxAcronymLength = 20

// DeriveAcronym builds the acronym of a secretariat created by the importer. A
// single-word name is used whole; a compound name contributes the first letter of
// each word. The result is upper-cased and cut to MaxAcronymLength characters.
func DeriveAcronym(name string) string {
	words := strings.Fields(strings.ToUpper(name))
	switch len(words) {
	case 0:
		return ""
	case 1:
		return truncateRunes(words[0], MaxAcronymLength)
	}

	var b strings.Builder
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(r)
	}
	return truncateRunes(b.String(), MaxAcronymLength)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
