package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases text, folds diacritics and collapses whitespace. Utterances,
// template literals and vocabulary terms all pass through it so they compare in the
// same space.
func Normalize(text string) string {
	text = strings.ToLower(text)

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		result = text
	}

	result = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r), unicode.IsSpace(r):
			return ' '
		case r == ';' || r == '!' || r == '?' || r == '"':
			return ' '
		}
		return r
	}, result)

	result = strings.Join(strings.Fields(result), " ")
	return strings.TrimRight(result, ". ")
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
