// Package match decides whether a catalog record returned for a free-text
// bibliographic query is a genuine hit for that query.
//
// Query and title are normalized and tokenized, the longest run of query words
// that matches the start of the title is located, and the query words left over
// must be explained by an author name or a publication year of the record.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize strips everything but letters, ASCII digits and spaces, folds the
// text through NFKD so accented letters lose their combining marks, and
// lowercases it.
func Normalize(text string) string {
	text = strings.Map(keepRune, text)
	text = norm.NFKD.String(text)
	// Lowercasing before the second pass keeps the result stable when a
	// lowercase mapping itself introduces a combining mark (U+0130).
	text = strings.ToLower(text)
	return strings.Map(keepRune, text)
}

func keepRune(r rune) rune {
	if r == ' ' || (r >= '0' && r <= '9') || unicode.IsLetter(r) {
		return r
	}
	return -1
}

// Tokenize splits normalized text on whitespace, dropping empty segments
func Tokenize(text string) []string {
	return strings.Fields(text)
}
