package match

import (
	"slices"
	"strconv"
)

// Verdict classifies the query tokens left over after alignment
type Verdict struct {
	MatchedAuthor    bool     `json:"matched_author" yaml:"matched_author"`
	MatchedYear      bool     `json:"matched_year" yaml:"matched_year"`
	HasYearLikeToken bool     `json:"has_year_like_token" yaml:"has_year_like_token"`
	Unexplained      []string `json:"unexplained,omitempty" yaml:"unexplained,omitempty"`
}

// YearMismatch reports whether the query states a year and none of the stated
// years is known for the record.
func (v Verdict) YearMismatch() bool {
	return v.HasYearLikeToken && !v.MatchedYear
}

// Classify sorts each remainder token into author, year or unexplained
func Classify(remainder, authors, years []string) Verdict {
	var v Verdict
	if len(remainder) == 0 {
		return v
	}

	names := authorTokens(authors)
	for _, tok := range remainder {
		switch {
		case slices.Contains(names, tok):
			v.MatchedAuthor = true
		case isYearLike(tok):
			v.HasYearLikeToken = true
			if slices.Contains(years, tok) {
				v.MatchedYear = true
			} else {
				v.Unexplained = append(v.Unexplained, tok)
			}
		default:
			v.Unexplained = append(v.Unexplained, tok)
		}
	}
	return v
}

// HasAuthor reports whether word is a whole token of any normalized author name
func HasAuthor(authors []string, word string) bool {
	return slices.Contains(authorTokens(authors), word)
}

func authorTokens(authors []string) []string {
	var toks []string
	for _, a := range authors {
		toks = append(toks, Tokenize(Normalize(a))...)
	}
	return toks
}

func isYearLike(tok string) bool {
	if len(tok) != 4 {
		return false
	}
	_, err := strconv.Atoi(tok)
	return err == nil
}
