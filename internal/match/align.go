package match

import "slices"

// Alignment is the span [Start, End) of query tokens that lines up with the
// beginning of a candidate's title tokens.
type Alignment struct {
	Start int  `json:"start" yaml:"start"`
	End   int  `json:"end" yaml:"end"`
	Found bool `json:"found" yaml:"found"`
}

// Align finds the query span that matches a prefix of title.
//
// Every start offset is tried with spans from longest to shortest. A matching
// span replaces the current best when its length exceeds the best span's end
// offset, not the best span's length. Accepted results for real query/title
// pairs are pinned to this selection.
func Align(query, title []string) Alignment {
	best := Alignment{}
	for i := range query {
		for l := len(query) - i; l > 0; l-- {
			if l > len(title) {
				continue
			}
			if !slices.Equal(query[i:i+l], title[:l]) {
				continue
			}
			if l > best.End {
				best = Alignment{Start: i, End: i + l, Found: true}
			}
		}
	}
	return best
}

// Remainder returns the query tokens outside the aligned span, in query order
func (a Alignment) Remainder(query []string) []string {
	if !a.Found {
		return nil
	}
	rem := make([]string, 0, len(query)-(a.End-a.Start))
	rem = append(rem, query[:a.Start]...)
	return append(rem, query[a.End:]...)
}

// Span returns the aligned query tokens
func (a Alignment) Span(query []string) []string {
	if !a.Found {
		return nil
	}
	return query[a.Start:a.End]
}
