package match

import (
	"strings"

	"github.com/lehigh-university-libraries/citematch/internal/models"
)

// Decision reasons
const (
	ReasonNoAlignment  = "no_alignment"
	ReasonExact        = "exact"
	ReasonExplained    = "explained"
	ReasonYearMismatch = "year_mismatch"
	ReasonUnexplained  = "unexplained_tokens"
)

// Policy is the acceptance rule for one source
type Policy struct {
	// Source is the tag appended to labels of accepted records
	Source string
	// UseSubtitle appends subtitle tokens to the title tokens
	UseSubtitle bool
	// AuthorExcuses lets an author match excuse unexplained leftover words
	AuthorExcuses bool
}

var (
	// Crossref accepts leftover words as long as an author was matched
	Crossref = Policy{Source: "CrossRef", UseSubtitle: true, AuthorExcuses: true}
	// WorldCat rejects any unexplained leftover word
	WorldCat = Policy{Source: "WorldCat"}
)

// Decision is the outcome of evaluating one candidate
type Decision struct {
	Accepted  bool      `json:"accepted" yaml:"accepted"`
	Reason    string    `json:"reason" yaml:"reason"`
	Alignment Alignment `json:"alignment" yaml:"alignment"`
	Remainder []string  `json:"remainder,omitempty" yaml:"remainder,omitempty"`
	Verdict   Verdict   `json:"verdict" yaml:"verdict"`
}

// QueryTokens prepares raw query text for alignment
func (p Policy) QueryTokens(query string) []string {
	return prepare(query)
}

// TitleTokens prepares a record's title, and subtitle when the policy uses it
func (p Policy) TitleTokens(rec models.CandidateRecord) []string {
	title := Normalize(foldColons(rec.Title))
	toks := dropAnd(Tokenize(title))
	if !p.UseSubtitle {
		return toks
	}
	sub := Normalize(foldColons(rec.Subtitle))
	if sub == "" || sub == title {
		return toks
	}
	return append(toks, dropAnd(Tokenize(sub))...)
}

// Evaluate decides whether rec matches the prepared query tokens
func (p Policy) Evaluate(query []string, rec models.CandidateRecord) Decision {
	align := Align(query, p.TitleTokens(rec))
	if !align.Found {
		return Decision{Reason: ReasonNoAlignment}
	}

	d := Decision{Alignment: align, Remainder: align.Remainder(query)}
	if len(d.Remainder) == 0 {
		d.Accepted = true
		d.Reason = ReasonExact
		return d
	}

	d.Verdict = Classify(d.Remainder, rec.Authors, rec.Years)
	switch {
	case d.Verdict.YearMismatch():
		d.Reason = ReasonYearMismatch
	case len(d.Verdict.Unexplained) == 0:
		d.Accepted = true
		d.Reason = ReasonExplained
	case p.AuthorExcuses && d.Verdict.MatchedAuthor:
		d.Accepted = true
		d.Reason = ReasonExplained
	default:
		d.Reason = ReasonUnexplained
	}
	return d
}

// Filter returns the accepted records in their original order
func (p Policy) Filter(query string, records []models.CandidateRecord) []models.Match {
	toks := p.QueryTokens(query)
	var matches []models.Match
	for _, rec := range records {
		if !p.Evaluate(toks, rec).Accepted {
			continue
		}
		matches = append(matches, models.Match{
			Source: p.Source,
			Label:  p.Label(rec),
			Record: rec,
		})
	}
	return matches
}

// Label formats an accepted record tagged with the policy's source
func (p Policy) Label(rec models.CandidateRecord) string {
	return Format(rec) + " (" + p.Source + ")"
}

// Format renders "title (year) author, author", omitting empty parts
func Format(rec models.CandidateRecord) string {
	var b strings.Builder
	b.WriteString(rec.Title)
	if y := rec.EarliestYear(); y != "" {
		b.WriteString(" (" + y + ")")
	}
	if len(rec.Authors) > 0 {
		b.WriteString(" " + strings.Join(rec.Authors, ", "))
	}
	return b.String()
}

func prepare(text string) []string {
	return dropAnd(Tokenize(Normalize(foldColons(text))))
}

func foldColons(s string) string {
	return strings.ReplaceAll(s, ":", " ")
}

func dropAnd(toks []string) []string {
	out := toks[:0]
	for _, t := range toks {
		if t != "and" {
			out = append(out, t)
		}
	}
	return out
}
