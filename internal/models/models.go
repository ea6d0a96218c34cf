package models

import "slices"

// CandidateRecord represents one bibliographic entry returned by a source for a query
type CandidateRecord struct {
	Title       string      `json:"title" yaml:"title"`
	Subtitle    string      `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Authors     []string    `json:"authors" yaml:"authors"`
	Years       []string    `json:"years" yaml:"years"` // 4-digit years, deduplicated
	Identifiers Identifiers `json:"identifiers" yaml:"identifiers"`
}

// Identifiers holds the record identifiers a source exposes
type Identifiers struct {
	DOI  string   `json:"doi,omitempty" yaml:"doi,omitempty"`
	ISBN []string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	OCLC string   `json:"oclc,omitempty" yaml:"oclc,omitempty"`
	URL  string   `json:"url,omitempty" yaml:"url,omitempty"`
}

// Match is a candidate record accepted by a source's policy
type Match struct {
	Source string          `json:"source" yaml:"source"`
	Label  string          `json:"label" yaml:"label"`
	Record CandidateRecord `json:"record" yaml:"record"`
}

// HasYear reports whether year is one of the record's known publication years
func (r CandidateRecord) HasYear(year string) bool {
	return slices.Contains(r.Years, year)
}

// EarliestYear returns the smallest known year, or "" when none is known.
// Years are fixed-width so string order is numeric order.
func (r CandidateRecord) EarliestYear() string {
	if len(r.Years) == 0 {
		return ""
	}
	return slices.Min(r.Years)
}

// AddYear appends year unless it is already present
func (r *CandidateRecord) AddYear(year string) {
	if year == "" || r.HasYear(year) {
		return
	}
	r.Years = append(r.Years, year)
}
