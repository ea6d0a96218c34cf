package dataset

import (
	"regexp"
	"strings"
)

// InstitutionalBooksRecord represents a record from the Institutional Books 1.0 dataset
// Dataset: https://huggingface.co/datasets/instdin/institutional-books-1.0
type InstitutionalBooksRecord struct {
	BarcodeSource string `json:"barcode_src" parquet:"barcode_src"` // Primary key

	// Catalog metadata used as ground truth
	TitleSource    string `json:"title_src" parquet:"title_src"`
	AuthorSource   string `json:"author_src" parquet:"author_src"`
	Date1Source    string `json:"date1_src" parquet:"date1_src"`
	Date2Source    string `json:"date2_src" parquet:"date2_src"`
	LanguageSource string `json:"language_src" parquet:"language_src"` // ISO 639-3 code

	IdentifiersSource Identifiers `json:"identifiers_src" parquet:"identifiers_src"`
}

// Identifiers contains bibliographic identifiers
type Identifiers struct {
	LCCN []string `json:"lccn" parquet:"lccn,list"`   // Library of Congress Control Numbers
	ISBN []string `json:"isbn" parquet:"isbn,list"`   // International Standard Book Numbers
	OCLC []string `json:"ocolc" parquet:"ocolc,list"` // OCLC Control Numbers
}

var yearPattern = regexp.MustCompile(`[0-9]{4}`)

// GetPrimaryDate returns the primary date for the publication
func (r *InstitutionalBooksRecord) GetPrimaryDate() string {
	if r.Date1Source != "" {
		return r.Date1Source
	}
	return r.Date2Source
}

// GetYear returns the first 4-digit run of the primary date.
// MARC dates such as "19uu" yield "".
func (r *InstitutionalBooksRecord) GetYear() string {
	return yearPattern.FindString(r.GetPrimaryDate())
}

// GetTitle returns the title proper, without the statement of responsibility
// that catalog records append after " / ".
func (r *InstitutionalBooksRecord) GetTitle() string {
	title, _, _ := strings.Cut(r.TitleSource, " /")
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(title), ".:;,"))
}

// GetAuthorSurname returns the heading's surname. Catalog headings are
// "Surname, Forenames, dates" so the part before the first comma is used.
func (r *InstitutionalBooksRecord) GetAuthorSurname() string {
	author := strings.TrimSpace(r.AuthorSource)
	if author == "" {
		return ""
	}
	if surname, _, ok := strings.Cut(author, ","); ok {
		return strings.TrimSpace(surname)
	}
	fields := strings.Fields(author)
	return strings.TrimRight(fields[len(fields)-1], ".")
}

// SearchQuery builds the free-text query "surname title year", leaving out
// whatever parts the record lacks.
func (r *InstitutionalBooksRecord) SearchQuery() string {
	var parts []string
	for _, p := range []string{r.GetAuthorSurname(), r.GetTitle(), r.GetYear()} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
