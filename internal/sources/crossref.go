package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/citematch/internal/models"
)

const (
	CrossrefName       = "crossref"
	DefaultCrossrefURL = "https://api.crossref.org"
	defaultCrossrefRow = 10
)

// Crossref queries the Crossref REST API works endpoint
type Crossref struct {
	cfg        Config
	httpClient *http.Client
}

// NewCrossref creates a new Crossref source
func NewCrossref(cfg Config) *Crossref {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultCrossrefURL
	}
	if cfg.Rows <= 0 {
		cfg.Rows = defaultCrossrefRow
	}
	return &Crossref{
		cfg:        cfg,
		httpClient: newHTTPClient(cfg),
	}
}

func (c *Crossref) Name() string { return CrossrefName }

type crossrefDate struct {
	DateParts [][]*int `json:"date-parts"`
}

// year returns the first date part as a 4-digit year, or ""
func (d *crossrefDate) year() string {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 || d.DateParts[0][0] == nil {
		return ""
	}
	y := strconv.Itoa(*d.DateParts[0][0])
	if len(y) != 4 {
		return ""
	}
	return y
}

type crossrefResponse struct {
	Status  string `json:"status"`
	Message struct {
		Items []crossrefItem `json:"items"`
	} `json:"message"`
}

type crossrefItem struct {
	Title           []string      `json:"title"`
	Subtitle        []string      `json:"subtitle"`
	ISBN            []string      `json:"ISBN"`
	DOI             string        `json:"DOI"`
	URL             string        `json:"URL"`
	PublishedOnline *crossrefDate `json:"published-online"`
	PublishedPrint  *crossrefDate `json:"published-print"`
	Published       *crossrefDate `json:"published"`
	Issued          *crossrefDate `json:"issued"`
	Author          []struct {
		Given  string `json:"given"`
		Family string `json:"family"`
		Name   string `json:"name"` // organizational authors
	} `json:"author"`
}

// Fetch fetches candidate records from Crossref
func (c *Crossref) Fetch(ctx context.Context, query string) ([]models.CandidateRecord, error) {
	params := url.Values{}
	params.Set("query.bibliographic", query)
	params.Set("rows", strconv.Itoa(c.cfg.Rows))
	if c.cfg.Mailto != "" {
		params.Set("mailto", c.cfg.Mailto)
	}
	searchURL := strings.TrimRight(c.cfg.BaseURL, "/") + "/works?" + params.Encode()

	body, err := get(ctx, c.httpClient, CrossrefName, c.cfg.UserAgent, searchURL, "application/json")
	if err != nil {
		return nil, err
	}

	var resp crossrefResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &UnavailableError{Source: CrossrefName, Stage: "decode", Err: fmt.Errorf("failed to decode Crossref response: %w", err)}
	}

	records := make([]models.CandidateRecord, 0, len(resp.Message.Items))
	for i, item := range resp.Message.Items {
		rec, err := item.record()
		if err != nil {
			slog.Debug("Skipping Crossref item", "index", i, "doi", item.DOI, "err", err)
			continue
		}
		records = append(records, rec)
	}

	slog.Debug("Fetched Crossref candidates", "query", query, "items", len(resp.Message.Items), "records", len(records))
	return records, nil
}

func (item crossrefItem) record() (models.CandidateRecord, error) {
	if len(item.Title) == 0 || strings.TrimSpace(item.Title[0]) == "" {
		return models.CandidateRecord{}, fmt.Errorf("%w: missing title", ErrMalformedCandidate)
	}

	rec := models.CandidateRecord{
		Title:   item.Title[0],
		Authors: []string{},
		Identifiers: models.Identifiers{
			DOI:  item.DOI,
			ISBN: item.ISBN,
			URL:  item.URL,
		},
	}
	if len(item.Subtitle) > 0 {
		rec.Subtitle = item.Subtitle[0]
	}

	for _, d := range []*crossrefDate{item.PublishedOnline, item.PublishedPrint, item.Published, item.Issued} {
		rec.AddYear(d.year())
	}

	for _, a := range item.Author {
		name := strings.TrimSpace(strings.TrimSpace(a.Given) + " " + strings.TrimSpace(a.Family))
		if name == "" {
			name = strings.TrimSpace(a.Name)
		}
		if name != "" {
			rec.Authors = append(rec.Authors, name)
		}
	}
	return rec, nil
}
