package sources

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/lehigh-university-libraries/citematch/internal/models"
)

const (
	WorldCatName       = "worldcat"
	DefaultWorldCatURL = "https://www.worldcat.org"
)

var yearPattern = regexp.MustCompile(`[0-9]{4}`)

// WorldCat scrapes the WorldCat brief results page
type WorldCat struct {
	cfg        Config
	httpClient *http.Client
}

// NewWorldCat creates a new WorldCat source
func NewWorldCat(cfg Config) *WorldCat {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultWorldCatURL
	}
	return &WorldCat{
		cfg:        cfg,
		httpClient: newHTTPClient(cfg),
	}
}

func (w *WorldCat) Name() string { return WorldCatName }

// Fetch fetches candidate records from WorldCat
func (w *WorldCat) Fetch(ctx context.Context, query string) ([]models.CandidateRecord, error) {
	base := strings.TrimRight(w.cfg.BaseURL, "/")
	searchURL := base + "/search?q=" + url.QueryEscape(query)

	body, err := get(ctx, w.httpClient, WorldCatName, w.cfg.UserAgent, searchURL, "text/html")
	if err != nil {
		return nil, err
	}

	records, err := ParseWorldCatResults(body, base)
	if err != nil {
		return nil, &UnavailableError{Source: WorldCatName, Stage: "decode", Err: err}
	}

	slog.Debug("Fetched WorldCat candidates", "query", query, "records", len(records))
	return records, nil
}

// ParseWorldCatResults extracts candidate records from a brief results page.
// Result cells missing a title, author line or publication year are skipped.
func ParseWorldCatResults(page []byte, baseURL string) ([]models.CandidateRecord, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse WorldCat HTML: %w", err)
	}

	var records []models.CandidateRecord
	for i, cell := range findAll(doc, isResultCell) {
		rec, err := parseResultCell(cell, baseURL)
		if err != nil {
			slog.Debug("Skipping WorldCat result", "index", i, "err", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseResultCell(cell *html.Node, baseURL string) (models.CandidateRecord, error) {
	link := findFirst(cell, func(n *html.Node) bool {
		return n.DataAtom == atom.A && strings.Contains(attr(n, "href"), "brief_results")
	})
	if link == nil {
		return models.CandidateRecord{}, fmt.Errorf("%w: missing title link", ErrMalformedCandidate)
	}
	strong := findFirst(link, func(n *html.Node) bool { return n.DataAtom == atom.Strong })
	if strong == nil {
		return models.CandidateRecord{}, fmt.Errorf("%w: missing title", ErrMalformedCandidate)
	}
	title := strings.TrimSpace(textContent(strong))
	if title == "" {
		return models.CandidateRecord{}, fmt.Errorf("%w: empty title", ErrMalformedCandidate)
	}

	authorDiv := findFirst(cell, func(n *html.Node) bool {
		return n.DataAtom == atom.Div && hasClass(n, "author")
	})
	if authorDiv == nil {
		return models.CandidateRecord{}, fmt.Errorf("%w: missing author line", ErrMalformedCandidate)
	}
	authors := splitAuthors(textContent(authorDiv))

	year := yearPattern.FindString(publicationText(cell))
	if year == "" {
		return models.CandidateRecord{}, fmt.Errorf("%w: missing publication year", ErrMalformedCandidate)
	}

	rec := models.CandidateRecord{
		Title:   title,
		Authors: authors,
		Years:   []string{year},
	}
	if href := attr(link, "href"); href != "" {
		rec.Identifiers.URL = resolve(baseURL, href)
		rec.Identifiers.OCLC = oclcNumber(href)
	}
	return rec, nil
}

// publicationText prefers the publisher span and falls back to the
// "Publication:" line used for serials.
func publicationText(cell *html.Node) string {
	if span := findFirst(cell, func(n *html.Node) bool {
		return n.DataAtom == atom.Span && hasClass(n, "itemPublisher")
	}); span != nil {
		return textContent(span)
	}
	if div := findFirst(cell, func(n *html.Node) bool {
		return n.DataAtom == atom.Div && strings.HasPrefix(strings.TrimSpace(textContent(n)), "Publication:")
	}); div != nil {
		return textContent(div)
	}
	return ""
}

func splitAuthors(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "by ")
	authors := []string{}
	for _, a := range strings.Split(line, ";") {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}

// oclcNumber extracts the OCLC number from a "/title/.../oclc/123" link
func oclcNumber(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "oclc" {
			return parts[i+1]
		}
	}
	return ""
}

func resolve(baseURL, href string) string {
	b, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}

func isResultCell(n *html.Node) bool {
	return n.DataAtom == atom.Td && hasClass(n, "result") && hasClass(n, "details")
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			found = append(found, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			return c
		}
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
