// Package search runs a query through every configured source and keeps the
// candidates each source's policy accepts.
package search

import (
	"context"
	"log/slog"

	"github.com/lehigh-university-libraries/citematch/internal/match"
	"github.com/lehigh-university-libraries/citematch/internal/models"
	"github.com/lehigh-university-libraries/citematch/internal/sources"
	"golang.org/x/sync/errgroup"
)

// Pipeline pairs a source with the policy that filters its candidates
type Pipeline struct {
	Source sources.Source
	Policy match.Policy
}

// Failure records a pipeline whose source could not be queried. Source is
// the policy tag of the pipeline.
type Failure struct {
	Source string `json:"source" yaml:"source"`
	Err    error  `json:"-" yaml:"-"`
}

// Result holds the accepted matches of every pipeline in pipeline order
type Result struct {
	Query    string         `json:"query" yaml:"query"`
	Matches  []models.Match `json:"matches" yaml:"matches"`
	Failures []Failure      `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Labels returns the display string of every match in order
func (r Result) Labels() []string {
	labels := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		labels = append(labels, m.Label)
	}
	return labels
}

// Explanation is the decision taken for one candidate of one pipeline
type Explanation struct {
	Source   string                 `json:"source" yaml:"source"`
	Record   models.CandidateRecord `json:"record" yaml:"record"`
	Decision match.Decision         `json:"decision" yaml:"decision"`
}

type Service struct {
	pipelines []Pipeline
}

// NewService builds a service over the given pipelines. Matches are reported
// in the order the pipelines are listed.
func NewService(pipelines ...Pipeline) *Service {
	return &Service{pipelines: pipelines}
}

// NewDefaultService wires Crossref under the lenient policy followed by
// WorldCat under the strict one.
func NewDefaultService(crossref, worldcat sources.Source) *Service {
	return NewService(
		Pipeline{Source: crossref, Policy: match.Crossref},
		Pipeline{Source: worldcat, Policy: match.WorldCat},
	)
}

// Search fetches from every source concurrently. A failing source only drops
// its own matches; the failure is reported in Result.Failures.
func (s *Service) Search(ctx context.Context, query string) Result {
	fetched := s.fetchAll(ctx, query)

	res := Result{Query: query}
	for i, p := range s.pipelines {
		if fetched[i].err != nil {
			res.Failures = append(res.Failures, Failure{Source: p.Policy.Source, Err: fetched[i].err})
			continue
		}
		res.Matches = append(res.Matches, p.Policy.Filter(query, fetched[i].records)...)
	}
	return res
}

// Explain fetches like Search and also returns the decision taken for every
// candidate, accepted or not.
func (s *Service) Explain(ctx context.Context, query string) (Result, []Explanation) {
	fetched := s.fetchAll(ctx, query)

	res := Result{Query: query}
	var explanations []Explanation
	for i, p := range s.pipelines {
		if fetched[i].err != nil {
			res.Failures = append(res.Failures, Failure{Source: p.Policy.Source, Err: fetched[i].err})
			continue
		}
		toks := p.Policy.QueryTokens(query)
		for _, rec := range fetched[i].records {
			d := p.Policy.Evaluate(toks, rec)
			explanations = append(explanations, Explanation{Source: p.Policy.Source, Record: rec, Decision: d})
			if d.Accepted {
				res.Matches = append(res.Matches, models.Match{Source: p.Policy.Source, Label: p.Policy.Label(rec), Record: rec})
			}
		}
	}
	return res, explanations
}

type fetchResult struct {
	records []models.CandidateRecord
	err     error
}

func (s *Service) fetchAll(ctx context.Context, query string) []fetchResult {
	out := make([]fetchResult, len(s.pipelines))

	var g errgroup.Group
	for i, p := range s.pipelines {
		g.Go(func() error {
			records, err := p.Source.Fetch(ctx, query)
			if err != nil {
				slog.Warn("Source failed", "source", p.Source.Name(), "query", query, "err", err)
			} else {
				slog.Debug("Source returned candidates", "source", p.Source.Name(), "count", len(records))
			}
			out[i] = fetchResult{records: records, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
