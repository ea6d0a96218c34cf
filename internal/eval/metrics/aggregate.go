package metrics

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/citematch/internal/match"
	"github.com/lehigh-university-libraries/citematch/internal/models"
)

// EvaluationResult represents the search outcome for a single dataset record
type EvaluationResult struct {
	Barcode        string
	Title          string
	Author         string
	Query          string
	Matches        []models.Match
	HitSources     []string // sources with at least one match for the record's title
	FailedSources  []string
	ProcessingTime time.Duration
	Error          string // If the record could not be searched
}

// Hit reports whether any source matched the record
func (r EvaluationResult) Hit() bool {
	return len(r.HitSources) > 0
}

// AggregateResults represents aggregated evaluation metrics
type AggregateResults struct {
	TotalRecords  int
	SearchedCount int
	SkippedCount  int
	HitCount      int
	HitRate       float64

	Sources map[string]*SourceStats

	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration

	Results []EvaluationResult

	EvaluationDate time.Time
	SampleSize     int
}

// SourceStats contains statistics for one source tag
type SourceStats struct {
	Matches  int     // accepted candidates over all records
	Hits     int     // records with a title hit
	Failures int     // records the source could not answer
	HitRate  float64 // Hits / searched records
}

// TitleHit reports whether the accepted record's title starts with the
// expected title, both compared in normalized token form.
func TitleHit(expected string, m models.Match) bool {
	want := match.Tokenize(match.Normalize(expected))
	if len(want) == 0 {
		return false
	}
	got := match.Tokenize(match.Normalize(m.Record.Title))
	return len(got) >= len(want) && slices.Equal(got[:len(want)], want)
}

// HitSources returns, in first-seen order, the sources with a title hit
func HitSources(expected string, matches []models.Match) []string {
	var sources []string
	for _, m := range matches {
		if TitleHit(expected, m) && !slices.Contains(sources, m.Source) {
			sources = append(sources, m.Source)
		}
	}
	return sources
}

// AggregateEvaluationResults aggregates multiple evaluation results
func AggregateEvaluationResults(results []EvaluationResult, sources []string) *AggregateResults {
	agg := &AggregateResults{
		TotalRecords:   len(results),
		Results:        results,
		EvaluationDate: time.Now(),
		SampleSize:     len(results),
		Sources:        make(map[string]*SourceStats, len(sources)),
	}
	for _, s := range sources {
		agg.Sources[s] = &SourceStats{}
	}

	var totalDuration, searchedDuration time.Duration
	for _, result := range results {
		totalDuration += result.ProcessingTime

		if result.Error != "" {
			agg.SkippedCount++
			continue
		}

		agg.SearchedCount++
		searchedDuration += result.ProcessingTime
		if result.Hit() {
			agg.HitCount++
		}

		for _, m := range result.Matches {
			agg.source(m.Source).Matches++
		}
		for _, s := range result.HitSources {
			agg.source(s).Hits++
		}
		for _, s := range result.FailedSources {
			agg.source(s).Failures++
		}
	}

	if agg.SearchedCount > 0 {
		agg.HitRate = float64(agg.HitCount) / float64(agg.SearchedCount)
		agg.AverageProcessingTime = searchedDuration / time.Duration(agg.SearchedCount)
		for _, s := range agg.Sources {
			s.HitRate = float64(s.Hits) / float64(agg.SearchedCount)
		}
	}
	agg.TotalProcessingTime = totalDuration

	return agg
}

func (a *AggregateResults) source(name string) *SourceStats {
	s, ok := a.Sources[name]
	if !ok {
		s = &SourceStats{}
		a.Sources[name] = s
	}
	return s
}

// PrintSummary writes a human-readable summary of the evaluation
func (a *AggregateResults) PrintSummary(w io.Writer) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 70))
	fmt.Fprintln(w, "CITEMATCH EVALUATION SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "Evaluation Date: %s\n", a.EvaluationDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Sample Size: %d records\n", a.SampleSize)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PROCESSING STATISTICS")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "Searched: %d\n", a.SearchedCount)
	fmt.Fprintf(w, "Skipped: %d\n", a.SkippedCount)
	fmt.Fprintf(w, "Average Processing Time: %s\n", a.AverageProcessingTime)
	fmt.Fprintf(w, "Total Processing Time: %s\n", a.TotalProcessingTime)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PER-SOURCE RESULTS")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	names := make([]string, 0, len(a.Sources))
	for name := range a.Sources {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		s := a.Sources[name]
		fmt.Fprintf(w, "\n%s:\n", name)
		fmt.Fprintf(w, "  Hit Rate: %.2f%% (%d records)\n", s.HitRate*100, s.Hits)
		fmt.Fprintf(w, "  Accepted Candidates: %d\n", s.Matches)
		fmt.Fprintf(w, "  Failures: %d\n", s.Failures)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "OVERALL")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "Hit Rate: %.2f%% (%d/%d)\n", a.HitRate*100, a.HitCount, a.SearchedCount)
	fmt.Fprintln(w, strings.Repeat("=", 70))
}

// SaveToJSON saves the aggregate results to a JSON file
func (a *AggregateResults) SaveToJSON(filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(a); err != nil {
		return fmt.Errorf("failed to encode results to JSON: %w", err)
	}

	return nil
}
