package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/citematch/internal/eval/metrics"
	"gopkg.in/yaml.v3"
)

// EvalConfig represents the configuration section of the eval YAML
type EvalConfig struct {
	DatasetPath string `yaml:"datasetpath"`
	SampleSize  int    `yaml:"samplesize"`
	Timestamp   string `yaml:"timestamp"`
}

// EvalSummary holds the aggregate hit rates
type EvalSummary struct {
	Searched int                `yaml:"searched"`
	Skipped  int                `yaml:"skipped"`
	HitRate  float64            `yaml:"hitrate"`
	Sources  map[string]float64 `yaml:"sources"`
}

// EvalResult represents a single evaluation result
type EvalResult struct {
	Identifier string   `yaml:"identifier"`
	Title      string   `yaml:"title"`
	Author     string   `yaml:"author,omitempty"`
	Query      string   `yaml:"query"`
	Matches    []string `yaml:"matches"`
	Hits       []string `yaml:"hits,omitempty"`
	Failures   []string `yaml:"failures,omitempty"`
	Error      string   `yaml:"error,omitempty"`
}

// EvalDocument represents the complete evaluation file
type EvalDocument struct {
	Config  EvalConfig   `yaml:"config"`
	Summary EvalSummary  `yaml:"summary"`
	Results []EvalResult `yaml:"results"`
}

// BuildDocument converts aggregated results into the YAML document layout
func BuildDocument(datasetPath string, sampleSize int, agg *metrics.AggregateResults, now time.Time) EvalDocument {
	doc := EvalDocument{
		Config: EvalConfig{
			DatasetPath: datasetPath,
			SampleSize:  sampleSize,
			Timestamp:   now.Format("2006-01-02_15-04-05"),
		},
		Summary: EvalSummary{
			Searched: agg.SearchedCount,
			Skipped:  agg.SkippedCount,
			HitRate:  agg.HitRate,
			Sources:  make(map[string]float64, len(agg.Sources)),
		},
		Results: make([]EvalResult, 0, len(agg.Results)),
	}
	for name, s := range agg.Sources {
		doc.Summary.Sources[name] = s.HitRate
	}

	for _, r := range agg.Results {
		labels := make([]string, 0, len(r.Matches))
		for _, m := range r.Matches {
			labels = append(labels, m.Label)
		}
		doc.Results = append(doc.Results, EvalResult{
			Identifier: r.Barcode,
			Title:      r.Title,
			Author:     r.Author,
			Query:      r.Query,
			Matches:    labels,
			Hits:       r.HitSources,
			Failures:   r.FailedSources,
			Error:      r.Error,
		})
	}
	return doc
}

// SaveToYAML writes the evaluation to dir and returns the file's absolute path
func SaveToYAML(dir, datasetPath string, sampleSize int, agg *metrics.AggregateResults) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", dir, err)
	}

	doc := BuildDocument(datasetPath, sampleSize, agg, time.Now())
	filename := filepath.Join(dir, fmt.Sprintf("citematch-%s.yaml", doc.Config.Timestamp))

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return filename, nil
	}
	return absPath, nil
}
