// Package evalcmd runs the search pipeline over Institutional Books records
// and measures how often the catalog title is found.
package evalcmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/citematch/internal/eval/dataset"
	"github.com/lehigh-university-libraries/citematch/internal/eval/metrics"
	resultsutil "github.com/lehigh-university-libraries/citematch/internal/eval/results"
	"github.com/lehigh-university-libraries/citematch/internal/search"
)

// Searcher is the part of search.Service the evaluation needs
type Searcher interface {
	Search(ctx context.Context, query string) search.Result
}

// Options controls an evaluation run
type Options struct {
	DatasetPath string
	Download    string // dataset file to fetch from HuggingFace instead of DatasetPath
	CacheDir    string
	HFToken     string
	SampleSize  int // non-positive evaluates every record
	OutputJSON  string
	OutputDir   string
	Sources     []string
}

// Execute loads the dataset, searches every record and writes the results
func Execute(ctx context.Context, opts Options, searcher Searcher, out io.Writer) (*metrics.AggregateResults, error) {
	slog.Info("Starting citematch evaluation",
		"dataset", opts.DatasetPath,
		"download", opts.Download,
		"sample_size", opts.SampleSize)

	loader, err := newLoader(ctx, opts)
	if err != nil {
		return nil, err
	}

	records, err := loader.LoadSample(opts.SampleSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	slog.Info("Dataset loaded", "records", len(records))

	results := make([]metrics.EvaluationResult, 0, len(records))
	for i, record := range records {
		if err := ctx.Err(); err != nil {
			slog.Warn("Evaluation interrupted", "processed", i, "total", len(records))
			break
		}
		slog.Debug("Processing record", "index", i+1, "total", len(records), "barcode", record.BarcodeSource)
		results = append(results, evaluateRecord(ctx, record, searcher))

		if (i+1)%10 == 0 {
			fmt.Fprintf(out, "Progress: %d/%d records processed\n", i+1, len(records))
		}
	}

	agg := metrics.AggregateEvaluationResults(results, opts.Sources)
	agg.PrintSummary(out)

	if opts.OutputJSON != "" {
		if err := agg.SaveToJSON(opts.OutputJSON); err != nil {
			slog.Warn("Failed to save JSON results", "path", opts.OutputJSON, "err", err)
		} else {
			fmt.Fprintf(out, "\nResults saved to: %s\n", opts.OutputJSON)
		}
	}

	if opts.OutputDir != "" {
		path, err := resultsutil.SaveToYAML(opts.OutputDir, opts.DatasetPath, opts.SampleSize, agg)
		if err != nil {
			slog.Warn("Failed to save YAML results", "dir", opts.OutputDir, "err", err)
		} else {
			fmt.Fprintf(out, "Evaluation results saved to: %s\n", path)
		}
	}

	slog.Info("Evaluation complete", "hit_rate", agg.HitRate)
	return agg, nil
}

func newLoader(ctx context.Context, opts Options) (*dataset.Loader, error) {
	if opts.Download == "" {
		return dataset.NewLoader(opts.DatasetPath), nil
	}
	loader, err := dataset.LoadOrDownload(ctx, opts.Download, dataset.DownloadConfig{
		CacheDir: opts.CacheDir,
		Token:    opts.HFToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download dataset: %w", err)
	}
	return loader, nil
}

// evaluateRecord searches a single dataset record
func evaluateRecord(ctx context.Context, record dataset.InstitutionalBooksRecord, searcher Searcher) metrics.EvaluationResult {
	startTime := time.Now()

	result := metrics.EvaluationResult{
		Barcode: record.BarcodeSource,
		Title:   record.GetTitle(),
		Author:  record.AuthorSource,
		Query:   record.SearchQuery(),
	}

	if result.Title == "" {
		result.Error = "Record has no title"
		result.ProcessingTime = time.Since(startTime)
		return result
	}

	res := searcher.Search(ctx, result.Query)
	result.Matches = res.Matches
	result.HitSources = metrics.HitSources(result.Title, res.Matches)
	for _, f := range res.Failures {
		result.FailedSources = append(result.FailedSources, f.Source)
	}
	result.ProcessingTime = time.Since(startTime)

	slog.Debug("Record searched",
		"barcode", record.BarcodeSource,
		"query", result.Query,
		"matches", len(res.Matches),
		"hits", result.HitSources)

	return result
}
