package results

import (
	"os"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/citematch/internal/eval/metrics"
	"github.com/lehigh-university-libraries/citematch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleAggregate() *metrics.AggregateResults {
	return metrics.AggregateEvaluationResults([]metrics.EvaluationResult{
		{
			Barcode: "123",
			Title:   "General Theory",
			Query:   "Smith General Theory 1999",
			Matches: []models.Match{{
				Source: "CrossRef",
				Label:  "General Theory (1999) John Smith (CrossRef)",
				Record: models.CandidateRecord{Title: "General Theory"},
			}},
			HitSources:    []string{"CrossRef"},
			FailedSources: []string{"WorldCat"},
		},
		{Barcode: "456", Error: "Record has no title"},
	}, []string{"CrossRef", "WorldCat"})
}

func TestBuildDocument(t *testing.T) {
	now := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	doc := BuildDocument("books.parquet", 2, sampleAggregate(), now)

	assert.Equal(t, "2024-03-04_05-06-07", doc.Config.Timestamp)
	assert.Equal(t, 1, doc.Summary.Searched)
	assert.Equal(t, 1, doc.Summary.Skipped)
	assert.Equal(t, 1.0, doc.Summary.HitRate)
	assert.Equal(t, map[string]float64{"CrossRef": 1, "WorldCat": 0}, doc.Summary.Sources)

	require.Len(t, doc.Results, 2)
	assert.Equal(t, []string{"General Theory (1999) John Smith (CrossRef)"}, doc.Results[0].Matches)
	assert.Equal(t, []string{"WorldCat"}, doc.Results[0].Failures)
	assert.Equal(t, "Record has no title", doc.Results[1].Error)
	assert.Empty(t, doc.Results[1].Matches)
}

func TestSaveToYAML(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveToYAML(dir, "books.parquet", 2, sampleAggregate())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc EvalDocument
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "books.parquet", doc.Config.DatasetPath)
	assert.Equal(t, "Smith General Theory 1999", doc.Results[0].Query)
}
