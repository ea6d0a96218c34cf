package evalcmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/citematch/internal/models"
	"github.com/lehigh-university-libraries/citematch/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	queries []string
}

func (s *stubSearcher) Search(ctx context.Context, query string) search.Result {
	s.queries = append(s.queries, query)
	if query == "Keynes The general theory of employment, interest and money 1936" {
		return search.Result{
			Query: query,
			Matches: []models.Match{{
				Source: "CrossRef",
				Label:  "The General Theory of Employment, Interest and Money (1936) John Maynard Keynes (CrossRef)",
				Record: models.CandidateRecord{Title: "The General Theory of Employment, Interest and Money"},
			}},
			Failures: []search.Failure{{Source: "WorldCat", Err: errors.New("down")}},
		}
	}
	return search.Result{Query: query}
}

const evalFixture = `{"barcode_src":"1","title_src":"The general theory of employment, interest and money / by John Maynard Keynes.","author_src":"Keynes, John Maynard, 1883-1946.","date1_src":"1936"}
{"barcode_src":"2","title_src":"Leaves of grass.","author_src":"Whitman, Walt, 1819-1892.","date1_src":"1855"}
{"barcode_src":"3","title_src":"","author_src":"Nobody"}
`

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	datasetPath := filepath.Join(dir, "books.jsonl")
	require.NoError(t, os.WriteFile(datasetPath, []byte(evalFixture), 0644))

	stub := &stubSearcher{}
	var out bytes.Buffer
	agg, err := Execute(context.Background(), Options{
		DatasetPath: datasetPath,
		OutputJSON:  filepath.Join(dir, "results.json"),
		OutputDir:   filepath.Join(dir, "evals"),
		Sources:     []string{"CrossRef", "WorldCat"},
	}, stub, &out)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Keynes The general theory of employment, interest and money 1936",
		"Whitman Leaves of grass 1855",
	}, stub.queries)

	assert.Equal(t, 3, agg.TotalRecords)
	assert.Equal(t, 2, agg.SearchedCount)
	assert.Equal(t, 1, agg.SkippedCount)
	assert.Equal(t, 1, agg.HitCount)
	assert.Equal(t, 1, agg.Sources["CrossRef"].Hits)
	assert.Equal(t, 1, agg.Sources["WorldCat"].Failures)
	assert.Contains(t, out.String(), "CITEMATCH EVALUATION SUMMARY")

	assert.FileExists(t, filepath.Join(dir, "results.json"))
	entries, err := os.ReadDir(filepath.Join(dir, "evals"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExecute_MissingDataset(t *testing.T) {
	_, err := Execute(context.Background(), Options{DatasetPath: filepath.Join(t.TempDir(), "missing.jsonl")}, &stubSearcher{}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestExecute_Cancelled(t *testing.T) {
	datasetPath := filepath.Join(t.TempDir(), "books.jsonl")
	require.NoError(t, os.WriteFile(datasetPath, []byte(evalFixture), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := &stubSearcher{}
	agg, err := Execute(ctx, Options{DatasetPath: datasetPath}, stub, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Empty(t, stub.queries)
	assert.Equal(t, 0, agg.TotalRecords)
}
