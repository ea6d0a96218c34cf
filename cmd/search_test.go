package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/citematch/internal/models"
	"github.com/lehigh-university-libraries/citematch/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const crossrefBody = `{"status":"ok","message":{"items":[
  {"title":["General Theory"],"issued":{"date-parts":[[1999]]},"author":[{"given":"John","family":"Smith"}]},
  {"title":["Unrelated Work"],"issued":{"date-parts":[[1999]]},"author":[{"given":"Ann","family":"Other"}]}
]}}`

func newSourceServers(t *testing.T) (crossref, worldcat *httptest.Server, crossrefHits *int) {
	t.Helper()
	hits := 0
	crossref = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(crossrefBody))
	}))
	worldcat = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(crossref.Close)
	t.Cleanup(worldcat.Close)
	return crossref, worldcat, &hits
}

func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSearchCommand(t *testing.T) {
	crossref, worldcat, _ := newSourceServers(t)

	stdout, stderr, err := runRoot(t, "search",
		"--crossref-url", crossref.URL,
		"--worldcat-url", worldcat.URL,
		"Smith", "General", "Theory", "1999")
	require.NoError(t, err)

	var labels []string
	require.NoError(t, json.Unmarshal([]byte(stdout), &labels))
	assert.Equal(t, []string{"General Theory (1999) John Smith (CrossRef)"}, labels)
	assert.Contains(t, stderr, "warning: WorldCat")
}

func TestSearchCommand_ExplainAndCache(t *testing.T) {
	crossref, worldcat, hits := newSourceServers(t)
	cachePath := filepath.Join(t.TempDir(), "cache.db")

	for i := 0; i < 2; i++ {
		stdout, stderr, err := runRoot(t, "search",
			"--crossref-url", crossref.URL,
			"--worldcat-url", worldcat.URL,
			"--cache", cachePath,
			"--format", "text",
			"--explain",
			"Smith General Theory 1999")
		require.NoError(t, err)
		assert.Equal(t, "General Theory (1999) John Smith (CrossRef)\n", stdout)
		assert.Contains(t, stderr, "[CrossRef] accepted: General Theory (1999) John Smith (explained)")
		assert.Contains(t, stderr, "[CrossRef] rejected: Unrelated Work (1999) Ann Other (no_alignment)")
	}
	assert.Equal(t, 1, *hits)
}

func TestSearchCommand_Errors(t *testing.T) {
	_, _, err := runRoot(t, "search")
	assert.Error(t, err)

	_, _, err = runRoot(t, "search", "--format", "xml", "query")
	assert.Error(t, err)

	_, _, err = runRoot(t, "search", "--rows", "0", "query")
	assert.Error(t, err)
}

func TestWriteResult(t *testing.T) {
	res := search.Result{
		Query: "q",
		Matches: []models.Match{
			{Source: "CrossRef", Label: "A (CrossRef)", Record: models.CandidateRecord{Title: "A"}},
			{Source: "WorldCat", Label: "A (WorldCat)", Record: models.CandidateRecord{Title: "A"}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, "json", res))
	assert.JSONEq(t, `["A (CrossRef)", "A (WorldCat)"]`, buf.String())

	buf.Reset()
	require.NoError(t, writeResult(&buf, "text", res))
	assert.Equal(t, "A (CrossRef)\nA (WorldCat)\n", buf.String())

	buf.Reset()
	require.NoError(t, writeResult(&buf, "yaml", res))
	assert.True(t, strings.HasPrefix(buf.String(), "query: q\n"))
	assert.Contains(t, buf.String(), "label: A (WorldCat)")

	buf.Reset()
	require.NoError(t, writeResult(&buf, "json", search.Result{}))
	assert.JSONEq(t, `[]`, buf.String())
}
