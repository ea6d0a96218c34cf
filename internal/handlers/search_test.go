package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lehigh-university-libraries/citematch/internal/match"
	"github.com/lehigh-university-libraries/citematch/internal/models"
	"github.com/lehigh-university-libraries/citematch/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	gotQuery string
}

func (s *stubSearcher) Search(ctx context.Context, query string) search.Result {
	s.gotQuery = query
	return search.Result{
		Query: query,
		Matches: []models.Match{
			{Source: "CrossRef", Label: "General Theory (1999) John Smith (CrossRef)"},
		},
		Failures: []search.Failure{{Source: "WorldCat", Err: errors.New("worldcat unavailable (status): HTTP 503")}},
	}
}

func (s *stubSearcher) Explain(ctx context.Context, query string) (search.Result, []search.Explanation) {
	s.gotQuery = query
	return search.Result{Query: query}, []search.Explanation{
		{Source: "CrossRef", Record: models.CandidateRecord{Title: "Unrelated"}, Decision: match.Decision{Reason: match.ReasonNoAlignment}},
	}
}

func TestHandleSearch(t *testing.T) {
	stub := &stubSearcher{}
	h := New(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=Smith+General+Theory+1999", nil)
	rec := httptest.NewRecorder()
	h.HandleSearch(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Smith General Theory 1999", stub.gotQuery)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Smith General Theory 1999", resp.Query)
	assert.Equal(t, []string{"General Theory (1999) John Smith (CrossRef)"}, resp.Matches)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, "WorldCat", resp.Failures[0].Source)
	assert.Contains(t, resp.Failures[0].Error, "HTTP 503")
}

func TestHandleSearch_Explain(t *testing.T) {
	h := New(&stubSearcher{})

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=unrelated&explain=true", nil)
	rec := httptest.NewRecorder()
	h.HandleSearch(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ExplainResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Explanations, 1)
	assert.Equal(t, match.ReasonNoAlignment, resp.Explanations[0].Decision.Reason)
	assert.Empty(t, resp.Matches)
	assert.Empty(t, resp.Failures)
}

func TestHandleSearch_BadRequests(t *testing.T) {
	h := New(&stubSearcher{})

	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{"missing query", http.MethodGet, "/api/search", http.StatusBadRequest},
		{"blank query", http.MethodGet, "/api/search?q=++", http.StatusBadRequest},
		{"wrong method", http.MethodPost, "/api/search?q=x", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.HandleSearch(rec, httptest.NewRequest(tt.method, tt.target, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandleHealthcheck(t *testing.T) {
	rec := httptest.NewRecorder()
	New(&stubSearcher{}).HandleHealthcheck(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
