package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/citematch/internal/search"
)

// FailureResponse names a source that could not be queried
type FailureResponse struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

type SearchResponse struct {
	Query    string            `json:"query"`
	Matches  []string          `json:"matches"`
	Failures []FailureResponse `json:"failures"`
}

type ExplainResponse struct {
	Query        string               `json:"query"`
	Matches      []string             `json:"matches"`
	Explanations []search.Explanation `json:"explanations"`
	Failures     []FailureResponse    `json:"failures"`
}

// HandleSearch answers GET /api/search?q=... with the accepted labels.
// Adding explain=true returns every candidate's decision instead.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		h.writeError(w, "Missing query parameter q", http.StatusBadRequest)
		return
	}

	explain, _ := strconv.ParseBool(r.URL.Query().Get("explain"))
	if explain {
		res, explanations := h.searcher.Explain(r.Context(), query)
		if explanations == nil {
			explanations = []search.Explanation{}
		}
		h.writeJSON(w, ExplainResponse{
			Query:        query,
			Matches:      res.Labels(),
			Explanations: explanations,
			Failures:     failureResponses(res.Failures),
		})
		return
	}

	res := h.searcher.Search(r.Context(), query)
	slog.Info("Search complete", "query", query, "matches", len(res.Matches), "failures", len(res.Failures))
	h.writeJSON(w, SearchResponse{
		Query:    res.Query,
		Matches:  res.Labels(),
		Failures: failureResponses(res.Failures),
	})
}

func (h *Handler) HandleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Unable to write healthcheck", "err", err)
	}
}

func failureResponses(failures []search.Failure) []FailureResponse {
	out := make([]FailureResponse, 0, len(failures))
	for _, f := range failures {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		out = append(out, FailureResponse{Source: f.Source, Error: msg})
	}
	return out
}
