package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/citematch/internal/search"
)

// Searcher is the part of search.Service the handlers use
type Searcher interface {
	Search(ctx context.Context, query string) search.Result
	Explain(ctx context.Context, query string) (search.Result, []search.Explanation)
}

type Handler struct {
	searcher Searcher
}

func New(searcher Searcher) *Handler {
	return &Handler{searcher: searcher}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}
