package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lexgraph-ai/lexgraph/internal/api"
	"github.com/lexgraph-ai/lexgraph/internal/graph"
)

// GraphSearcher runs keyword retrieval against the graph store.
type GraphSearcher interface {
	Search(ctx context.Context, query string) *graph.SearchOutput
}

type SearchHandler struct {
	searcher GraphSearcher
}

func NewSearchHandler(searcher GraphSearcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

type searchRequest struct {
	Query string `json:"query"`
}

// Search handles POST /api/graph-search. The store degrades to canned
// fallback results on its own, so this endpoint only fails on bad input.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}

	api.Success(w, http.StatusOK, h.searcher.Search(r.Context(), req.Query))
}
