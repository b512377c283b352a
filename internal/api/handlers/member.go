package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lexgraph-ai/lexgraph/internal/api"
	"github.com/lexgraph-ai/lexgraph/internal/domain"
)

// MemberStatsStore is the graph surface the stats endpoints need.
type MemberStatsStore interface {
	MemberStats(ctx context.Context, email string) (*domain.MemberStats, error)
	AggregateStats(ctx context.Context) (*domain.AggregateStats, error)
}

type MemberHandler struct {
	store MemberStatsStore
}

func NewMemberHandler(store MemberStatsStore) *MemberHandler {
	return &MemberHandler{store: store}
}

// Stats handles GET and POST /api/member-stats. An email (query parameter on
// GET, JSON body on POST) selects one member; without it the organization-wide
// aggregate is returned.
func (h *MemberHandler) Stats(w http.ResponseWriter, r *http.Request) {
	email, ok := h.statsEmail(w, r)
	if !ok {
		return
	}

	if email == "" {
		stats, err := h.store.AggregateStats(r.Context())
		if err != nil {
			api.InternalError(w, "failed to aggregate member stats", err)
			return
		}
		api.Success(w, http.StatusOK, stats)
		return
	}

	stats, err := h.store.MemberStats(r.Context(), email)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			api.HandleError(w, err)
			return
		}
		api.InternalError(w, "failed to load member stats", err)
		return
	}

	api.Success(w, http.StatusOK, stats)
}

func (h *MemberHandler) statsEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method == http.MethodGet {
		return strings.TrimSpace(r.URL.Query().Get("email")), true
	}

	var req struct {
		Email string `json:"email"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.Error(w, http.StatusBadRequest, "invalid request body")
			return "", false
		}
	}
	return strings.TrimSpace(req.Email), true
}
