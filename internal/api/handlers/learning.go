package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/lexgraph-ai/lexgraph/internal/api"
	"github.com/lexgraph-ai/lexgraph/internal/domain"
	"github.com/lexgraph-ai/lexgraph/internal/service"
)

const defaultLegalUpdateLimit = 20

// LearningService ingests web search results and lists flagged updates.
type LearningService interface {
	Learn(ctx context.Context, query string) (*service.LearnResult, error)
	RecentUpdates(ctx context.Context, limit int) ([]domain.LegalUpdate, error)
}

type LearningHandler struct {
	svc LearningService
}

func NewLearningHandler(svc LearningService) *LearningHandler {
	return &LearningHandler{svc: svc}
}

type learnRequest struct {
	Query string `json:"query"`
}

// Learn handles POST /api/learning.
func (h *LearningHandler) Learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Learn(r.Context(), req.Query)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			api.HandleError(w, err)
			return
		}
		api.InternalError(w, "learning failed", err)
		return
	}

	api.Success(w, http.StatusOK, result)
}

// Updates handles GET /api/legal-updates.
func (h *LearningHandler) Updates(w http.ResponseWriter, r *http.Request) {
	limit := defaultLegalUpdateLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	updates, err := h.svc.RecentUpdates(r.Context(), limit)
	if err != nil {
		api.InternalError(w, "failed to list legal updates", err)
		return
	}

	api.Success(w, http.StatusOK, updates)
}
