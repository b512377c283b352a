package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lexgraph-ai/lexgraph/internal/api"
	"github.com/lexgraph-ai/lexgraph/internal/domain"
	"github.com/lexgraph-ai/lexgraph/internal/service"
)

// DiagnosisService runs the risk diagnosis pipeline.
type DiagnosisService interface {
	Diagnose(ctx context.Context, input *domain.DiagnosisInput) (*service.DiagnosisOutcome, error)
}

type DiagnosisHandler struct {
	svc DiagnosisService
}

func NewDiagnosisHandler(svc DiagnosisService) *DiagnosisHandler {
	return &DiagnosisHandler{svc: svc}
}

// Analyze handles POST /api/diagnosis/analyze. The X-Diagnosis-Source
// header tells callers whether the completion API or the rule engine
// produced the result.
func (h *DiagnosisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var input domain.DiagnosisInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := h.svc.Diagnose(r.Context(), &input)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			api.HandleError(w, err)
			return
		}
		api.InternalError(w, "diagnosis failed", err)
		return
	}

	w.Header().Set("X-Diagnosis-Source", string(outcome.Source))
	api.Success(w, http.StatusOK, outcome.Result)
}
