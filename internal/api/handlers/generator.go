package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/lexgraph-ai/lexgraph/internal/api"
	"github.com/lexgraph-ai/lexgraph/internal/domain"
	"github.com/lexgraph-ai/lexgraph/internal/service"
)

// GeneratorService produces legal documents, either as a batch or as a
// progress-event stream.
type GeneratorService interface {
	Generate(ctx context.Context, input *domain.GeneratorInput) ([]domain.GeneratedDocument, error)
	GenerateStream(ctx context.Context, input *domain.GeneratorInput, emit service.EmitFunc) error
}

type GeneratorHandler struct {
	svc GeneratorService
}

func NewGeneratorHandler(svc GeneratorService) *GeneratorHandler {
	return &GeneratorHandler{svc: svc}
}

// Generate handles POST /api/generator/generate.
func (h *GeneratorHandler) Generate(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeGeneratorInput(w, r)
	if !ok {
		return
	}

	docs, err := h.svc.Generate(r.Context(), input)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			api.HandleError(w, err)
			return
		}
		api.InternalError(w, "document generation failed", err)
		return
	}

	api.Success(w, http.StatusOK, docs)
}

// GenerateStream handles POST /api/generator/generate-stream, emitting
// progress events over SSE. Validation failures are reported as plain JSON
// before the stream opens; once streaming starts, failures arrive as error
// events on the stream itself.
func (h *GeneratorHandler) GenerateStream(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeGeneratorInput(w, r)
	if !ok {
		return
	}
	if err := input.Validate(); err != nil {
		api.HandleError(w, err)
		return
	}

	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		api.Error(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	emit := func(event domain.ProgressEvent) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if err := h.svc.GenerateStream(r.Context(), input, emit); err != nil {
		emit(domain.ProgressEvent{
			Type:  domain.ProgressEventError,
			Error: err.Error(),
		})
	}
}

func decodeGeneratorInput(w http.ResponseWriter, r *http.Request) (*domain.GeneratorInput, bool) {
	var input domain.GeneratorInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return &input, true
}
