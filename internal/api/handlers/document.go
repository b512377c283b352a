package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/lexgraph-ai/lexgraph/internal/api"
	"github.com/lexgraph-ai/lexgraph/internal/domain"
	"github.com/lexgraph-ai/lexgraph/internal/graph"
	"github.com/lexgraph-ai/lexgraph/internal/pagination"
)

const (
	defaultDocumentPageSize = 20
	maxDocumentPageSize     = 100
)

// DocumentStore is the graph surface the document endpoints need.
type DocumentStore interface {
	ListDocuments(ctx context.Context, cursor *pagination.Cursor, limit int) (*graph.DocumentPage, error)
	DeleteDocument(ctx context.Context, fileName, email string) error
}

type DocumentHandler struct {
	store DocumentStore
}

func NewDocumentHandler(store DocumentStore) *DocumentHandler {
	return &DocumentHandler{store: store}
}

type documentListResponse struct {
	Documents []domain.Document `json:"documents"`
	Cursor    string            `json:"cursor,omitempty"`
	HasMore   bool              `json:"hasMore"`
}

// List handles GET /api/documents with cursor pagination.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	cursor, err := pagination.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid cursor")
		return
	}

	limit := defaultDocumentPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		if limit > maxDocumentPageSize {
			limit = maxDocumentPageSize
		}
	}

	page, err := h.store.ListDocuments(r.Context(), cursor, limit)
	if err != nil {
		api.InternalError(w, "failed to list documents", err)
		return
	}

	api.Success(w, http.StatusOK, documentListResponse{
		Documents: page.Items,
		Cursor:    page.Cursor,
		HasMore:   page.HasMore,
	})
}

type documentDeleteResponse struct {
	FileName string `json:"fileName"`
	Deleted  bool   `json:"deleted"`
}

// Delete handles DELETE /api/document-delete?fileName=&email=. A missing,
// foreign, or default document all answer 404; the response does not reveal
// which case applied.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	fileName := strings.TrimSpace(r.URL.Query().Get("fileName"))
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if fileName == "" || email == "" {
		api.Error(w, http.StatusBadRequest, "fileName and email are required")
		return
	}

	if err := h.store.DeleteDocument(r.Context(), fileName, email); err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			api.HandleError(w, err)
			return
		}
		api.InternalError(w, "failed to delete document", err)
		return
	}

	api.Success(w, http.StatusOK, documentDeleteResponse{FileName: fileName, Deleted: true})
}
