package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/lexgraph-ai/lexgraph/internal/api"
	"github.com/lexgraph-ai/lexgraph/internal/domain"
	"github.com/lexgraph-ai/lexgraph/internal/service"
)

// UploadService ingests one uploaded document.
type UploadService interface {
	Upload(ctx context.Context, input service.UploadInput) (*service.UploadResult, error)
}

type UploadHandler struct {
	svc      UploadService
	maxBytes int64
}

func NewUploadHandler(svc UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{svc: svc, maxBytes: maxBytes}
}

// Upload handles POST /api/upload. Expects multipart form fields "file" and
// "memberEmail" (plus optional "organization").
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// One extra KB so an oversized body surfaces as a moderation error
	// rather than a truncated read.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1024)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.HandleError(w, domain.ErrFileTooLarge)
			return
		}
		api.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		api.InternalError(w, "failed to read upload", err)
		return
	}

	result, err := h.svc.Upload(r.Context(), service.UploadInput{
		FileName:     header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Data:         data,
		MemberEmail:  strings.TrimSpace(r.FormValue("memberEmail")),
		Organization: strings.TrimSpace(r.FormValue("organization")),
	})
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			api.HandleError(w, err)
			return
		}
		api.InternalError(w, "upload failed", err)
		return
	}

	api.Success(w, http.StatusOK, result)
}
