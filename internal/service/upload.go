package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/lexgraph-ai/lexgraph/internal/domain"
	"github.com/lexgraph-ai/lexgraph/internal/pdfextract"
	"github.com/lexgraph-ai/lexgraph/internal/telemetry"
)

// duplicateWindow rejects re-uploads of the same file by the same member.
const duplicateWindow = time.Hour

// DocumentGraph is the graph-store surface the upload pipeline needs.
type DocumentGraph interface {
	CreateDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk, entities []domain.Entity) error
	HasRecentUpload(ctx context.Context, fileName, email string, since time.Time) (bool, error)
	UpsertMemberOnUpload(ctx context.Context, email, organization string, at time.Time) error
}

// Archiver stores the raw uploaded bytes. Optional.
type Archiver interface {
	PutObject(ctx context.Context, key, contentType string, body []byte) error
}

// UploadInput is one multipart upload.
type UploadInput struct {
	FileName     string
	ContentType  string
	Data         []byte
	MemberEmail  string
	Organization string
	IsDefault    bool
}

// UploadResult mirrors the upload endpoint response.
type UploadResult struct {
	FileName   string `json:"fileName"`
	FileSize   int64  `json:"fileSize"`
	UploadedBy string `json:"uploadedBy"`
	Status     string `json:"status"`
	ChunkCount int    `json:"chunkCount"`
	PageCount  int    `json:"pageCount"`
}

// UploadService runs moderation, text extraction, chunking, and graph
// persistence for uploaded documents.
type UploadService struct {
	store    DocumentGraph
	archive  Archiver
	maxBytes int64
	chunkCfg ChunkConfig
	now      func() time.Time
}

func NewUploadService(store DocumentGraph, archive Archiver, maxBytes int64) *UploadService {
	return &UploadService{
		store:    store,
		archive:  archive,
		maxBytes: maxBytes,
		chunkCfg: DefaultChunkConfig(),
		now:      time.Now,
	}
}

// Upload validates and ingests one file.
func (s *UploadService) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	email := strings.TrimSpace(input.MemberEmail)
	if email == "" {
		return nil, domain.ErrMissingMemberEmail
	}

	if err := ValidateUpload(input.FileName, input.ContentType, int64(len(input.Data)), s.maxBytes); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "service.upload", telemetry.SpanAttributes{
		MemberEmail: email,
		FileName:    input.FileName,
		Operation:   "upload",
	})
	defer span.End()

	now := s.now().UTC()
	recent, err := s.store.HasRecentUpload(ctx, input.FileName, email, now.Add(-duplicateWindow))
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable, "duplicate check failed", err)
	}
	if recent {
		return nil, domain.ErrDuplicateUpload
	}

	text, pageCount, err := s.extractText(input)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "text extraction failed", err)
	}

	pieces := chunkText(text, s.chunkCfg)
	if len(pieces) == 0 {
		return nil, domain.ErrNoExtractableText
	}

	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, content := range pieces {
		chunks = append(chunks, domain.Chunk{
			Content:    content,
			PageNumber: approximatePage(i, len(pieces), pageCount),
			ChunkIndex: i,
			CreatedAt:  now,
		})
	}

	doc := &domain.Document{
		Title:        titleFromFileName(input.FileName),
		FileName:     input.FileName,
		Source:       "upload",
		PageCount:    pageCount,
		UploadedBy:   email,
		UploadedAt:   now,
		Organization: input.Organization,
		IsDefault:    input.IsDefault,
	}

	if err := s.store.CreateDocument(ctx, doc, chunks, ExtractEntities(text)); err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable, "failed to store document", err)
	}
	if err := s.store.UpsertMemberOnUpload(ctx, email, input.Organization, now); err != nil {
		// Document is already stored; a failed counter update is logged,
		// not surfaced.
		log.Printf("upload: member upsert failed for %s: %v", email, err)
	}

	if s.archive != nil {
		key := archiveKey(email, input.FileName)
		if err := s.archive.PutObject(ctx, key, input.ContentType, input.Data); err != nil {
			log.Printf("upload: raw archival failed for %s: %v", key, err)
		}
	}

	return &UploadResult{
		FileName:   input.FileName,
		FileSize:   int64(len(input.Data)),
		UploadedBy: email,
		Status:     "processed",
		ChunkCount: len(chunks),
		PageCount:  pageCount,
	}, nil
}

func (s *UploadService) extractText(input UploadInput) (string, int, error) {
	if isPDF(input.FileName) {
		return pdfextract.ExtractText(input.Data)
	}
	return string(input.Data), 1, nil
}

// approximatePage spreads chunk indexes evenly over the page count; chunk
// boundaries from plain-text extraction do not carry page provenance.
func approximatePage(index, totalChunks, pageCount int) int {
	if pageCount <= 1 || totalChunks <= 0 {
		return 1
	}
	page := index*pageCount/totalChunks + 1
	if page > pageCount {
		page = pageCount
	}
	return page
}

func titleFromFileName(fileName string) string {
	name := fileName
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
}
