package service

import (
	"context"
	"log"

	"github.com/lexgraph-ai/lexgraph/internal/graph"
	"github.com/lexgraph-ai/lexgraph/internal/pagination"
)

// DocumentPager is the graph-store surface document listing and deletion need.
type DocumentPager interface {
	ListDocuments(ctx context.Context, cursor *pagination.Cursor, limit int) (*graph.DocumentPage, error)
	DeleteDocument(ctx context.Context, fileName, email string) error
}

// DocumentArchive is the raw-file archive surface the document endpoints use:
// presigned downloads on listing and object cleanup on deletion.
type DocumentArchive interface {
	DeleteObject(ctx context.Context, key string) error
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
}

// DocumentService fronts the graph document store and keeps the raw-file
// archive in sync with it. archive may be nil; listings then carry no
// download URLs and deletes touch only the graph.
type DocumentService struct {
	store   DocumentPager
	archive DocumentArchive
}

func NewDocumentService(store DocumentPager, archive DocumentArchive) *DocumentService {
	return &DocumentService{store: store, archive: archive}
}

// ListDocuments returns one page of documents, with a presigned download URL
// per uploaded document when the archive is configured. A failed presign
// drops the URL for that document only.
func (s *DocumentService) ListDocuments(ctx context.Context, cursor *pagination.Cursor, limit int) (*graph.DocumentPage, error) {
	page, err := s.store.ListDocuments(ctx, cursor, limit)
	if err != nil {
		return nil, err
	}

	if s.archive != nil {
		for i, doc := range page.Items {
			if doc.UploadedBy == "" || doc.FileName == "" {
				continue
			}
			url, err := s.archive.GenerateDownloadURL(ctx, archiveKey(doc.UploadedBy, doc.FileName))
			if err != nil {
				log.Printf("documents: presign failed for %s/%s: %v", doc.UploadedBy, doc.FileName, err)
				continue
			}
			page.Items[i].DownloadURL = url
		}
	}
	return page, nil
}

// DeleteDocument removes the document from the graph and, on success, its
// archived raw file. Archive cleanup failures are logged, not surfaced: the
// graph is the source of truth and the object becomes unreachable either way.
func (s *DocumentService) DeleteDocument(ctx context.Context, fileName, email string) error {
	if err := s.store.DeleteDocument(ctx, fileName, email); err != nil {
		return err
	}

	if s.archive != nil {
		if err := s.archive.DeleteObject(ctx, archiveKey(email, fileName)); err != nil {
			log.Printf("documents: archive cleanup failed for %s/%s: %v", email, fileName, err)
		}
	}
	return nil
}

// archiveKey is the object key the upload pipeline writes under.
func archiveKey(email, fileName string) string {
	return email + "/" + fileName
}
