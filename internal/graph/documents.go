package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/lexgraph-ai/lexgraph/internal/domain"
	"github.com/lexgraph-ai/lexgraph/internal/pagination"
)

// Store is the repository over the graph client. All methods open their own
// session and run inside a single managed transaction, so a document and its
// chunks are written or deleted atomically.
type Store struct {
	client *Client
}

func NewStore(client *Client) *Store {
	return &Store{client: client}
}

// CreateDocument writes a Document node, its Chunk nodes, and merges the
// mentioned Entity nodes in one write transaction.
func (s *Store) CreateDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk, entities []domain.Entity) error {
	session := s.client.writeSession(ctx)
	defer session.Close(ctx)

	chunkRows := make([]map[string]any, 0, len(chunks))
	for _, c := range chunks {
		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		row := map[string]any{
			"content":    c.Content,
			"pageNumber": int64(c.PageNumber),
			"chunkIndex": int64(c.ChunkIndex),
			"createdAt":  formatTime(createdAt),
		}
		if c.RelevanceScore > 0 {
			row["relevanceScore"] = c.RelevanceScore
		}
		chunkRows = append(chunkRows, row)
	}

	entityRows := make([]map[string]any, 0, len(entities))
	for _, e := range entities {
		entityRows = append(entityRows, map[string]any{
			"name": e.Name,
			"type": e.Type,
		})
	}

	uploadedAt := doc.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now().UTC()
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			CREATE (d:Document {
				title: $title,
				fileName: $fileName,
				source: $source,
				pageCount: $pageCount,
				uploadedBy: $uploadedBy,
				uploadedAt: $uploadedAt,
				organization: $organization,
				isDefault: $isDefault
			})
			WITH d
			UNWIND $chunks AS ch
			CREATE (c:Chunk)
			SET c = ch
			CREATE (d)-[:HAS_CHUNK]->(c)
			RETURN count(c) AS chunkCount`,
			map[string]any{
				"title":        doc.Title,
				"fileName":     doc.FileName,
				"source":       doc.Source,
				"pageCount":    int64(doc.PageCount),
				"uploadedBy":   doc.UploadedBy,
				"uploadedAt":   formatTime(uploadedAt),
				"organization": doc.Organization,
				"isDefault":    doc.IsDefault,
				"chunks":       chunkRows,
			})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		if len(entityRows) == 0 {
			return nil, nil
		}
		res, err = tx.Run(ctx, `
			MATCH (d:Document {fileName: $fileName, uploadedBy: $uploadedBy})
			UNWIND $entities AS ent
			MERGE (e:Entity {name: ent.name})
			ON CREATE SET e.type = ent.type
			MERGE (d)-[:MENTIONS]->(e)
			RETURN count(e) AS entityCount`,
			map[string]any{
				"fileName":   doc.FileName,
				"uploadedBy": doc.UploadedBy,
				"entities":   entityRows,
			})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("graph: create document %q: %w", doc.FileName, err)
	}
	return nil
}

// DocumentPage is one page of the document listing.
type DocumentPage struct {
	Items   []domain.Document
	Cursor  string
	HasMore bool
}

// ListDocuments returns documents newest-first with cursor pagination.
func (s *Store) ListDocuments(ctx context.Context, cursor *pagination.Cursor, limit int) (*DocumentPage, error) {
	if limit <= 0 {
		limit = 20
	}

	params := map[string]any{"limit": int64(limit)}
	where := ""
	if cursor != nil {
		where = "WHERE d.uploadedAt < $before"
		params["before"] = formatTime(cursor.Timestamp)
	}

	session := s.client.readSession(ctx)
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, fmt.Sprintf(`
			MATCH (d:Document)
			%s
			OPTIONAL MATCH (d)-[:HAS_CHUNK]->(c:Chunk)
			WITH d, count(c) AS chunkCount
			ORDER BY d.uploadedAt DESC, d.fileName ASC
			LIMIT $limit
			RETURN d {.*} AS doc, chunkCount`, where), params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("graph: list documents: %w", err)
	}

	items := collectDocuments(records.([]*neo4j.Record))
	page := &DocumentPage{Items: items}
	if len(items) == limit {
		last := items[len(items)-1]
		page.Cursor = pagination.EncodeCursor(last.FileName, last.UploadedAt)
		page.HasMore = true
	}
	return page, nil
}

// DeleteDocument removes a document and its chunks. The match requires
// ownership and excludes default documents; a missing, foreign, or default
// document all yield the same ErrDocumentNotFound.
func (s *Store) DeleteDocument(ctx context.Context, fileName, email string) error {
	session := s.client.writeSession(ctx)
	defer session.Close(ctx)

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (d:Document {fileName: $fileName})
			WHERE d.uploadedBy = $email AND coalesce(d.isDefault, false) = false
			OPTIONAL MATCH (d)-[:HAS_CHUNK]->(c:Chunk)
			DETACH DELETE d, c
			RETURN count(DISTINCT d) AS deleted`,
			map[string]any{"fileName": fileName, "email": email})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		count, _ := record.Get("deleted")
		n, _ := count.(int64)
		if n == 0 {
			return int64(0), nil
		}

		res, err = tx.Run(ctx, `
			MATCH (m:Member {email: $email})
			SET m.documentCount = CASE
				WHEN coalesce(m.documentCount, 0) > 0 THEN m.documentCount - 1
				ELSE 0
			END
			RETURN m.documentCount`,
			map[string]any{"email": email})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return n, nil
	})
	if err != nil {
		return fmt.Errorf("graph: delete document %q: %w", fileName, err)
	}
	if deleted.(int64) == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// HasRecentUpload reports whether the member uploaded a file with the same
// name within the given window. Used by moderation to reject near-duplicate
// re-uploads.
func (s *Store) HasRecentUpload(ctx context.Context, fileName, email string, since time.Time) (bool, error) {
	session := s.client.readSession(ctx)
	defer session.Close(ctx)

	count, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (d:Document {fileName: $fileName, uploadedBy: $email})
			WHERE d.uploadedAt >= $since
			RETURN count(d) AS n`,
			map[string]any{
				"fileName": fileName,
				"email":    email,
				"since":    formatTime(since),
			})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		n, _ := record.Get("n")
		return n, nil
	})
	if err != nil {
		return false, fmt.Errorf("graph: recent upload check: %w", err)
	}
	return count.(int64) > 0, nil
}

// UpsertMemberOnUpload merges the Member node and bumps its counters.
func (s *Store) UpsertMemberOnUpload(ctx context.Context, email, organization string, at time.Time) error {
	session := s.client.writeSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MERGE (m:Member {email: $email})
			ON CREATE SET m.firstUploadAt = $at, m.documentCount = 0
			SET m.lastUploadAt = $at,
				m.documentCount = coalesce(m.documentCount, 0) + 1,
				m.organization = CASE WHEN $organization <> '' THEN $organization ELSE m.organization END
			RETURN m.email`,
			map[string]any{
				"email":        email,
				"organization": organization,
				"at":           formatTime(at),
			})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("graph: upsert member %q: %w", email, err)
	}
	return nil
}

func collectDocuments(records []*neo4j.Record) []domain.Document {
	items := make([]domain.Document, 0, len(records))
	for _, record := range records {
		raw, ok := record.Get("doc")
		if !ok {
			continue
		}
		props, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		doc := domain.Document{
			Title:        stringValue(props, "title"),
			FileName:     stringValue(props, "fileName"),
			Source:       stringValue(props, "source"),
			PageCount:    intValue(props, "pageCount"),
			UploadedBy:   stringValue(props, "uploadedBy"),
			UploadedAt:   parseTime(stringValue(props, "uploadedAt")),
			Organization: stringValue(props, "organization"),
			IsDefault:    boolValue(props, "isDefault"),
		}
		if n, ok := record.Get("chunkCount"); ok {
			if c, ok := n.(int64); ok {
				doc.ChunkCount = int(c)
			}
		}
		items = append(items, doc)
	}
	return items
}
