package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/lexgraph-ai/lexgraph/internal/domain"
)

// WebResult is a web search hit handed to the learning ingestion.
type WebResult struct {
	Title   string
	URL     string
	Content string
}

// keyword groups that mark a web source as a legal update. Strong markers
// indicate a change in force; weak ones indicate guidance.
var (
	strongUpdateMarkers = []string{"改正", "施行", "新法", "罰則", "amendment", "enacted", "enforcement"}
	weakUpdateMarkers   = []string{"ガイドライン", "指針", "パブリックコメント", "guideline", "guidance", "draft"}
)

func classifyUpdate(title, content string) string {
	text := strings.ToLower(title + " " + content)
	for _, m := range strongUpdateMarkers {
		if strings.Contains(text, strings.ToLower(m)) {
			return "high"
		}
	}
	for _, m := range weakUpdateMarkers {
		if strings.Contains(text, strings.ToLower(m)) {
			return "medium"
		}
	}
	return ""
}

// IngestWebResults merges WebSource nodes (by URL), attaches their content
// as chunks, and flags sources that look like legal updates.
func (s *Store) IngestWebResults(ctx context.Context, query string, results []WebResult) (int, error) {
	if len(results) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([]map[string]any, 0, len(results))
	for i, r := range results {
		if r.URL == "" || r.Content == "" {
			continue
		}
		rows = append(rows, map[string]any{
			"url":        r.URL,
			"title":      r.Title,
			"content":    r.Content,
			"chunkIndex": int64(i),
			"importance": classifyUpdate(r.Title, r.Content),
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	session := s.client.writeSession(ctx)
	defer session.Close(ctx)

	ingested, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			UNWIND $rows AS row
			MERGE (w:WebSource {url: row.url})
			SET w.title = row.title, w.query = $query, w.fetchedAt = $now
			CREATE (c:Chunk {
				content: row.content,
				pageNumber: 0,
				chunkIndex: row.chunkIndex,
				createdAt: $now
			})
			CREATE (w)-[:HAS_CHUNK]->(c)
			WITH w, row
			WHERE row.importance <> ''
			MERGE (u:LegalUpdate {url: row.url})
			SET u.title = row.title, u.importance = row.importance, u.detectedAt = $now
			MERGE (w)-[:FLAGGED_AS]->(u)
			RETURN count(w) AS n`,
			map[string]any{
				"rows":  rows,
				"query": query,
				"now":   formatTime(now),
			})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return int64(len(rows)), nil
	})
	if err != nil {
		return 0, fmt.Errorf("graph: ingest web results: %w", err)
	}
	return int(ingested.(int64)), nil
}

// RecentLegalUpdates lists flagged legal updates, newest first.
func (s *Store) RecentLegalUpdates(ctx context.Context, limit int) ([]domain.LegalUpdate, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	session := s.client.readSession(ctx)
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (u:LegalUpdate)
			RETURN u.title AS title, u.url AS url,
				u.importance AS importance, u.detectedAt AS detectedAt
			ORDER BY u.detectedAt DESC
			LIMIT $limit`,
			map[string]any{"limit": int64(limit)})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("graph: recent legal updates: %w", err)
	}

	updates := make([]domain.LegalUpdate, 0, limit)
	for _, record := range records.([]*neo4j.Record) {
		row := record.AsMap()
		updates = append(updates, domain.LegalUpdate{
			Title:      stringValue(row, "title"),
			URL:        stringValue(row, "url"),
			Importance: stringValue(row, "importance"),
			DetectedAt: parseTime(stringValue(row, "detectedAt")),
		})
	}
	return updates, nil
}
