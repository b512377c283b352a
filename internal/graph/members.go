package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/lexgraph-ai/lexgraph/internal/domain"
)

// MemberStats returns a member's node plus their documents.
func (s *Store) MemberStats(ctx context.Context, email string) (*domain.MemberStats, error) {
	session := s.client.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (m:Member {email: $email})
			RETURN m {.*} AS member`,
			map[string]any{"email": email})
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, nil
		}
		raw, _ := records[0].Get("member")
		props, _ := raw.(map[string]any)

		res, err = tx.Run(ctx, `
			MATCH (d:Document {uploadedBy: $email})
			OPTIONAL MATCH (d)-[:HAS_CHUNK]->(c:Chunk)
			WITH d, count(c) AS chunkCount
			ORDER BY d.uploadedAt DESC
			RETURN d {.*} AS doc, chunkCount`,
			map[string]any{"email": email})
		if err != nil {
			return nil, err
		}
		docRecords, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}

		return &domain.MemberStats{
			Member:    memberFromProps(props),
			Documents: collectDocuments(docRecords),
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("graph: member stats for %q: %w", email, err)
	}
	if result == nil {
		return nil, domain.ErrMemberNotFound
	}
	return result.(*domain.MemberStats), nil
}

// AggregateStats returns organization-wide counts and the top uploaders.
func (s *Store) AggregateStats(ctx context.Context) (*domain.AggregateStats, error) {
	session := s.client.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (d:Document)
			OPTIONAL MATCH (d)-[:HAS_CHUNK]->(c:Chunk)
			RETURN count(DISTINCT d) AS totalDocuments,
				count(c) AS totalChunks,
				count(DISTINCT CASE WHEN coalesce(d.isDefault, false) THEN d END) AS defaultDocuments`,
			nil)
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		row := record.AsMap()

		stats := &domain.AggregateStats{
			TotalDocuments:   intValue(row, "totalDocuments"),
			TotalChunks:      intValue(row, "totalChunks"),
			DefaultDocuments: intValue(row, "defaultDocuments"),
		}

		res, err = tx.Run(ctx, `
			MATCH (m:Member)
			RETURN m {.*} AS member
			ORDER BY coalesce(m.documentCount, 0) DESC, m.email ASC
			LIMIT 10`,
			nil)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			raw, _ := record.Get("member")
			if props, ok := raw.(map[string]any); ok {
				stats.TopUploaders = append(stats.TopUploaders, memberFromProps(props))
			}
		}
		stats.TotalMembers = len(stats.TopUploaders)

		res, err = tx.Run(ctx, `MATCH (m:Member) RETURN count(m) AS n`, nil)
		if err != nil {
			return nil, err
		}
		record, err = res.Single(ctx)
		if err != nil {
			return nil, err
		}
		if n, ok := record.AsMap()["n"].(int64); ok {
			stats.TotalMembers = int(n)
		}

		return stats, nil
	})
	if err != nil {
		return nil, fmt.Errorf("graph: aggregate stats: %w", err)
	}
	return result.(*domain.AggregateStats), nil
}

func memberFromProps(props map[string]any) domain.Member {
	return domain.Member{
		Email:         stringValue(props, "email"),
		Organization:  stringValue(props, "organization"),
		DocumentCount: intValue(props, "documentCount"),
		FirstUploadAt: parseTime(stringValue(props, "firstUploadAt")),
		LastUploadAt:  parseTime(stringValue(props, "lastUploadAt")),
	}
}
