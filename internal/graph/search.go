package graph

import (
	"context"
	"log"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/lexgraph-ai/lexgraph/internal/domain"
)

const searchLimit = 15

// SearchOutput carries ranked results and records whether the live query
// path produced them or the canned fallback did.
type SearchOutput struct {
	Results        []domain.SearchResult `json:"results"`
	Fallback       bool                  `json:"fallback"`
	FallbackReason string                `json:"fallbackReason,omitempty"`
}

// searchQuery ranks (document, chunk) and (websource, chunk) pairs whose
// content or title contains any extracted keyword. Scoring precedence:
// default documents > stored chunk relevance > legal-update importance >
// recency bands > base 0.8. Timestamps are RFC3339 strings, so string
// comparison orders them chronologically.
const searchQuery = `
	CALL () {
		MATCH (d:Document)-[:HAS_CHUNK]->(c:Chunk)
		WHERE any(kw IN $keywords WHERE toLower(c.content) CONTAINS kw OR toLower(d.title) CONTAINS kw)
		RETURN d.title AS title,
			coalesce(d.source, d.fileName) AS source,
			coalesce(d.isDefault, false) AS isDefault,
			'' AS importance,
			c AS chunk
		UNION
		MATCH (w:WebSource)-[:HAS_CHUNK]->(c:Chunk)
		WHERE any(kw IN $keywords WHERE toLower(c.content) CONTAINS kw OR toLower(w.title) CONTAINS kw)
		OPTIONAL MATCH (w)-[:FLAGGED_AS]->(u:LegalUpdate)
		RETURN w.title AS title,
			w.url AS source,
			false AS isDefault,
			coalesce(u.importance, '') AS importance,
			c AS chunk
	}
	WITH title, source, isDefault, importance, chunk,
		CASE
			WHEN isDefault THEN 1.8
			WHEN chunk.relevanceScore IS NOT NULL THEN chunk.relevanceScore
			WHEN importance = 'high' THEN 1.5
			WHEN importance = 'medium' THEN 1.2
			WHEN chunk.createdAt >= $sevenDaysAgo THEN 1.3
			WHEN chunk.createdAt >= $thirtyDaysAgo THEN 1.1
			ELSE 0.8
		END AS score
	RETURN title, source, isDefault, score,
		chunk.content AS content,
		chunk.pageNumber AS pageNumber,
		chunk.createdAt AS createdAt
	ORDER BY score DESC, createdAt DESC
	LIMIT $limit`

// Search runs keyword retrieval against the graph. On any query failure it
// returns canned placeholder results instead of an error so a degraded graph
// store never blocks a diagnosis.
func (s *Store) Search(ctx context.Context, query string) *SearchOutput {
	keywords := ExtractKeywords(query)
	if len(keywords) == 0 {
		return &SearchOutput{Results: []domain.SearchResult{}}
	}

	now := time.Now().UTC()
	session := s.client.readSession(ctx)
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, searchQuery, map[string]any{
			"keywords":      keywords,
			"sevenDaysAgo":  formatTime(now.AddDate(0, 0, -7)),
			"thirtyDaysAgo": formatTime(now.AddDate(0, 0, -30)),
			"limit":         int64(searchLimit),
		})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		log.Printf("graph: search failed, serving fallback results: %v", err)
		return &SearchOutput{
			Results:        fallbackSearchResults(),
			Fallback:       true,
			FallbackReason: err.Error(),
		}
	}

	results := make([]domain.SearchResult, 0, searchLimit)
	for _, record := range records.([]*neo4j.Record) {
		row := record.AsMap()
		results = append(results, domain.SearchResult{
			Title:      stringValue(row, "title"),
			Source:     stringValue(row, "source"),
			Content:    stringValue(row, "content"),
			Score:      floatValue(row, "score"),
			PageNumber: intValue(row, "pageNumber"),
			IsDefault:  boolValue(row, "isDefault"),
		})
	}
	return &SearchOutput{Results: results}
}

// fallbackSearchResults are served when the graph store is unreachable.
// Availability over correctness: the diagnosis pipeline still gets some
// context to work with.
func fallbackSearchResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			Title:   "個人情報保護法ガイドライン（通則編）",
			Source:  "default-reference",
			Content: "個人情報取扱事業者は、個人情報を取り扱うに当たっては、利用目的をできる限り特定しなければならない。AIサービスへの個人データの入力は第三者提供に該当し得る。",
			Score:   1.8,
		},
		{
			Title:   "AI事業者ガイドライン",
			Source:  "default-reference",
			Content: "AIを利用したサービスの提供者は、利用規約等においてAIの利用範囲、入力データの取扱い、出力の正確性に関する免責を明示することが望ましい。",
			Score:   1.8,
		},
	}
}
