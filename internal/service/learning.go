package service

import (
	"context"
	"strings"

	"github.com/lexgraph-ai/lexgraph/internal/domain"
	"github.com/lexgraph-ai/lexgraph/internal/graph"
)

// learningMaxResults bounds how many web hits one learning call ingests.
const learningMaxResults = 10

// LearningGraph is the graph-store surface the learning pipeline needs.
type LearningGraph interface {
	IngestWebResults(ctx context.Context, query string, results []graph.WebResult) (int, error)
	RecentLegalUpdates(ctx context.Context, limit int) ([]domain.LegalUpdate, error)
}

// LearningService pulls web search results into the graph so later
// diagnoses can retrieve them.
type LearningService struct {
	web   WebSearcher
	store LearningGraph
}

func NewLearningService(web WebSearcher, store LearningGraph) *LearningService {
	return &LearningService{web: web, store: store}
}

// LearnResult reports one learning run.
type LearnResult struct {
	Query    string `json:"query"`
	Fetched  int    `json:"fetched"`
	Ingested int    `json:"ingested"`
}

// Learn searches the web for the query and ingests the hits as WebSource
// and Chunk nodes, flagging legal updates.
func (s *LearningService) Learn(ctx context.Context, query string) (*LearnResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrMissingQuery
	}
	if s.web == nil {
		return nil, domain.NewDomainError(domain.ErrCodeUnavailable, "web search not configured")
	}

	hits, err := s.web.Search(ctx, query, learningMaxResults)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable, "web search failed", err)
	}

	results := make([]graph.WebResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, graph.WebResult{
			Title:   h.Title,
			URL:     h.URL,
			Content: h.Content,
		})
	}

	ingested, err := s.store.IngestWebResults(ctx, query, results)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable, "graph ingestion failed", err)
	}

	return &LearnResult{Query: query, Fetched: len(hits), Ingested: ingested}, nil
}

// RecentUpdates lists flagged legal updates.
func (s *LearningService) RecentUpdates(ctx context.Context, limit int) ([]domain.LegalUpdate, error) {
	return s.store.RecentLegalUpdates(ctx, limit)
}
