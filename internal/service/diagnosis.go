package service

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/lexgraph-ai/lexgraph/internal/domain"
	"github.com/lexgraph-ai/lexgraph/internal/graph"
	"github.com/lexgraph-ai/lexgraph/internal/tavily"
	"github.com/lexgraph-ai/lexgraph/internal/telemetry"
)

const (
	graphSearchTimeout = 40 * time.Second
	webSearchTimeout   = 30 * time.Second
	completionTimeout  = 200 * time.Second

	maxWebSnippets = 5
)

// GraphSearcher retrieves ranked chunks from the graph store.
type GraphSearcher interface {
	Search(ctx context.Context, query string) *graph.SearchOutput
}

// WebSearcher retrieves web search results.
type WebSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]tavily.Result, error)
}

// Completer produces a completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// DiagnosisOutcome is a diagnosis plus the path that produced it, so
// callers and tests can tell live results from rule-engine fallbacks.
type DiagnosisOutcome struct {
	Result         *domain.DiagnosisResult
	Source         domain.DiagnosisSource
	FallbackReason string
}

// DiagnosisService runs the risk diagnosis pipeline. Any of graph, web, and
// llm may be nil; the pipeline degrades to the rule engine.
type DiagnosisService struct {
	graph GraphSearcher
	web   WebSearcher
	llm   Completer
	now   func() time.Time
}

func NewDiagnosisService(graphSearcher GraphSearcher, webSearcher WebSearcher, llm Completer) *DiagnosisService {
	return &DiagnosisService{
		graph: graphSearcher,
		web:   webSearcher,
		llm:   llm,
		now:   time.Now,
	}
}

// Diagnose produces a DiagnosisResult. Search failures and timeouts degrade
// to missing context; completion failures degrade to the rule engine. The
// only error returned is input validation.
func (s *DiagnosisService) Diagnose(ctx context.Context, input *domain.DiagnosisInput) (*DiagnosisOutcome, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "service.diagnosis", telemetry.SpanAttributes{
		Operation: "diagnose",
	})
	defer span.End()

	graphResults, webResults := s.gatherContext(ctx, input)

	if s.llm == nil {
		return s.fallbackOutcome(input, "completion API not configured"), nil
	}

	prompt := buildDiagnosisPrompt(input, graphResults, webResults)

	completionCtx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	raw, err := s.llm.Complete(completionCtx, prompt)
	if err != nil {
		log.Printf("diagnosis: completion failed, using rule engine: %v", err)
		telemetry.CaptureError(ctx, err)
		return s.fallbackOutcome(input, "completion API error: "+err.Error()), nil
	}

	result, err := parseDiagnosisResponse(raw)
	if err != nil {
		log.Printf("diagnosis: unparseable completion, using rule engine: %v", err)
		telemetry.AddBreadcrumb(ctx, "diagnosis", "completion response not parseable, using rule engine")
		return s.fallbackOutcome(input, "unparseable completion: "+err.Error()), nil
	}

	result.DiagnosedAt = s.now().UTC()
	result.AppName = input.AppName
	if result.Disclaimer == "" {
		result.Disclaimer = diagnosisDisclaimer
	}
	return &DiagnosisOutcome{Result: result, Source: domain.DiagnosisSourceLive}, nil
}

// gatherContext runs the graph and web searches concurrently, each under
// its own deadline. Cancellation is propagated to the underlying calls; a
// failed or timed-out search contributes nothing instead of failing the
// diagnosis.
func (s *DiagnosisService) gatherContext(ctx context.Context, input *domain.DiagnosisInput) ([]domain.SearchResult, []tavily.Result) {
	var (
		wg           sync.WaitGroup
		graphResults []domain.SearchResult
		webResults   []tavily.Result
	)

	query := searchQueryFromInput(input)

	if s.graph != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			searchCtx, cancel := context.WithTimeout(ctx, graphSearchTimeout)
			defer cancel()
			out := s.graph.Search(searchCtx, query)
			if out != nil {
				graphResults = out.Results
			}
		}()
	}

	if s.web != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			searchCtx, cancel := context.WithTimeout(ctx, webSearchTimeout)
			defer cancel()
			results, err := s.web.Search(searchCtx, query, maxWebSnippets)
			if err != nil {
				log.Printf("diagnosis: web search unavailable: %v", err)
				return
			}
			webResults = results
		}()
	}

	wg.Wait()
	if len(webResults) > maxWebSnippets {
		webResults = webResults[:maxWebSnippets]
	}
	return graphResults, webResults
}

func (s *DiagnosisService) fallbackOutcome(input *domain.DiagnosisInput, reason string) *DiagnosisOutcome {
	result := diagnoseByRules(input)
	result.DiagnosedAt = s.now().UTC()
	result.AppName = input.AppName
	return &DiagnosisOutcome{
		Result:         result,
		Source:         domain.DiagnosisSourceFallback,
		FallbackReason: reason,
	}
}

func searchQueryFromInput(input *domain.DiagnosisInput) string {
	parts := []string{input.AppDescription}
	parts = append(parts, input.AITechnologies...)
	parts = append(parts, input.UseCases...)
	parts = append(parts, input.Concerns...)
	return strings.Join(parts, " ")
}

var fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// parseDiagnosisResponse extracts the fenced JSON block from a free-text
// completion and unmarshals it. A response that is bare JSON is accepted too.
func parseDiagnosisResponse(raw string) (*domain.DiagnosisResult, error) {
	payload := strings.TrimSpace(raw)
	if m := fencedJSONPattern.FindStringSubmatch(payload); m != nil {
		payload = m[1]
	}

	var result domain.DiagnosisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, err
	}
	if len(result.Risks) == 0 && result.ExecutiveSummary == "" {
		return nil, errEmptyDiagnosis
	}
	return &result, nil
}

var errEmptyDiagnosis = domain.NewDomainError(domain.ErrCodeInternalError, "completion contained no diagnosis")
