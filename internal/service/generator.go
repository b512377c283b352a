package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lexgraph-ai/lexgraph/internal/domain"
)

// generationBatchSize bounds how many documents are generated concurrently.
const generationBatchSize = 2

// GeneratorService produces legal documents from templates and completions.
// llm may be nil; every document then comes from the static templates.
type GeneratorService struct {
	llm Completer
	now func() time.Time
}

func NewGeneratorService(llm Completer) *GeneratorService {
	return &GeneratorService{llm: llm, now: time.Now}
}

// Generate produces one document per requested type, in request order.
// Per-type completion failures substitute the static template; the call as
// a whole only fails on invalid input or cancellation.
func (s *GeneratorService) Generate(ctx context.Context, input *domain.GeneratorInput) ([]domain.GeneratedDocument, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	docs := make([]domain.GeneratedDocument, len(input.DocumentTypes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(generationBatchSize)
	for i, typ := range input.DocumentTypes {
		g.Go(func() error {
			docs[i] = s.generateOne(gctx, input, typ)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// EmitFunc receives progress events from the streaming variant.
type EmitFunc func(domain.ProgressEvent) error

// GenerateStream generates documents in batches of two and reports progress
// through emit. The remaining-time estimate is the naive linear
// elapsed/completed*remaining.
func (s *GeneratorService) GenerateStream(ctx context.Context, input *domain.GeneratorInput, emit EmitFunc) error {
	if err := input.Validate(); err != nil {
		return err
	}

	total := len(input.DocumentTypes)
	started := s.now()

	var mu sync.Mutex
	completed := 0

	if err := emit(domain.ProgressEvent{Type: domain.ProgressEventStart, Total: total}); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(generationBatchSize)
	for _, typ := range input.DocumentTypes {
		g.Go(func() error {
			mu.Lock()
			err := emit(domain.ProgressEvent{
				Type:         domain.ProgressEventProgress,
				DocumentType: typ,
				Title:        typ.DisplayTitle(),
				Completed:    completed,
				Total:        total,
			})
			mu.Unlock()
			if err != nil {
				return err
			}

			doc := s.generateOne(gctx, input, typ)

			mu.Lock()
			defer mu.Unlock()
			if gctx.Err() != nil {
				return emit(domain.ProgressEvent{
					Type:         domain.ProgressEventError,
					DocumentType: typ,
					Title:        typ.DisplayTitle(),
					Completed:    completed,
					Total:        total,
					Error:        gctx.Err().Error(),
				})
			}
			completed++
			return emit(domain.ProgressEvent{
				Type:                 domain.ProgressEventComplete,
				DocumentType:         typ,
				Title:                doc.Title,
				Completed:            completed,
				Total:                total,
				EstimatedRemainingMS: estimateRemaining(s.now().Sub(started), completed, total),
				Document:             &doc,
			})
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return emit(domain.ProgressEvent{Type: domain.ProgressEventDone, Completed: completed, Total: total})
}

// generateOne never fails: the static template is the floor.
func (s *GeneratorService) generateOne(ctx context.Context, input *domain.GeneratorInput, typ domain.DocumentType) domain.GeneratedDocument {
	internal := isInternalUse(input)

	if s.llm != nil && ctx.Err() == nil {
		prompt := buildDocumentPrompt(input, typ, internal)

		completionCtx, cancel := context.WithTimeout(ctx, completionTimeout)
		content, err := s.llm.Complete(completionCtx, prompt)
		cancel()
		if err == nil {
			return domain.GeneratedDocument{
				Type:        typ,
				Title:       typ.DisplayTitle(),
				Content:     cleanMarkdownContent(content),
				GeneratedAt: s.now().UTC(),
			}
		}
		log.Printf("generator: completion for %s failed, using template: %v", typ, err)
	}

	return domain.GeneratedDocument{
		Type:        typ,
		Title:       typ.DisplayTitle(),
		Content:     fallbackDocument(typ, internal, input),
		GeneratedAt: s.now().UTC(),
	}
}

func estimateRemaining(elapsed time.Duration, completed, total int) int64 {
	if completed <= 0 || completed >= total {
		return 0
	}
	perDoc := elapsed / time.Duration(completed)
	return (perDoc * time.Duration(total-completed)).Milliseconds()
}

// cleanMarkdownContent removes code fences that completion models sometimes
// add around the whole document. Leading and trailing fences are stripped
// independently: a truncated completion can leave a stray fence on either end.
func cleanMarkdownContent(content string) string {
	trimmed := strings.TrimSpace(content)
	for strings.HasPrefix(trimmed, "```") {
		if idx := strings.Index(trimmed, "\n"); idx >= 0 {
			trimmed = trimmed[idx+1:]
		} else {
			trimmed = strings.TrimPrefix(trimmed, "```")
		}
		trimmed = strings.TrimSpace(trimmed)
	}
	for strings.HasSuffix(trimmed, "```") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "```"))
	}
	return trimmed
}
