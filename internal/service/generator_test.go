package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lexgraph-ai/lexgraph/internal/domain"
)

func TestGenerate_TemplateFallbackWithoutCompleter(t *testing.T) {
	svc := NewGeneratorService(nil)

	docs, err := svc.Generate(context.Background(), &domain.GeneratorInput{
		DocumentTypes: []domain.DocumentType{
			domain.DocumentTypeTermsOfService,
			domain.DocumentTypePrivacyPolicy,
		},
		CompanyName: "テスト株式会社",
	})

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, domain.DocumentTypeTermsOfService, docs[0].Type)
	assert.Equal(t, domain.DocumentTypePrivacyPolicy, docs[1].Type)
	assert.Contains(t, docs[0].Content, "テスト株式会社")
	assert.NotEmpty(t, docs[1].Content)
	assert.False(t, docs[0].GeneratedAt.IsZero())
}

func TestGenerate_PreservesRequestOrder(t *testing.T) {
	llm := new(MockCompleter)
	svc := NewGeneratorService(llm)

	llm.On("Complete", mock.Anything, mock.Anything).Return("# 文書", nil)

	types := []domain.DocumentType{
		domain.DocumentTypeDisclaimer,
		domain.DocumentTypeAIUsagePolicy,
		domain.DocumentTypeDataHandlingRules,
	}

	docs, err := svc.Generate(context.Background(), &domain.GeneratorInput{DocumentTypes: types})

	require.NoError(t, err)
	require.Len(t, docs, 3)
	for i, typ := range types {
		assert.Equal(t, typ, docs[i].Type)
	}
}

func TestGenerate_ValidationErrors(t *testing.T) {
	svc := NewGeneratorService(nil)

	_, err := svc.Generate(context.Background(), &domain.GeneratorInput{})
	assert.ErrorIs(t, err, domain.ErrNoDocumentTypes)

	_, err = svc.Generate(context.Background(), &domain.GeneratorInput{
		DocumentTypes: []domain.DocumentType{"contract"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDocumentType)
}

func TestGenerate_CompletionFailureFallsBackPerDocument(t *testing.T) {
	llm := new(MockCompleter)
	svc := NewGeneratorService(llm)

	llm.On("Complete", mock.Anything, mock.Anything).Return("", assert.AnError)

	docs, err := svc.Generate(context.Background(), &domain.GeneratorInput{
		DocumentTypes: []domain.DocumentType{domain.DocumentTypeDisclaimer},
	})

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.NotEmpty(t, docs[0].Content)
	assert.Equal(t, "免責事項", docs[0].Title)
}

func TestGenerateStream_EventSequence(t *testing.T) {
	svc := NewGeneratorService(nil)

	var mu sync.Mutex
	var events []domain.ProgressEvent
	emit := func(ev domain.ProgressEvent) error {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
		return nil
	}

	err := svc.GenerateStream(context.Background(), &domain.GeneratorInput{
		DocumentTypes: []domain.DocumentType{
			domain.DocumentTypeTermsOfService,
			domain.DocumentTypePrivacyPolicy,
			domain.DocumentTypeDisclaimer,
		},
	}, emit)

	require.NoError(t, err)
	require.NotEmpty(t, events)

	assert.Equal(t, domain.ProgressEventStart, events[0].Type)
	assert.Equal(t, 3, events[0].Total)
	assert.Equal(t, domain.ProgressEventDone, events[len(events)-1].Type)
	assert.Equal(t, 3, events[len(events)-1].Completed)

	completes := 0
	for _, ev := range events {
		if ev.Type == domain.ProgressEventComplete {
			completes++
			require.NotNil(t, ev.Document)
			assert.NotEmpty(t, ev.Document.Content)
		}
	}
	assert.Equal(t, 3, completes)
}

func TestGenerateStream_ValidationBeforeEvents(t *testing.T) {
	svc := NewGeneratorService(nil)

	called := false
	err := svc.GenerateStream(context.Background(), &domain.GeneratorInput{}, func(domain.ProgressEvent) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, domain.ErrNoDocumentTypes)
	assert.False(t, called)
}

func TestCleanMarkdownContent(t *testing.T) {
	cases := map[string]string{
		"```markdown\n# 利用規約\n本文\n```": "# 利用規約\n本文",
		"```\n# 文書\n```":               "# 文書",
		"# そのまま":                      "# そのまま",
		"  \n# 前後の空白\n  ":             "# 前後の空白",
		"# 利用規約\n\n本文。\n```":          "# 利用規約\n\n本文。",
		"```markdown\n# 途中で切れた文書":     "# 途中で切れた文書",
	}

	for input, want := range cases {
		got := cleanMarkdownContent(input)
		assert.Equal(t, want, got)
		assert.False(t, strings.HasPrefix(got, "```"), "input %q", input)
		assert.False(t, strings.HasSuffix(got, "```"), "input %q", input)
	}
}

func TestEstimateRemaining(t *testing.T) {
	assert.EqualValues(t, 0, estimateRemaining(0, 0, 3))
	assert.EqualValues(t, 0, estimateRemaining(1000, 3, 3))
	// 2 of 4 done in 10s: 10s remain.
	assert.EqualValues(t, 10000, estimateRemaining(10_000_000_000, 2, 4))
}

func TestIsInternalUse(t *testing.T) {
	internal := &domain.GeneratorInput{
		DiagnosisInput: &domain.DiagnosisInput{TargetUsers: []string{"internal_employees"}},
	}
	assert.True(t, isInternalUse(internal))

	mixed := &domain.GeneratorInput{
		DiagnosisInput: &domain.DiagnosisInput{TargetUsers: []string{"internal_employees", "customers"}},
	}
	assert.False(t, isInternalUse(mixed))

	assert.False(t, isInternalUse(&domain.GeneratorInput{}))

	empty := &domain.GeneratorInput{DiagnosisInput: &domain.DiagnosisInput{}}
	assert.False(t, isInternalUse(empty))
}
