package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lexgraph-ai/lexgraph/internal/domain"
	"github.com/lexgraph-ai/lexgraph/internal/service"
)

type MockGeneratorService struct {
	mock.Mock
}

func (m *MockGeneratorService) Generate(ctx context.Context, input *domain.GeneratorInput) ([]domain.GeneratedDocument, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GeneratedDocument), args.Error(1)
}

func (m *MockGeneratorService) GenerateStream(ctx context.Context, input *domain.GeneratorInput, emit service.EmitFunc) error {
	args := m.Called(ctx, input, emit)
	return args.Error(0)
}

func TestGeneratorHandler_Generate(t *testing.T) {
	svc := new(MockGeneratorService)
	handler := NewGeneratorHandler(svc)

	docs := []domain.GeneratedDocument{
		{Type: domain.DocumentTypePrivacyPolicy, Title: "プライバシーポリシー", Content: "# プライバシーポリシー", GeneratedAt: time.Now().UTC()},
	}
	svc.On("Generate", mock.Anything, mock.Anything).Return(docs, nil)

	body := strings.NewReader(`{"documentTypes":["privacy_policy"],"companyName":"テスト株式会社"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/generator/generate", body)
	w := httptest.NewRecorder()

	handler.Generate(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []domain.GeneratedDocument `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, domain.DocumentTypePrivacyPolicy, resp.Data[0].Type)
}

func TestGeneratorHandler_GenerateInvalidType(t *testing.T) {
	svc := new(MockGeneratorService)
	handler := NewGeneratorHandler(svc)

	svc.On("Generate", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidDocumentType)

	body := strings.NewReader(`{"documentTypes":["contract"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/generator/generate", body)
	w := httptest.NewRecorder()

	handler.Generate(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGeneratorHandler_GenerateStream(t *testing.T) {
	svc := new(MockGeneratorService)
	handler := NewGeneratorHandler(svc)

	doc := domain.GeneratedDocument{
		Type:    domain.DocumentTypeDisclaimer,
		Title:   "免責事項",
		Content: "# 免責事項",
	}
	svc.On("GenerateStream", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		emit := args.Get(2).(service.EmitFunc)
		require.NoError(t, emit(domain.ProgressEvent{Type: domain.ProgressEventStart, Total: 1}))
		require.NoError(t, emit(domain.ProgressEvent{Type: domain.ProgressEventComplete, DocumentType: doc.Type, Completed: 1, Total: 1, Document: &doc}))
		require.NoError(t, emit(domain.ProgressEvent{Type: domain.ProgressEventDone, Completed: 1, Total: 1}))
	}).Return(nil)

	body := strings.NewReader(`{"documentTypes":["disclaimer"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/generator/generate-stream", body)
	w := httptest.NewRecorder()

	handler.GenerateStream(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	var events []domain.ProgressEvent
	scanner := bufio.NewScanner(w.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev domain.ProgressEvent
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
		events = append(events, ev)
	}

	require.Len(t, events, 3)
	assert.Equal(t, domain.ProgressEventStart, events[0].Type)
	assert.Equal(t, domain.ProgressEventComplete, events[1].Type)
	require.NotNil(t, events[1].Document)
	assert.Equal(t, "免責事項", events[1].Document.Title)
	assert.Equal(t, domain.ProgressEventDone, events[2].Type)
}

func TestGeneratorHandler_GenerateStreamValidationBeforeStream(t *testing.T) {
	svc := new(MockGeneratorService)
	handler := NewGeneratorHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/generator/generate-stream", strings.NewReader(`{"documentTypes":[]}`))
	w := httptest.NewRecorder()

	handler.GenerateStream(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEqual(t, "text/event-stream", w.Header().Get("Content-Type"))
	svc.AssertNotCalled(t, "GenerateStream", mock.Anything, mock.Anything, mock.Anything)
}
