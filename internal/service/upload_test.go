package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lexgraph-ai/lexgraph/internal/domain"
)

type MockDocumentGraph struct {
	mock.Mock
}

func (m *MockDocumentGraph) CreateDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk, entities []domain.Entity) error {
	args := m.Called(ctx, doc, chunks, entities)
	return args.Error(0)
}

func (m *MockDocumentGraph) HasRecentUpload(ctx context.Context, fileName, email string, since time.Time) (bool, error) {
	args := m.Called(ctx, fileName, email, since)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentGraph) UpsertMemberOnUpload(ctx context.Context, email, organization string, at time.Time) error {
	args := m.Called(ctx, email, organization, at)
	return args.Error(0)
}

type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	args := m.Called(ctx, key, contentType, body)
	return args.Error(0)
}

func uploadFixture() UploadInput {
	return UploadInput{
		FileName:     "guideline.md",
		ContentType:  "text/markdown",
		Data:         []byte("# ガイドライン\n個人情報保護法の遵守について。"),
		MemberEmail:  "taro@example.com",
		Organization: "Example Inc",
	}
}

func TestUpload_Success(t *testing.T) {
	store := new(MockDocumentGraph)
	svc := NewUploadService(store, nil, 1024)

	store.On("HasRecentUpload", mock.Anything, "guideline.md", "taro@example.com", mock.Anything).Return(false, nil)
	store.On("CreateDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	store.On("UpsertMemberOnUpload", mock.Anything, "taro@example.com", "Example Inc", mock.Anything).Return(nil)

	result, err := svc.Upload(context.Background(), uploadFixture())

	require.NoError(t, err)
	assert.Equal(t, "guideline.md", result.FileName)
	assert.Equal(t, "taro@example.com", result.UploadedBy)
	assert.Equal(t, "processed", result.Status)
	assert.Equal(t, 1, result.ChunkCount)
	store.AssertExpectations(t)

	doc := store.Calls[1].Arguments.Get(1).(*domain.Document)
	assert.Equal(t, "guideline", doc.Title)
	assert.Equal(t, "upload", doc.Source)
	assert.False(t, doc.IsDefault)

	entities := store.Calls[1].Arguments.Get(3).([]domain.Entity)
	assert.NotEmpty(t, entities)
}

func TestUpload_MissingMemberEmail(t *testing.T) {
	store := new(MockDocumentGraph)
	svc := NewUploadService(store, nil, 1024)

	input := uploadFixture()
	input.MemberEmail = "  "

	_, err := svc.Upload(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrMissingMemberEmail)
	store.AssertNotCalled(t, "HasRecentUpload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpload_DuplicateWithinWindow(t *testing.T) {
	store := new(MockDocumentGraph)
	svc := NewUploadService(store, nil, 1024)

	store.On("HasRecentUpload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

	_, err := svc.Upload(context.Background(), uploadFixture())

	assert.ErrorIs(t, err, domain.ErrDuplicateUpload)
	store.AssertNotCalled(t, "CreateDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpload_NoExtractableText(t *testing.T) {
	store := new(MockDocumentGraph)
	svc := NewUploadService(store, nil, 1024)

	store.On("HasRecentUpload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	input := uploadFixture()
	input.Data = []byte("   \n\t  ")

	_, err := svc.Upload(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrNoExtractableText)
}

func TestUpload_ArchiveFailureDoesNotFailUpload(t *testing.T) {
	store := new(MockDocumentGraph)
	archive := new(MockArchiver)
	svc := NewUploadService(store, archive, 1024)

	store.On("HasRecentUpload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	store.On("CreateDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	store.On("UpsertMemberOnUpload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	archive.On("PutObject", mock.Anything, "taro@example.com/guideline.md", "text/markdown", mock.Anything).Return(assert.AnError)

	result, err := svc.Upload(context.Background(), uploadFixture())

	require.NoError(t, err)
	assert.Equal(t, "processed", result.Status)
	archive.AssertExpectations(t)
}

func TestUpload_MemberUpsertFailureDoesNotFailUpload(t *testing.T) {
	store := new(MockDocumentGraph)
	svc := NewUploadService(store, nil, 1024)

	store.On("HasRecentUpload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	store.On("CreateDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	store.On("UpsertMemberOnUpload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	result, err := svc.Upload(context.Background(), uploadFixture())

	require.NoError(t, err)
	assert.Equal(t, "processed", result.Status)
}

func TestApproximatePage(t *testing.T) {
	assert.Equal(t, 1, approximatePage(0, 4, 1))
	assert.Equal(t, 1, approximatePage(0, 4, 2))
	assert.Equal(t, 2, approximatePage(3, 4, 2))
	assert.Equal(t, 10, approximatePage(9, 10, 10))
	assert.Equal(t, 1, approximatePage(0, 0, 5))
}

func TestTitleFromFileName(t *testing.T) {
	assert.Equal(t, "privacy policy", titleFromFileName("privacy_policy.md"))
	assert.Equal(t, "report", titleFromFileName("report.pdf"))
	assert.Equal(t, "noext", titleFromFileName("noext"))
}
