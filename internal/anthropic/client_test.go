package anthropic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCompletionAPI struct {
	mock.Mock
}

func (m *MockCompletionAPI) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func TestComplete(t *testing.T) {
	api := new(MockCompletionAPI)
	api.On("Complete", mock.Anything, "診断してください").Return("診断結果です", nil)

	c := NewClientWithAPI(api)

	text, err := c.Complete(context.Background(), "診断してください")

	require.NoError(t, err)
	assert.Equal(t, "診断結果です", text)
	api.AssertExpectations(t)
}

func TestComplete_EmptyPrompt(t *testing.T) {
	api := new(MockCompletionAPI)
	c := NewClientWithAPI(api)

	_, err := c.Complete(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrEmptyPrompt)
	api.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestComplete_WrapsAPIError(t *testing.T) {
	api := new(MockCompletionAPI)
	api.On("Complete", mock.Anything, mock.Anything).Return("", assert.AnError)

	c := NewClientWithAPI(api)

	_, err := c.Complete(context.Background(), "p")

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to create completion")
}

func TestNewClientFromEnv_MissingKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := NewClientFromEnv()

	assert.ErrorIs(t, err, ErrNoAPIKey)
}
