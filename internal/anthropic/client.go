// Package anthropic wraps the Claude messages API behind a small
// single-turn completion interface.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	// DefaultModel is used when MODEL_NAME is not configured.
	DefaultModel = "claude-sonnet-4-20250514"
	// DefaultMaxTokens bounds single-turn completions.
	DefaultMaxTokens = 4096
)

var (
	// ErrEmptyPrompt is returned when the prompt is empty.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
	// ErrNoAPIKey is returned when no Anthropic API key is configured.
	ErrNoAPIKey = errors.New("ANTHROPIC_API_KEY environment variable not set")
	// ErrEmptyResponse is returned when the API returns no text content.
	ErrEmptyResponse = errors.New("completion returned no text content")
)

// CompletionAPI defines the interface for single-turn completions.
type CompletionAPI interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client wraps the Anthropic API client.
type Client struct {
	api CompletionAPI
}

// SDKAdapter calls the real messages endpoint.
type SDKAdapter struct {
	client    sdk.Client
	model     sdk.Model
	maxTokens int64
}

func NewSDKAdapter(apiKey, model string, maxTokens int64) *SDKAdapter {
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &SDKAdapter{
		client:    sdk.NewClient(option.WithAPIKey(apiKey)),
		model:     sdk.Model(model),
		maxTokens: maxTokens,
	}
}

// Complete sends a single user message and concatenates the text blocks of
// the response.
func (a *SDKAdapter) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := a.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

// Config holds client options.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
}

// NewClient creates a new completion client with defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new completion client with explicit
// configuration.
func NewClientWithConfig(cfg Config) *Client {
	return &Client{api: NewSDKAdapter(cfg.APIKey, cfg.Model, cfg.MaxTokens)}
}

// NewClientFromEnv creates a client from ANTHROPIC_API_KEY and MODEL_NAME.
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClientWithConfig(Config{
		APIKey: apiKey,
		Model:  os.Getenv("MODEL_NAME"),
	}), nil
}

// NewClientWithAPI creates a client backed by a custom API implementation,
// used by tests.
func NewClientWithAPI(api CompletionAPI) *Client {
	return &Client{api: api}
}

// Complete generates a completion for the given prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	text, err := c.api.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}
	return text, nil
}
