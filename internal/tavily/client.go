// Package tavily is a minimal client for the Tavily web search API.
// There is no official Go SDK; the API is a single JSON POST.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.tavily.com"

// ErrNoAPIKey is returned when no Tavily API key is configured.
var ErrNoAPIKey = errors.New("TAVILY_API_KEY not set")

// Result is one web search hit.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Client calls the Tavily search endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type searchResponse struct {
	Results []Result `json:"results"`
}

// Search runs a web search. The query is enriched with legal-context terms
// so generic app descriptions still surface regulatory material.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	body, err := json.Marshal(searchRequest{
		APIKey:      c.apiKey,
		Query:       EnrichQuery(query),
		SearchDepth: "basic",
		MaxResults:  maxResults,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily: search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tavily: search returned %d: %s", resp.StatusCode, raw)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("tavily: decode response: %w", err)
	}
	return parsed.Results, nil
}

// EnrichQuery appends legal-context terms to a raw query.
func EnrichQuery(query string) string {
	return query + " AI 法規制 利用規約 個人情報保護 コンプライアンス"
}
