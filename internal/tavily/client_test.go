package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	var got searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(searchResponse{Results: []Result{
			{Title: "改正個人情報保護法", URL: "https://example.com/appi", Content: "...", Score: 0.91},
		}})
	}))
	defer srv.Close()

	c := NewClient("tvly-test", WithBaseURL(srv.URL))

	results, err := c.Search(context.Background(), "チャットボット", 3)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "改正個人情報保護法", results[0].Title)
	assert.InDelta(t, 0.91, results[0].Score, 1e-9)

	assert.Equal(t, "tvly-test", got.APIKey)
	assert.Equal(t, "basic", got.SearchDepth)
	assert.Equal(t, 3, got.MaxResults)
	assert.Contains(t, got.Query, "チャットボット")
	assert.Contains(t, got.Query, "個人情報保護")
}

func TestSearch_NoAPIKey(t *testing.T) {
	c := NewClient("")

	_, err := c.Search(context.Background(), "q", 5)

	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestSearch_DefaultsMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 5, req.MaxResults)
		json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer srv.Close()

	c := NewClient("tvly-test", WithBaseURL(srv.URL))

	results, err := c.Search(context.Background(), "q", 0)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("tvly-test", WithBaseURL(srv.URL))

	_, err := c.Search(context.Background(), "q", 5)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestEnrichQuery(t *testing.T) {
	enriched := EnrichQuery("画像生成アプリ")

	assert.Contains(t, enriched, "画像生成アプリ")
	assert.Contains(t, enriched, "法規制")
}
