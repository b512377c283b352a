package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText_ShortTextSingleChunk(t *testing.T) {
	chunks := chunkText("短いテキスト。", DefaultChunkConfig())
	require.Len(t, chunks, 1)
	assert.Equal(t, "短いテキスト。", chunks[0])
}

func TestChunkText_Empty(t *testing.T) {
	assert.Nil(t, chunkText("", DefaultChunkConfig()))
	assert.Nil(t, chunkText("   \n\t  ", DefaultChunkConfig()))
}

func TestChunkText_PrefersSentenceBoundary(t *testing.T) {
	cfg := ChunkConfig{MaxChars: 30, MinChars: 10, MaxChunks: 10}
	text := "これは最初の文です。これは二番目の文です。これは三番目の文です。"

	chunks := chunkText(text, cfg)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(c, "。"), "chunk %q should end at a sentence boundary", c)
	}
}

func TestChunkText_HardCutWithoutBoundaries(t *testing.T) {
	cfg := ChunkConfig{MaxChars: 50, MinChars: 10, MaxChunks: 10}
	text := strings.Repeat("あ", 120)

	chunks := chunkText(text, cfg)

	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 50)
	}
}

func TestChunkText_RespectsMaxChunks(t *testing.T) {
	cfg := ChunkConfig{MaxChars: 10, MinChars: 2, MaxChunks: 3}
	text := strings.Repeat("あ", 200)

	chunks := chunkText(text, cfg)

	assert.Len(t, chunks, 3)
}

func TestChunkText_NoContentLost(t *testing.T) {
	cfg := ChunkConfig{MaxChars: 40, MinChars: 10, MaxChunks: 100}
	text := "個人情報保護法の改正について。事業者は安全管理措置を講じる必要がある。委託先の監督も求められる。"

	chunks := chunkText(text, cfg)

	joined := strings.Join(chunks, "")
	assert.Equal(t, strings.ReplaceAll(text, " ", ""), strings.ReplaceAll(joined, " ", ""))
}
