package service

import (
	"strings"
	"unicode"
)

// ChunkConfig controls how extracted document text is split.
type ChunkConfig struct {
	MaxChars  int
	MinChars  int
	MaxChunks int
}

// DefaultChunkConfig provides sane defaults for chunking.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxChars:  1000,
		MinChars:  200,
		MaxChunks: 200,
	}
}

// sentence terminators for Japanese and Western text.
func isSentenceEnd(r rune) bool {
	switch r {
	case '。', '！', '？', '.', '!', '?', '\n':
		return true
	}
	return false
}

// chunkText splits text into roughly MaxChars-sized pieces, preferring to
// cut at a sentence boundary and falling back to whitespace, then a hard cut.
func chunkText(text string, cfg ChunkConfig) []string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil
	}
	if cfg.MaxChars <= 0 {
		cfg = DefaultChunkConfig()
	}
	runes := []rune(clean)
	if len(runes) <= cfg.MaxChars {
		return []string{clean}
	}

	chunks := make([]string, 0, len(runes)/cfg.MaxChars+1)
	start := 0
	for start < len(runes) {
		if cfg.MaxChunks > 0 && len(chunks) >= cfg.MaxChunks {
			break
		}

		end := start + cfg.MaxChars
		if end >= len(runes) {
			end = len(runes)
		} else {
			minCut := start + cfg.MinChars
			if minCut >= end {
				minCut = start
			}

			cut := -1
			for i := end; i > minCut; i-- {
				if isSentenceEnd(runes[i-1]) {
					cut = i
					break
				}
			}
			if cut < 0 {
				for i := end; i > minCut; i-- {
					if unicode.IsSpace(runes[i-1]) {
						cut = i
						break
					}
				}
			}
			if cut > start {
				end = cut
			}
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end <= start {
			break
		}
		start = end
	}

	return chunks
}
