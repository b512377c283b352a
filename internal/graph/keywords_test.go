package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	keywords := ExtractKeywords("What are the risks of generative AI for personal data?")

	assert.Equal(t, []string{"risks", "generative", "ai", "personal", "data"}, keywords)
}

func TestExtractKeywords_JapaneseStopWords(t *testing.T) {
	keywords := ExtractKeywords("個人情報保護法 について 改正 です")

	assert.Equal(t, []string{"個人情報保護法", "改正"}, keywords)
}

func TestExtractKeywords_DropsShortFragments(t *testing.T) {
	keywords := ExtractKeywords("x 法 AI GDPR")

	assert.NotContains(t, keywords, "x")
	assert.NotContains(t, keywords, "法")
	assert.Contains(t, keywords, "ai")
	assert.Contains(t, keywords, "gdpr")
}

func TestExtractKeywords_Deduplicates(t *testing.T) {
	keywords := ExtractKeywords("GDPR gdpr Gdpr compliance")

	assert.Equal(t, []string{"gdpr", "compliance"}, keywords)
}

func TestExtractKeywords_CapsAtTen(t *testing.T) {
	words := []string{
		"alpha", "bravo", "charlie", "delta", "echo", "foxtrot",
		"golf", "hotel", "india", "juliet", "kilo", "lima",
	}

	keywords := ExtractKeywords(strings.Join(words, " "))

	assert.Len(t, keywords, 10)
	assert.Equal(t, "juliet", keywords[9])
}

func TestExtractKeywords_Empty(t *testing.T) {
	assert.Empty(t, ExtractKeywords(""))
	assert.Empty(t, ExtractKeywords("  ,,, !!! "))
}
