package service

import (
	"strings"

	"github.com/lexgraph-ai/lexgraph/internal/domain"
)

// legalTerms maps recognized terms to entity types. Matching is a plain
// substring scan; the dictionary is small enough that this stays cheap.
var legalTerms = map[string]string{
	"個人情報保護法":        "law",
	"著作権法":           "law",
	"不正競争防止法":        "law",
	"特定商取引法":         "law",
	"電気通信事業法":        "law",
	"GDPR":           "regulation",
	"EU AI Act":      "regulation",
	"CCPA":           "regulation",
	"利用規約":           "document",
	"プライバシーポリシー":     "document",
	"要配慮個人情報":        "concept",
	"第三者提供":          "concept",
	"安全管理措置":         "concept",
	"生成AI":           "technology",
	"機械学習":           "technology",
}

// ExtractEntities scans text for recognized legal terms and returns the
// matched entities, deduplicated by name.
func ExtractEntities(text string) []domain.Entity {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)

	entities := make([]domain.Entity, 0, 8)
	for term, entityType := range legalTerms {
		if strings.Contains(lower, strings.ToLower(term)) {
			entities = append(entities, domain.Entity{Name: term, Type: entityType})
		}
	}
	return entities
}
