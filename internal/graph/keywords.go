package graph

import (
	"strings"
	"unicode"
)

const maxKeywords = 10

// stopWords are filtered out of search queries. The Japanese entries cover
// common particles and filler that survive a naive split.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "in": {}, "is": {}, "it": {}, "of": {},
	"on": {}, "or": {}, "that": {}, "the": {}, "to": {}, "was": {}, "what": {},
	"when": {}, "where": {}, "which": {}, "with": {},
	"について": {}, "に関する": {}, "ため": {}, "こと": {}, "もの": {},
	"する": {}, "です": {}, "ます": {}, "これ": {}, "それ": {}, "ください": {},
}

// ExtractKeywords splits a free-text query on whitespace and punctuation,
// lowercases, drops stop words and one-rune fragments, and returns up to
// ten unique keywords. No stemming or morphological analysis is applied.
func ExtractKeywords(query string) []string {
	fields := strings.FieldsFunc(query, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})

	seen := make(map[string]struct{}, len(fields))
	keywords := make([]string, 0, maxKeywords)
	for _, f := range fields {
		w := strings.ToLower(strings.TrimSpace(f))
		if len([]rune(w)) < 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		keywords = append(keywords, w)
		if len(keywords) >= maxKeywords {
			break
		}
	}
	return keywords
}
