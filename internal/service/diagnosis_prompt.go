package service

import (
	"fmt"
	"strings"

	"github.com/lexgraph-ai/lexgraph/internal/domain"
	"github.com/lexgraph-ai/lexgraph/internal/tavily"
)

const diagnosisDisclaimer = "本診断は一般的な情報提供を目的としたものであり、法的助言を構成するものではありません。具体的な対応については弁護士等の専門家にご相談ください。"

const maxGraphExcerpts = 8
const excerptMaxChars = 400

// buildDiagnosisPrompt assembles the single-turn prompt: questionnaire,
// graph-retrieved excerpts, web snippets, and the required output schema.
func buildDiagnosisPrompt(input *domain.DiagnosisInput, graphResults []domain.SearchResult, webResults []tavily.Result) string {
	var b strings.Builder

	b.WriteString("あなたはAIサービスの法的リスクを診断する専門家です。以下の情報をもとに、法的リスク診断を行ってください。\n\n")

	b.WriteString("## サービス概要\n")
	if input.AppName != "" {
		fmt.Fprintf(&b, "サービス名: %s\n", input.AppName)
	}
	fmt.Fprintf(&b, "説明: %s\n", input.AppDescription)
	writeListSection(&b, "利用AI技術", input.AITechnologies)
	writeListSection(&b, "AIプロバイダ", input.Providers)
	writeListSection(&b, "入力データの種類", input.InputDataTypes)
	if input.DataTransmission != "" {
		fmt.Fprintf(&b, "データ送信形態: %s\n", input.DataTransmission)
	}
	writeListSection(&b, "対象ユーザー", input.TargetUsers)
	writeListSection(&b, "ユースケース", input.UseCases)
	writeListSection(&b, "懸念事項", input.Concerns)
	if input.FreeText != "" {
		fmt.Fprintf(&b, "補足: %s\n", input.FreeText)
	}

	if len(graphResults) > 0 {
		b.WriteString("\n## 参照資料（社内ナレッジ）\n")
		count := len(graphResults)
		if count > maxGraphExcerpts {
			count = maxGraphExcerpts
		}
		for i := 0; i < count; i++ {
			r := graphResults[i]
			fmt.Fprintf(&b, "- [%s] %s\n", r.Title, truncate(r.Content, excerptMaxChars))
		}
	}

	if len(webResults) > 0 {
		b.WriteString("\n## 最新のウェブ情報\n")
		for _, r := range webResults {
			fmt.Fprintf(&b, "- [%s](%s) %s\n", r.Title, r.URL, truncate(r.Content, excerptMaxChars))
		}
	}

	b.WriteString(`
## 出力形式
以下のJSON形式で回答してください。JSONは ` + "```json" + ` で囲んでください。

` + "```json" + `
{
  "overallRiskLevel": "low | medium | high",
  "executiveSummary": "診断結果の要約（2〜3文）",
  "risks": [
    {
      "category": "リスクカテゴリ",
      "level": "low | medium | high",
      "title": "リスクの見出し",
      "description": "リスクの説明",
      "recommendations": ["推奨対応1", "推奨対応2"],
      "legalBasis": "関連法令"
    }
  ],
  "priorityActions": ["優先対応1", "優先対応2"],
  "relatedCases": [
    {"title": "関連事例", "summary": "概要", "url": ""}
  ],
  "disclaimer": "免責事項"
}
` + "```" + `
`)

	return b.String()
}

func writeListSection(b *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(values, ", "))
}

func truncate(s string, max int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max]) + "…"
}
